package model

type ForumThread struct {
	BaseModel
	Title    string      `gorm:"size:200;not null" json:"title"`
	Content  string      `gorm:"type:text;not null" json:"content"`
	UserID   uint        `gorm:"index;not null" json:"userId"`
	Author   *User       `gorm:"foreignKey:UserID" json:"author,omitempty"`
	CourseID uint        `gorm:"index;not null" json:"courseId"`
	Posts    []ForumPost `gorm:"foreignKey:ThreadID" json:"posts,omitempty"`
}

func (ForumThread) TableName() string {
	return "forum_threads"
}

type ForumPost struct {
	BaseModel
	Content  string `gorm:"type:text;not null" json:"content"`
	UserID   uint   `gorm:"index;not null" json:"userId"`
	Author   *User  `gorm:"foreignKey:UserID" json:"author,omitempty"`
	ThreadID uint   `gorm:"index;not null" json:"threadId"`
}

func (ForumPost) TableName() string {
	return "forum_posts"
}
