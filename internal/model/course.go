package model

// swagger:model Course
type Course struct {
	BaseModel
	Title        string   `gorm:"size:200;not null" json:"title"`
	Description  string   `gorm:"type:text;not null" json:"description"`
	Category     string   `gorm:"size:100;index" json:"category"`
	Thumbnail    string   `gorm:"size:255" json:"thumbnail"`
	InstructorID uint     `gorm:"index;not null" json:"instructorId"`
	Instructor   *User    `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Modules      []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Module 课程下的章节，未删除章节的 Order 在同一课程内唯一（部分唯一索引见 database.Migrate）
type Module struct {
	BaseModel
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Order       int          `gorm:"not null" json:"order"`
	CourseID    uint         `gorm:"index;not null" json:"courseId"`
	Contents    []Content    `gorm:"foreignKey:ModuleID" json:"contents,omitempty"`
	Quizzes     []Quiz       `gorm:"foreignKey:ModuleID" json:"quizzes,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:ModuleID" json:"assignments,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}
