package model

import "time"

// Enrollment 每个 (student, course) 至多一条
type Enrollment struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID   uint       `gorm:"uniqueIndex:idx_enrollment_student_course;not null" json:"studentId"`
	CourseID    uint       `gorm:"uniqueIndex:idx_enrollment_student_course;not null" json:"courseId"`
	EnrolledAt  time.Time  `json:"enrolledAt"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Course      *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// ContentCompletion (user, content) 唯一，是完成记录的幂等键
type ContentCompletion struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_completion_user_content;not null" json:"userId"`
	ContentID   uint      `gorm:"uniqueIndex:idx_completion_user_content;index;not null" json:"contentId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (ContentCompletion) TableName() string {
	return "content_completions"
}

// Progress 每次首次完成写一条流水，挂在 enrollment 上
type Progress struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EnrollmentID uint       `gorm:"index;not null" json:"enrollmentId"`
	ContentID    uint       `gorm:"index;not null" json:"contentId"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completedAt"`
}

func (Progress) TableName() string {
	return "progress"
}
