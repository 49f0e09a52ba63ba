package model

import "time"

const DefaultMaxScore = 100

type Assignment struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	MaxScore    int        `gorm:"default:100" json:"maxScore"`
	ModuleID    uint       `gorm:"index;not null" json:"moduleId"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// Submission 允许重复提交，不做覆盖
type Submission struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint       `gorm:"index;not null" json:"userId"`
	AssignmentID   uint       `gorm:"index;not null" json:"assignmentId"`
	SubmissionText string     `gorm:"type:text" json:"submissionText"`
	FileURL        string     `gorm:"size:500" json:"fileUrl"`
	Score          *float64   `json:"score"`
	Feedback       string     `gorm:"type:text" json:"feedback"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	GradedAt       *time.Time `json:"gradedAt"`
}

func (Submission) TableName() string {
	return "submissions"
}
