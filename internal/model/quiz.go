package model

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
)

const DefaultPassingScore = 70

type Quiz struct {
	BaseModel
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	TimeLimit    int        `json:"timeLimit"` // 分钟
	PassingScore int        `gorm:"default:70" json:"passingScore"`
	ModuleID     uint       `gorm:"index;not null" json:"moduleId"`
	Questions    []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question 选项以有序字符串列表保存，只在存储层序列化为 JSON
type Question struct {
	BaseModel
	Text          string                       `gorm:"type:text;not null" json:"text"`
	QuestionType  QuestionType                 `gorm:"size:50;not null" json:"questionType"`
	Options       datatypes.JSONType[[]string] `json:"options"`
	CorrectAnswer string                       `gorm:"size:500;not null" json:"correctAnswer,omitempty"`
	Points        int                          `gorm:"default:1" json:"points"`
	QuizID        uint                         `gorm:"index;not null" json:"quizId"`
}

func (Question) TableName() string {
	return "questions"
}

// QuizAttempt 每次作答一条记录，允许多次作答
type QuizAttempt struct {
	ID          uint                                `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint                                `gorm:"index;not null" json:"userId"`
	QuizID      uint                                `gorm:"index;not null" json:"quizId"`
	Score       float64                             `json:"score"`
	Passed      bool                                `json:"passed"`
	Answers     datatypes.JSONType[map[uint]string] `json:"answers"`
	StartedAt   time.Time                           `json:"startedAt"`
	CompletedAt *time.Time                          `json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
