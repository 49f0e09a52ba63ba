package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"size:200;not null" json:"-"`
	IsInstructor bool      `gorm:"default:false" json:"isInstructor"`
	LastSeen     time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
