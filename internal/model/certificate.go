package model

import "time"

// Certificate 每个 (user, course) 至多一张，编号全局唯一
type Certificate struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint      `gorm:"uniqueIndex:idx_certificate_user_course;not null" json:"userId"`
	CourseID          uint      `gorm:"uniqueIndex:idx_certificate_user_course;not null" json:"courseId"`
	CertificateURL    string    `gorm:"size:500" json:"certificateUrl"`
	FileKey           string    `gorm:"size:255" json:"-"`
	CertificateNumber string    `gorm:"size:100;uniqueIndex;not null" json:"certificateNumber"`
	IssuedAt          time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// CertificateVerification 公开校验接口的返回
type CertificateVerification struct {
	CertificateNumber string    `json:"certificateNumber"`
	Recipient         string    `json:"recipient"`
	CourseTitle       string    `json:"courseTitle"`
	IssuedAt          time.Time `json:"issuedAt"`
}
