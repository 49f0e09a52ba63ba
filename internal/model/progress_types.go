package model

import "math"

// CourseProgress 课程完成度，Percentage 保留原始精度
type CourseProgress struct {
	CourseID   uint    `json:"courseId"`
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Percentage float64 `json:"percentage"`
}

// Rounded 对外展示时保留一位小数
func (p CourseProgress) Rounded() CourseProgress {
	p.Percentage = math.Round(p.Percentage*10) / 10
	return p
}

// Complete 课程至少有一个内容且全部完成
func (p CourseProgress) Complete() bool {
	return p.Total > 0 && p.Completed >= p.Total
}

// EnrollmentProgress 仪表盘上单门课程的进度
type EnrollmentProgress struct {
	Enrollment  Enrollment     `json:"enrollment"`
	CourseTitle string         `json:"courseTitle"`
	Progress    CourseProgress `json:"progress"`
}
