package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, db *gorm.DB, username string, instructor bool) *model.User {
	tb.Helper()
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "pw",
		IsInstructor: instructor,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, db *gorm.DB, instructorID uint, title string) *model.Course {
	tb.Helper()
	c := &model.Course{
		Title:        title,
		Description:  "description of " + title,
		Category:     "Programming",
		InstructorID: instructorID,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedModule(tb testing.TB, db *gorm.DB, courseID uint, order int) *model.Module {
	tb.Helper()
	m := &model.Module{
		Title:    fmt.Sprintf("Module %d", order),
		Order:    order,
		CourseID: courseID,
	}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedContent(tb testing.TB, db *gorm.DB, moduleID uint, order int) *model.Content {
	tb.Helper()
	c := &model.Content{
		Title:       fmt.Sprintf("Lesson %d", order),
		ContentType: model.ContentText,
		ContentText: "lesson body",
		Order:       order,
		ModuleID:    moduleID,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}

func SeedEnrollment(tb testing.TB, db *gorm.DB, studentID, courseID uint) *model.Enrollment {
	tb.Helper()
	e := &model.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

var seq atomic.Int64

// CourseWithContents 一个讲师、一门课程、一个章节和 n 个文本内容
func CourseWithContents(tb testing.TB, db *gorm.DB, n int) (*model.User, *model.Course, []model.Content) {
	tb.Helper()
	instructor := SeedUser(tb, db, fmt.Sprintf("instructor_%d", seq.Add(1)), true)
	course := SeedCourse(tb, db, instructor.ID, "Go Basics")
	module := SeedModule(tb, db, course.ID, 1)

	contents := make([]model.Content, 0, n)
	for i := 1; i <= n; i++ {
		contents = append(contents, *SeedContent(tb, db, module.ID, i))
	}
	return instructor, course, contents
}
