package service

import (
	"context"
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewEnrollmentService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{CourseRepo: courseRepo, EnrollmentRepo: enrollmentRepo}
}

// Enroll 重复报名返回已有记录，created=false
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*model.Enrollment, bool, error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, false, notFound(err, ErrCourseNotFound)
	}
	if course.InstructorID == userID {
		return nil, false, ErrEnrollOwnCourse
	}

	enrollment := &model.Enrollment{
		StudentID:  userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	created, err := s.EnrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		return nil, false, err
	}
	if !created {
		existing, err := s.EnrollmentRepo.Find(ctx, userID, courseID)
		return existing, false, err
	}

	logger.Log.Info("Student enrolled", zap.Uint("userID", userID), zap.Uint("courseID", courseID))
	return enrollment, true, nil
}

func (s *EnrollmentService) Get(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	e, err := s.EnrollmentRepo.Find(ctx, userID, courseID)
	if err != nil {
		return nil, notFound(err, ErrEnrollmentNotFound)
	}
	return e, nil
}

func (s *EnrollmentService) ListForStudent(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(ctx, userID)
}

// CheckAccess 报名学生或课程讲师可以访问课程内的测验、作业和论坛
// 返回值 owner 表示调用者是该课程的讲师
func (s *EnrollmentService) CheckAccess(ctx context.Context, userID, courseID uint) (owner bool, err error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return false, notFound(err, ErrCourseNotFound)
	}
	if course.InstructorID == userID {
		return true, nil
	}

	if _, err := s.EnrollmentRepo.Find(ctx, userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotEnrolled
		}
		return false, err
	}
	return false, nil
}
