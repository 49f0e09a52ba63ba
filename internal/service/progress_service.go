package service

import (
	"context"
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type ProgressService struct {
	CourseRepo     *repository.CourseRepository
	ContentRepo    *repository.ContentRepository
	CompletionRepo *repository.CompletionRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewProgressService(
	courseRepo *repository.CourseRepository,
	contentRepo *repository.ContentRepository,
	completionRepo *repository.CompletionRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *ProgressService {
	return &ProgressService{
		CourseRepo:     courseRepo,
		ContentRepo:    contentRepo,
		CompletionRepo: completionRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// Percentage total 为 0 时返回 0
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func (s *ProgressService) GetCourseProgress(ctx context.Context, courseID, userID uint) (p *model.CourseProgress, err error) {
	ctx, span := tracing.Start(ctx, "ProgressService.GetCourseProgress",
		attribute.Int64("course.id", int64(courseID)),
		attribute.Int64("user.id", int64(userID)),
	)
	defer func() { tracing.End(span, err) }()

	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return s.compute(ctx, courseID, userID)
}

// compute 只统计属于本课程且未删除的内容，其他课程的完成记录不计入
func (s *ProgressService) compute(ctx context.Context, courseID, userID uint) (*model.CourseProgress, error) {
	total, err := s.ContentRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var completed int64
	if total > 0 {
		completed, err = s.CompletionRepo.CountInCourse(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
	}

	return &model.CourseProgress{
		CourseID:   courseID,
		Total:      int(total),
		Completed:  int(completed),
		Percentage: Percentage(int(completed), int(total)),
	}, nil
}

// ListMyProgress 学生所有报名课程的进度，已删除的课程跳过
func (s *ProgressService) ListMyProgress(ctx context.Context, userID uint) ([]model.EnrollmentProgress, error) {
	enrollments, err := s.EnrollmentRepo.ListByStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]model.EnrollmentProgress, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		p, err := s.compute(ctx, e.CourseID, userID)
		if err != nil {
			return nil, err
		}

		title := e.Course.Title
		e.Course = nil
		items = append(items, model.EnrollmentProgress{
			Enrollment:  e,
			CourseTitle: title,
			Progress:    *p,
		})
	}
	return items, nil
}

// History 学生在某门课程中的完成流水，未报名返回 ErrNotEnrolled
func (s *ProgressService) History(ctx context.Context, userID, courseID uint) ([]model.Progress, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	enrollment, err := s.EnrollmentRepo.Find(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}
	return s.CompletionRepo.ListProgress(ctx, enrollment.ID)
}
