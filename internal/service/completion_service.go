package service

import (
	"context"
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompletionResult Created=false 表示此前已完成，本次没有任何写入
type CompletionResult struct {
	Created    bool                     `json:"created"`
	Completion *model.ContentCompletion `json:"completion"`
}

type CompletionService struct {
	DB             *gorm.DB
	ContentRepo    *repository.ContentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CompletionRepo *repository.CompletionRepository
}

func NewCompletionService(
	db *gorm.DB,
	contentRepo *repository.ContentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	completionRepo *repository.CompletionRepository,
) *CompletionService {
	return &CompletionService{
		DB:             db,
		ContentRepo:    contentRepo,
		EnrollmentRepo: enrollmentRepo,
		CompletionRepo: completionRepo,
	}
}

// RecordCompletion 首次查看内容时记录完成并写一条进度流水，重复调用不产生写入
func (s *CompletionService) RecordCompletion(ctx context.Context, userID, contentID uint) (res *CompletionResult, err error) {
	ctx, span := tracing.Start(ctx, "CompletionService.RecordCompletion",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("content.id", int64(contentID)),
	)
	defer func() { tracing.End(span, err) }()

	courseID, err := s.ContentRepo.CourseIDOf(ctx, contentID)
	if err != nil {
		return nil, notFound(err, ErrContentNotFound)
	}

	enrollment, err := s.EnrollmentRepo.Find(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.ContentCompletions.WithLabelValues("rejected").Inc()
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	now := time.Now()
	completion := &model.ContentCompletion{
		UserID:      userID,
		ContentID:   contentID,
		CompletedAt: now,
	}

	var created bool
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.CompletionRepo.WithTx(tx)

		var err error
		created, err = repo.Create(ctx, completion)
		if err != nil {
			return err
		}
		if !created {
			// 唯一索引上已有记录（可能来自并发请求），读回已有行
			existing, err := repo.Find(ctx, userID, contentID)
			if err != nil {
				return err
			}
			completion = existing
			return nil
		}

		return repo.CreateProgress(ctx, &model.Progress{
			EnrollmentID: enrollment.ID,
			ContentID:    contentID,
			Completed:    true,
			CompletedAt:  &now,
		})
	})
	if err != nil {
		return nil, err
	}

	if created {
		monitoring.ContentCompletions.WithLabelValues("created").Inc()
		logger.Log.Debug("Content completed",
			zap.Uint("userID", userID),
			zap.Uint("contentID", contentID),
			zap.Uint("courseID", courseID),
		)
	} else {
		monitoring.ContentCompletions.WithLabelValues("duplicate").Inc()
	}

	return &CompletionResult{Created: created, Completion: completion}, nil
}

func (s *CompletionService) IsCompleted(ctx context.Context, userID, contentID uint) (bool, error) {
	return s.CompletionRepo.Exists(ctx, userID, contentID)
}

// CompletedContentIDs 课程大纲上打勾用
func (s *CompletionService) CompletedContentIDs(ctx context.Context, userID, courseID uint) ([]uint, error) {
	return s.CompletionRepo.ContentIDsInCourse(ctx, userID, courseID)
}
