package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
)

type AssignmentInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	MaxScore    int
}

type SubmissionService struct {
	AssignmentRepo *repository.AssignmentRepository
	Courses        *CourseService
	Enrollments    *EnrollmentService
	Storage        StorageProvider
}

func NewSubmissionService(
	assignmentRepo *repository.AssignmentRepository,
	courses *CourseService,
	enrollments *EnrollmentService,
	storage StorageProvider,
) *SubmissionService {
	return &SubmissionService{
		AssignmentRepo: assignmentRepo,
		Courses:        courses,
		Enrollments:    enrollments,
		Storage:        storage,
	}
}

func (s *SubmissionService) CreateAssignment(ctx context.Context, actorID, moduleID uint, in AssignmentInput) (*model.Assignment, error) {
	if _, err := s.Courses.RequireModuleOwner(ctx, actorID, moduleID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: assignment title is required", util.ErrInvalidInput)
	}
	maxScore := in.MaxScore
	if maxScore == 0 {
		maxScore = model.DefaultMaxScore
	}
	if maxScore < 0 {
		return nil, fmt.Errorf("%w: max score must be positive", util.ErrInvalidInput)
	}

	a := &model.Assignment{
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate,
		MaxScore:    maxScore,
		ModuleID:    moduleID,
	}
	if err := s.AssignmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SubmissionService) GetAssignment(ctx context.Context, userID, assignmentID uint) (*model.Assignment, error) {
	courseID, err := s.AssignmentRepo.CourseIDOf(ctx, assignmentID)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	if _, err := s.Enrollments.CheckAccess(ctx, userID, courseID); err != nil {
		return nil, err
	}
	a, err := s.AssignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	return a, nil
}

// Submit 文本和文件至少提供一项，文件写入文件存储
func (s *SubmissionService) Submit(ctx context.Context, userID, assignmentID uint, text string, up *Upload) (*model.Submission, error) {
	courseID, err := s.AssignmentRepo.CourseIDOf(ctx, assignmentID)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	owner, err := s.Enrollments.CheckAccess(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if owner {
		return nil, ErrNotEnrolled
	}

	text = strings.TrimSpace(text)
	if text == "" && up == nil {
		return nil, fmt.Errorf("%w: submission needs text or a file", util.ErrInvalidInput)
	}

	sub := &model.Submission{
		UserID:         userID,
		AssignmentID:   assignmentID,
		SubmissionText: text,
		SubmittedAt:    time.Now(),
	}

	var key string
	if up != nil {
		key = util.GenerateFileName(util.DirSubmissions, up.Filename)
		contentType := up.ContentType
		if contentType == "" {
			contentType = util.MimeOctetStream
		}
		url, err := s.Storage.Upload(ctx, key, up.Reader, up.Size, contentType)
		if err != nil {
			return nil, fmt.Errorf("%w: upload submission: %v", util.ErrStorage, err)
		}
		sub.FileURL = url
	}

	if err := s.AssignmentRepo.CreateSubmission(ctx, sub); err != nil {
		if key != "" {
			s.Storage.Delete(context.WithoutCancel(ctx), key)
		}
		return nil, err
	}
	return sub, nil
}

// Grade 仅课程讲师可评分，0 <= score <= max_score
func (s *SubmissionService) Grade(ctx context.Context, actorID, submissionID uint, score float64, feedback string) (*model.Submission, error) {
	sub, err := s.AssignmentRepo.FindSubmission(ctx, submissionID)
	if err != nil {
		return nil, notFound(err, ErrSubmissionNotFound)
	}
	assignment, err := s.AssignmentRepo.FindByID(ctx, sub.AssignmentID)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	if _, err := s.Courses.RequireModuleOwner(ctx, actorID, assignment.ModuleID); err != nil {
		return nil, err
	}

	if score < 0 || score > float64(assignment.MaxScore) {
		return nil, fmt.Errorf("%w: score must be between 0 and %d", util.ErrInvalidInput, assignment.MaxScore)
	}

	now := time.Now()
	sub.Score = &score
	sub.Feedback = feedback
	sub.GradedAt = &now
	if err := s.AssignmentRepo.SaveGrade(ctx, sub); err != nil {
		return nil, err
	}

	logger.Log.Info("Submission graded",
		zap.Uint("submissionID", sub.ID),
		zap.Uint("graderID", actorID),
		zap.Float64("score", score),
	)
	return sub, nil
}

func (s *SubmissionService) ListForAssignment(ctx context.Context, actorID, assignmentID uint) ([]model.Submission, error) {
	assignment, err := s.AssignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	if _, err := s.Courses.RequireModuleOwner(ctx, actorID, assignment.ModuleID); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.ListSubmissions(ctx, assignmentID)
}

func (s *SubmissionService) ListMine(ctx context.Context, userID, assignmentID uint) ([]model.Submission, error) {
	if _, err := s.AssignmentRepo.FindByID(ctx, assignmentID); err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	return s.AssignmentRepo.ListUserSubmissions(ctx, userID, assignmentID)
}
