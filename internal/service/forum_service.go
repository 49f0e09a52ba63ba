package service

import (
	"context"
	"fmt"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type ForumService struct {
	ForumRepo   *repository.ForumRepository
	Enrollments *EnrollmentService
}

func NewForumService(forumRepo *repository.ForumRepository, enrollments *EnrollmentService) *ForumService {
	return &ForumService{ForumRepo: forumRepo, Enrollments: enrollments}
}

func (s *ForumService) ListThreads(ctx context.Context, userID, courseID uint) ([]model.ForumThread, error) {
	if _, err := s.Enrollments.CheckAccess(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return s.ForumRepo.ListThreads(ctx, courseID)
}

func (s *ForumService) CreateThread(ctx context.Context, userID, courseID uint, title, content string) (*model.ForumThread, error) {
	if _, err := s.Enrollments.CheckAccess(ctx, userID, courseID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", util.ErrInvalidInput)
	}

	t := &model.ForumThread{
		Title:    title,
		Content:  content,
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.ForumRepo.CreateThread(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ForumService) GetThread(ctx context.Context, userID, threadID uint) (*model.ForumThread, error) {
	t, err := s.ForumRepo.FindThread(ctx, threadID)
	if err != nil {
		return nil, notFound(err, ErrThreadNotFound)
	}
	if _, err := s.Enrollments.CheckAccess(ctx, userID, t.CourseID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ForumService) Reply(ctx context.Context, userID, threadID uint, content string) (*model.ForumPost, error) {
	t, err := s.ForumRepo.FindThread(ctx, threadID)
	if err != nil {
		return nil, notFound(err, ErrThreadNotFound)
	}
	if _, err := s.Enrollments.CheckAccess(ctx, userID, t.CourseID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: reply content is required", util.ErrInvalidInput)
	}

	p := &model.ForumPost{
		Content:  content,
		UserID:   userID,
		ThreadID: threadID,
	}
	if err := s.ForumRepo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
