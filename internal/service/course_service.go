package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseInput struct {
	Title       string
	Description string
	Category    string
}

type ModuleInput struct {
	Title       string
	Description string
	Order       int // 0 表示追加到末尾
}

type CourseService struct {
	CourseRepo *repository.CourseRepository
	Storage    StorageProvider
}

func NewCourseService(courseRepo *repository.CourseRepository, storage StorageProvider) *CourseService {
	return &CourseService{CourseRepo: courseRepo, Storage: storage}
}

func (in *CourseInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: title and description are required", util.ErrInvalidInput)
	}
	return nil
}

func (s *CourseService) CreateCourse(ctx context.Context, instructorID uint, isInstructor bool, in CourseInput) (*model.Course, error) {
	if !isInstructor {
		return nil, ErrNotInstructor
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	logger.Log.Info("Course created", zap.Uint("courseID", course.ID), zap.Uint("instructorID", instructorID))
	return course, nil
}

// RequireOwner 课程存在且属于 actorID
func (s *CourseService) RequireOwner(ctx context.Context, actorID, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	if course.InstructorID != actorID {
		return nil, ErrNotCourseOwner
	}
	return course, nil
}

// RequireModuleOwner 章节所属课程属于 actorID
func (s *CourseService) RequireModuleOwner(ctx context.Context, actorID, moduleID uint) (*model.Module, error) {
	module, err := s.CourseRepo.FindModule(ctx, moduleID)
	if err != nil {
		return nil, notFound(err, ErrModuleNotFound)
	}
	if _, err := s.RequireOwner(ctx, actorID, module.CourseID); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, actorID, courseID uint, in CourseInput) (*model.Course, error) {
	course, err := s.RequireOwner(ctx, actorID, courseID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	course.Title = in.Title
	course.Description = in.Description
	course.Category = in.Category
	if err := s.CourseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse 级联删除章节、内容、测验和作业
func (s *CourseService) DeleteCourse(ctx context.Context, actorID, courseID uint) error {
	if _, err := s.RequireOwner(ctx, actorID, courseID); err != nil {
		return err
	}
	if err := s.CourseRepo.DeleteCourse(ctx, courseID); err != nil {
		return notFound(err, ErrCourseNotFound)
	}
	logger.Log.Info("Course deleted", zap.Uint("courseID", courseID), zap.Uint("actorID", actorID))
	return nil
}

// SetThumbnail 统一裁剪为 640x360 JPEG 后上传
func (s *CourseService) SetThumbnail(ctx context.Context, actorID, courseID uint, filename string, r io.Reader) (*model.Course, error) {
	course, err := s.RequireOwner(ctx, actorID, courseID)
	if err != nil {
		return nil, err
	}
	if !util.HasAllowedExtension(filename, util.AllowedThumbnailExtensions) {
		return nil, fmt.Errorf("%w: thumbnail must be jpg, png or gif", util.ErrInvalidInput)
	}

	data, err := util.ResizeThumbnail(r)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/course-%d-%s.jpg", util.DirThumbnails, course.ID, uuid.NewString())
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), util.MimeJPEG)
	if err != nil {
		return nil, fmt.Errorf("%w: upload thumbnail: %v", util.ErrStorage, err)
	}

	course.Thumbnail = url
	if err := s.CourseRepo.Update(ctx, course); err != nil {
		s.Storage.Delete(context.WithoutCancel(ctx), key)
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(ctx context.Context, f repository.CourseFilter, page, pageSize int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 12
	}
	return s.CourseRepo.List(ctx, f, page, pageSize)
}

func (s *CourseService) Categories(ctx context.Context) ([]string, error) {
	return s.CourseRepo.Categories(ctx)
}

func (s *CourseService) GetCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindDetail(ctx, courseID)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return course, nil
}

func (s *CourseService) ListModules(ctx context.Context, courseID uint) ([]model.Module, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return s.CourseRepo.ListModules(ctx, courseID)
}

func (s *CourseService) AddModule(ctx context.Context, actorID, courseID uint, in ModuleInput) (*model.Module, error) {
	if _, err := s.RequireOwner(ctx, actorID, courseID); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: module title is required", util.ErrInvalidInput)
	}
	if in.Order < 0 {
		return nil, fmt.Errorf("%w: order must be positive", util.ErrInvalidInput)
	}

	module := &model.Module{
		Title:       in.Title,
		Description: in.Description,
		CourseID:    courseID,
	}

	if in.Order > 0 {
		taken, err := s.CourseRepo.ModuleOrderTaken(ctx, courseID, in.Order, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrModuleOrderTaken
		}
		module.Order = in.Order
		if err := s.CourseRepo.CreateModule(ctx, module); err != nil {
			return nil, moduleOrderConflict(err)
		}
		return module, nil
	}

	// 追加到末尾，并发追加撞上唯一索引时重新取序号
	for attempt := 0; ; attempt++ {
		next, err := s.CourseRepo.NextModuleOrder(ctx, courseID)
		if err != nil {
			return nil, err
		}
		module.ID = 0
		module.Order = next
		err = s.CourseRepo.CreateModule(ctx, module)
		if err == nil {
			return module, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == appendModuleAttempts-1 {
			return nil, moduleOrderConflict(err)
		}
	}
}

const appendModuleAttempts = 5

// moduleOrderConflict 检查和写入之间被并发请求占用时由唯一索引兜底
func moduleOrderConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrModuleOrderTaken
	}
	return err
}

func (s *CourseService) UpdateModule(ctx context.Context, actorID, moduleID uint, in ModuleInput) (*model.Module, error) {
	module, err := s.RequireModuleOwner(ctx, actorID, moduleID)
	if err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title != "" {
		module.Title = in.Title
	}
	module.Description = in.Description

	if in.Order > 0 && in.Order != module.Order {
		taken, err := s.CourseRepo.ModuleOrderTaken(ctx, module.CourseID, in.Order, module.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrModuleOrderTaken
		}
		module.Order = in.Order
	}

	if err := s.CourseRepo.UpdateModule(ctx, module); err != nil {
		return nil, moduleOrderConflict(err)
	}
	return module, nil
}

func (s *CourseService) DeleteModule(ctx context.Context, actorID, moduleID uint) error {
	if _, err := s.RequireModuleOwner(ctx, actorID, moduleID); err != nil {
		return err
	}
	if err := s.CourseRepo.DeleteModule(ctx, moduleID); err != nil {
		return notFound(err, ErrModuleNotFound)
	}
	return nil
}
