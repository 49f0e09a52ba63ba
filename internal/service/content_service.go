package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
)

// Upload 控制器从 multipart 表单构造的待上传文件
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Reader      io.ReadSeeker
}

type ContentInput struct {
	Title       string
	ContentType model.ContentType
	ContentURL  string
	ContentText string
	Order       int
}

// ContentView 查看内容的结果，Recorded 表示本次请求写入了完成记录
type ContentView struct {
	Content   *model.Content `json:"content"`
	CourseID  uint           `json:"courseId"`
	Completed bool           `json:"completed"`
	Recorded  bool           `json:"recorded"`
}

type ContentService struct {
	ContentRepo *repository.ContentRepository
	CourseRepo  *repository.CourseRepository
	Courses     *CourseService
	Completions *CompletionService
	Storage     StorageProvider
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	courseRepo *repository.CourseRepository,
	courses *CourseService,
	completions *CompletionService,
	storage StorageProvider,
) *ContentService {
	return &ContentService{
		ContentRepo: contentRepo,
		CourseRepo:  courseRepo,
		Courses:     courses,
		Completions: completions,
		Storage:     storage,
	}
}

func (s *ContentService) AddContent(ctx context.Context, actorID, moduleID uint, in ContentInput, up *Upload) (*model.Content, error) {
	if _, err := s.Courses.RequireModuleOwner(ctx, actorID, moduleID); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: content title is required", util.ErrInvalidInput)
	}
	if !in.ContentType.Valid() {
		return nil, fmt.Errorf("%w: content type must be video, text or pdf", util.ErrInvalidInput)
	}

	content := &model.Content{
		Title:       in.Title,
		ContentType: in.ContentType,
		ContentURL:  strings.TrimSpace(in.ContentURL),
		ContentText: in.ContentText,
		Order:       in.Order,
		ModuleID:    moduleID,
	}

	if up != nil {
		if err := s.storeUpload(ctx, content, up); err != nil {
			return nil, err
		}
	}

	switch content.ContentType {
	case model.ContentText:
		if strings.TrimSpace(content.ContentText) == "" {
			return nil, fmt.Errorf("%w: text content requires a body", util.ErrInvalidInput)
		}
	default:
		if content.ContentURL == "" {
			return nil, fmt.Errorf("%w: %s content requires a url or an uploaded file", util.ErrInvalidInput, content.ContentType)
		}
	}

	if content.Order <= 0 {
		next, err := s.ContentRepo.NextOrder(ctx, moduleID)
		if err != nil {
			return nil, err
		}
		content.Order = next
	}

	if err := s.ContentRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// storeUpload 视频先落到临时文件再探测时长，探测失败不影响上传
func (s *ContentService) storeUpload(ctx context.Context, content *model.Content, up *Upload) error {
	switch content.ContentType {
	case model.ContentVideo:
		if !util.HasAllowedExtension(up.Filename, util.AllowedVideoExtensions) {
			return fmt.Errorf("%w: unsupported video format", util.ErrInvalidInput)
		}
		if _, err := util.ValidateMimeType(up.Reader, []string{util.MimeVideo}); err != nil {
			return fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
		}
	case model.ContentPDF:
		if _, err := util.ValidateMimeType(up.Reader, []string{util.MimePDF}); err != nil {
			return fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
		}
	default:
		return fmt.Errorf("%w: files can only be attached to video or pdf content", util.ErrInvalidInput)
	}
	if _, err := up.Reader.Seek(0, io.SeekStart); err != nil {
		return err
	}

	key := util.GenerateFileName(util.DirContents, up.Filename)

	if content.ContentType == model.ContentPDF {
		url, err := s.Storage.Upload(ctx, key, up.Reader, up.Size, util.MimePDF)
		if err != nil {
			return fmt.Errorf("%w: upload content: %v", util.ErrStorage, err)
		}
		content.ContentURL = url
		return nil
	}

	tmp, err := os.CreateTemp("", "lms-video-*"+strings.ToLower(filepath.Ext(up.Filename)))
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, up.Reader)
	tmp.Close()
	if err != nil {
		return err
	}

	if info, err := util.GetVideoInfo(tmp.Name()); err != nil {
		logger.Log.Warn("Video metadata read failed", zap.String("file", up.Filename), zap.Error(err))
	} else {
		content.Duration = info.Duration
	}

	url, err := s.Storage.UploadFile(ctx, key, tmp.Name(), up.ContentType)
	if err != nil {
		return fmt.Errorf("%w: upload content: %v", util.ErrStorage, err)
	}
	content.ContentURL = url
	return nil
}

func (s *ContentService) UpdateContent(ctx context.Context, actorID, contentID uint, in ContentInput) (*model.Content, error) {
	content, err := s.ContentRepo.FindByID(ctx, contentID)
	if err != nil {
		return nil, notFound(err, ErrContentNotFound)
	}
	if _, err := s.Courses.RequireModuleOwner(ctx, actorID, content.ModuleID); err != nil {
		return nil, err
	}

	if t := strings.TrimSpace(in.Title); t != "" {
		content.Title = t
	}
	if in.ContentURL != "" {
		content.ContentURL = strings.TrimSpace(in.ContentURL)
	}
	if in.ContentText != "" {
		content.ContentText = in.ContentText
	}
	if in.Order > 0 {
		content.Order = in.Order
	}

	if err := s.ContentRepo.Update(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// DeleteContent 同时物理删除该内容的完成记录
func (s *ContentService) DeleteContent(ctx context.Context, actorID, contentID uint) error {
	content, err := s.ContentRepo.FindByID(ctx, contentID)
	if err != nil {
		return notFound(err, ErrContentNotFound)
	}
	if _, err := s.Courses.RequireModuleOwner(ctx, actorID, content.ModuleID); err != nil {
		return err
	}
	if err := s.CourseRepo.DeleteContent(ctx, contentID); err != nil {
		return notFound(err, ErrContentNotFound)
	}
	return nil
}

// ViewContent 课程讲师直接查看；学生必须已报名，首次查看会记录完成
func (s *ContentService) ViewContent(ctx context.Context, userID, contentID uint) (*ContentView, error) {
	courseID, err := s.ContentRepo.CourseIDOf(ctx, contentID)
	if err != nil {
		return nil, notFound(err, ErrContentNotFound)
	}
	content, err := s.ContentRepo.FindByID(ctx, contentID)
	if err != nil {
		return nil, notFound(err, ErrContentNotFound)
	}

	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	if course.InstructorID == userID {
		return &ContentView{Content: content, CourseID: courseID}, nil
	}

	res, err := s.Completions.RecordCompletion(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}
	return &ContentView{
		Content:   content,
		CourseID:  courseID,
		Completed: true,
		Recorded:  res.Created,
	}, nil
}
