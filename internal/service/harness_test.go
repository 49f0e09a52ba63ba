package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"

	"gorm.io/gorm"
)

type harness struct {
	db  *gorm.DB
	cfg *config.Config

	users       *repository.UserRepository
	courseRepo  *repository.CourseRepository
	contentRepo *repository.ContentRepository
	enrollRepo  *repository.EnrollmentRepository
	complRepo   *repository.CompletionRepository
	certRepo    *repository.CertificateRepository

	storage     StorageProvider
	courses     *CourseService
	enrollments *EnrollmentService
	completions *CompletionService
	progress    *ProgressService
	content     *ContentService
	quizzes     *QuizService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	cfg := testutil.Config(t)

	h := &harness{
		db:          db,
		cfg:         cfg,
		users:       repository.NewUserRepository(db),
		courseRepo:  repository.NewCourseRepository(db),
		contentRepo: repository.NewContentRepository(db),
		enrollRepo:  repository.NewEnrollmentRepository(db),
		complRepo:   repository.NewCompletionRepository(db),
		certRepo:    repository.NewCertificateRepository(db),
		storage:     &LocalStorageProvider{Config: &cfg.Storage},
	}
	h.courses = NewCourseService(h.courseRepo, h.storage)
	h.enrollments = NewEnrollmentService(h.courseRepo, h.enrollRepo)
	h.completions = NewCompletionService(db, h.contentRepo, h.enrollRepo, h.complRepo)
	h.progress = NewProgressService(h.courseRepo, h.contentRepo, h.complRepo, h.enrollRepo)
	h.content = NewContentService(h.contentRepo, h.courseRepo, h.courses, h.completions, h.storage)
	h.quizzes = NewQuizService(repository.NewQuizRepository(db), h.courses, h.enrollments)
	return h
}

func (h *harness) certificates(t *testing.T, storage StorageProvider) *CertificateService {
	t.Helper()
	return NewCertificateService(
		h.db,
		&h.cfg.Certificate,
		h.certRepo,
		h.enrollRepo,
		h.courseRepo,
		h.users,
		h.progress,
		storage,
		&PDFRenderer{},
	)
}

// failingStorage 上传总是失败，用来验证证书签发的回滚
type failingStorage struct {
	LocalStorageProvider
	deleted []string
}

var errUploadFailed = errors.New("bucket unavailable")

func (f *failingStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	return "", errUploadFailed
}

func (f *failingStorage) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
