package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IssueResult Existing=true 表示返回的是此前已签发的证书
type IssueResult struct {
	Certificate *model.Certificate `json:"certificate"`
	Existing    bool               `json:"existing"`
}

// CertificateDownload 证书文件流，调用方负责关闭 Body
type CertificateDownload struct {
	Certificate *model.Certificate
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

type CertificateService struct {
	DB             *gorm.DB
	Cfg            *config.CertificateConfig
	CertRepo       *repository.CertificateRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
	Progress       *ProgressService
	Storage        StorageProvider
	Renderer       CertificateRenderer
}

func NewCertificateService(
	db *gorm.DB,
	cfg *config.CertificateConfig,
	certRepo *repository.CertificateRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	progress *ProgressService,
	storage StorageProvider,
	renderer CertificateRenderer,
) *CertificateService {
	return &CertificateService{
		DB:             db,
		Cfg:            cfg,
		CertRepo:       certRepo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		UserRepo:       userRepo,
		Progress:       progress,
		Storage:        storage,
		Renderer:       renderer,
	}
}

// NewCertificateNumber CERT- 加 12 位大写十六进制
func NewCertificateNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CERT-" + strings.ToUpper(hex[:12])
}

// Issue 已有证书直接返回；否则校验报名与完成度，渲染并上传文件，
// 在同一事务中写入证书并把报名标记为完成
func (s *CertificateService) Issue(ctx context.Context, userID, courseID uint) (res *IssueResult, err error) {
	ctx, span := tracing.Start(ctx, "CertificateService.Issue",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("course.id", int64(courseID)),
	)
	defer func() { tracing.End(span, err) }()

	existing, err := s.CertRepo.FindByUserCourse(ctx, userID, courseID)
	if err == nil {
		monitoring.Certificates.WithLabelValues("existing").Inc()
		return &IssueResult{Certificate: existing, Existing: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}

	enrollment, err := s.EnrollmentRepo.Find(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.Certificates.WithLabelValues("ineligible").Inc()
			return nil, &EligibilityError{UserID: userID, CourseID: courseID, Reason: ErrNotEnrolled}
		}
		return nil, err
	}

	progress, err := s.Progress.compute(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if !progress.Complete() {
		monitoring.Certificates.WithLabelValues("ineligible").Inc()
		return nil, &EligibilityError{
			UserID:   userID,
			CourseID: courseID,
			Progress: progress,
			Reason:   ErrCourseIncomplete,
		}
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	cert := &model.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: NewCertificateNumber(),
		IssuedAt:          time.Now(),
	}

	if err := s.store(ctx, cert, user, course); err != nil {
		monitoring.Certificates.WithLabelValues("failed").Inc()
		return nil, err
	}

	var winner *model.Certificate
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		certRepo := s.CertRepo.WithTx(tx)

		created, err := certRepo.Create(ctx, cert)
		if err != nil {
			return err
		}
		if !created {
			w, err := certRepo.FindByUserCourse(ctx, userID, courseID)
			if err != nil {
				return err
			}
			winner = w
			return nil
		}

		return s.EnrollmentRepo.WithTx(tx).MarkCompleted(ctx, enrollment.ID, cert.IssuedAt)
	})
	if err != nil {
		s.discard(ctx, cert.FileKey)
		monitoring.Certificates.WithLabelValues("failed").Inc()
		return nil, err
	}

	if winner != nil {
		// 并发签发输给了另一请求，删除本次上传的文件
		s.discard(ctx, cert.FileKey)
		monitoring.Certificates.WithLabelValues("existing").Inc()
		return &IssueResult{Certificate: winner, Existing: true}, nil
	}

	monitoring.Certificates.WithLabelValues("issued").Inc()
	logger.Log.Info("Certificate issued",
		zap.Uint("userID", userID),
		zap.Uint("courseID", courseID),
		zap.String("number", cert.CertificateNumber),
	)
	return &IssueResult{Certificate: cert}, nil
}

// store 渲染证书并写入文件存储，成功后回填 FileKey 与 CertificateURL
func (s *CertificateService) store(ctx context.Context, cert *model.Certificate, user *model.User, course *model.Course) error {
	body, err := s.Renderer.Render(CertificateData{
		Number:      cert.CertificateNumber,
		Recipient:   user.Username,
		CourseTitle: course.Title,
		Issuer:      s.Cfg.IssuerName,
		IssuedAt:    cert.IssuedAt,
	})
	if err != nil {
		return fmt.Errorf("%w: render certificate: %w", util.ErrStorage, err)
	}

	key := util.DirCertificates + "/" + cert.CertificateNumber + s.Renderer.Extension()
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), s.Renderer.ContentType())
	if err != nil {
		return fmt.Errorf("%w: upload certificate: %v", util.ErrStorage, err)
	}

	cert.FileKey = key
	cert.CertificateURL = url
	return nil
}

func (s *CertificateService) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.Storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.Log.Warn("Failed to remove orphaned certificate file",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (s *CertificateService) GetForCourse(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	cert, err := s.CertRepo.FindByUserCourse(ctx, userID, courseID)
	if err != nil {
		return nil, notFound(err, ErrCertificateNotFound)
	}
	return cert, nil
}

func (s *CertificateService) ListForUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	return s.CertRepo.ListByUser(ctx, userID)
}

// Open 只允许证书持有人下载
func (s *CertificateService) Open(ctx context.Context, userID, certID uint) (*CertificateDownload, error) {
	cert, err := s.CertRepo.FindByID(ctx, certID)
	if err != nil {
		return nil, notFound(err, ErrCertificateNotFound)
	}
	if cert.UserID != userID {
		return nil, fmt.Errorf("%w: certificate belongs to another user", util.ErrForbidden)
	}
	if cert.FileKey == "" {
		return nil, ErrCertificateNotFound
	}

	body, err := s.Storage.Open(ctx, cert.FileKey)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: open certificate: %v", util.ErrStorage, err)
	}

	contentType := util.MimePDF
	if strings.EqualFold(filepath.Ext(cert.FileKey), ".png") {
		contentType = util.MimePNG
	}

	return &CertificateDownload{
		Certificate: cert,
		Body:        body,
		ContentType: contentType,
		Filename:    filepath.Base(cert.FileKey),
	}, nil
}

// Verify 公开校验，课程被删除后仍可查到标题
func (s *CertificateService) Verify(ctx context.Context, number string) (*model.CertificateVerification, error) {
	cert, err := s.CertRepo.FindByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		return nil, notFound(err, ErrCertificateNotFound)
	}

	user, err := s.UserRepo.FindByID(ctx, cert.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	course, err := s.CourseRepo.FindByIDUnscoped(ctx, cert.CourseID)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}

	return &model.CertificateVerification{
		CertificateNumber: cert.CertificateNumber,
		Recipient:         user.Username,
		CourseTitle:       course.Title,
		IssuedAt:          cert.IssuedAt,
	}, nil
}
