package repository

import (
	"context"

	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) WithTx(tx *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: tx}
}

// Create (user, course) 冲突时不插入，调用方据此判断是否输掉了并发竞争
func (r *CertificateRepository) Create(ctx context.Context, cert *model.Certificate) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(cert)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CertificateRepository) FindByID(ctx context.Context, id uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).First(&cert, id).Error
	return &cert, err
}

func (r *CertificateRepository) FindByUserCourse(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	return &cert, err
}

func (r *CertificateRepository) FindByNumber(ctx context.Context, number string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).
		Where("certificate_number = ?", number).
		First(&cert).Error
	return &cert, err
}

func (r *CertificateRepository) ListByUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	items := []model.Certificate{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&items).Error
	return items, err
}
