package repository

import (
	"context"
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: tx}
}

// Create 重复报名不报错，返回是否新建
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *EnrollmentRepository) Find(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&e).Error
	return &e, err
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	var items []model.Enrollment
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC").
		Find(&items).Error
	return items, err
}

func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&n).Error
	return n, err
}

// MarkCompleted 只在尚未完成时写入完成时间
func (r *EnrollmentRepository) MarkCompleted(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
		}).Error
}
