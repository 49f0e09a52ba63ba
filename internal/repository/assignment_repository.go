package repository

import (
	"context"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// AssignmentRepository 作业及其提交
type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) CourseIDOf(ctx context.Context, assignmentID uint) (uint, error) {
	return courseIDVia(ctx, r.DB, "assignments", assignmentID)
}

func (r *AssignmentRepository) CreateSubmission(ctx context.Context, s *model.Submission) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *AssignmentRepository) FindSubmission(ctx context.Context, id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *AssignmentRepository) SaveGrade(ctx context.Context, s *model.Submission) error {
	return r.DB.WithContext(ctx).Model(s).
		Select("score", "feedback", "graded_at").
		Updates(s).Error
}

func (r *AssignmentRepository) ListSubmissions(ctx context.Context, assignmentID uint) ([]model.Submission, error) {
	items := []model.Submission{}
	err := r.DB.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&items).Error
	return items, err
}

func (r *AssignmentRepository) ListUserSubmissions(ctx context.Context, userID, assignmentID uint) ([]model.Submission, error) {
	items := []model.Submission{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND assignment_id = ?", userID, assignmentID).
		Order("submitted_at DESC").
		Find(&items).Error
	return items, err
}
