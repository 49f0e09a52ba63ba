package repository

import (
	"context"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// Create 连同 Questions 一起写入
func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Create(quiz).Error
}

func (r *QuizRepository) FindByID(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) AddQuestion(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuizRepository) CourseIDOf(ctx context.Context, quizID uint) (uint, error) {
	return courseIDVia(ctx, r.DB, "quizzes", quizID)
}

func (r *QuizRepository) CreateAttempt(ctx context.Context, a *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *QuizRepository) ListAttempts(ctx context.Context, userID, quizID uint) ([]model.QuizAttempt, error) {
	items := []model.QuizAttempt{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("started_at DESC").
		Find(&items).Error
	return items, err
}
