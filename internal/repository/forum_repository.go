package repository

import (
	"context"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ForumRepository struct {
	DB *gorm.DB
}

func NewForumRepository(db *gorm.DB) *ForumRepository {
	return &ForumRepository{DB: db}
}

func (r *ForumRepository) CreateThread(ctx context.Context, t *model.ForumThread) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *ForumRepository) ListThreads(ctx context.Context, courseID uint) ([]model.ForumThread, error) {
	items := []model.ForumThread{}
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindThread 帖子按时间正序
func (r *ForumRepository) FindThread(ctx context.Context, id uint) (*model.ForumThread, error) {
	var t model.ForumThread
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Posts.Author").
		First(&t, id).Error
	return &t, err
}

func (r *ForumRepository) CreatePost(ctx context.Context, p *model.ForumPost) error {
	return r.DB.WithContext(ctx).Create(p).Error
}
