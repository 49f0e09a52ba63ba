package repository

import (
	"context"

	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionRepository 内容完成记录与进度流水
type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

func (r *CompletionRepository) WithTx(tx *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: tx}
}

// Create 冲突时什么都不做，返回是否真正插入了新行
func (r *CompletionRepository) Create(ctx context.Context, c *model.ContentCompletion) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CompletionRepository) Find(ctx context.Context, userID, contentID uint) (*model.ContentCompletion, error) {
	var c model.ContentCompletion
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		First(&c).Error
	return &c, err
}

func (r *CompletionRepository) Exists(ctx context.Context, userID, contentID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ContentCompletion{}).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Count(&n).Error
	return n > 0, err
}

// courseScoped 只统计课程内仍然存在的内容
func (r *CompletionRepository) courseScoped(ctx context.Context, userID, courseID uint) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.ContentCompletion{}).
		Joins("JOIN contents ON contents.id = content_completions.content_id AND contents.deleted_at IS NULL").
		Joins("JOIN modules ON modules.id = contents.module_id AND modules.deleted_at IS NULL").
		Where("content_completions.user_id = ? AND modules.course_id = ?", userID, courseID)
}

func (r *CompletionRepository) CountInCourse(ctx context.Context, userID, courseID uint) (int64, error) {
	var n int64
	err := r.courseScoped(ctx, userID, courseID).Count(&n).Error
	return n, err
}

func (r *CompletionRepository) ContentIDsInCourse(ctx context.Context, userID, courseID uint) ([]uint, error) {
	ids := []uint{}
	err := r.courseScoped(ctx, userID, courseID).
		Order("content_completions.content_id").
		Pluck("content_completions.content_id", &ids).Error
	return ids, err
}

func (r *CompletionRepository) CreateProgress(ctx context.Context, p *model.Progress) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

// ListProgress 某次报名的进度流水，按完成时间先后
func (r *CompletionRepository) ListProgress(ctx context.Context, enrollmentID uint) ([]model.Progress, error) {
	items := []model.Progress{}
	err := r.DB.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("completed_at, id").
		Find(&items).Error
	return items, err
}

// DeleteByContentIDs 内容删除时物理删除对应的完成记录和进度流水
func (r *CompletionRepository) DeleteByContentIDs(ctx context.Context, contentIDs []uint) error {
	if len(contentIDs) == 0 {
		return nil
	}
	db := r.DB.WithContext(ctx)
	if err := db.Where("content_id IN ?", contentIDs).Delete(&model.ContentCompletion{}).Error; err != nil {
		return err
	}
	return db.Where("content_id IN ?", contentIDs).Delete(&model.Progress{}).Error
}
