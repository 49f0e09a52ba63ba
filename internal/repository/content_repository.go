package repository

import (
	"context"
	"database/sql"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) WithTx(tx *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: tx}
}

func (r *ContentRepository) Create(ctx context.Context, c *model.Content) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *ContentRepository) Update(ctx context.Context, c *model.Content) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *ContentRepository) FindByID(ctx context.Context, id uint) (*model.Content, error) {
	var c model.Content
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *ContentRepository) NextOrder(ctx context.Context, moduleID uint) (int, error) {
	var max sql.NullInt64
	err := r.DB.WithContext(ctx).Model(&model.Content{}).
		Where("module_id = ?", moduleID).
		Select("MAX(?)", orderColumn).
		Scan(&max).Error
	if err != nil || !max.Valid {
		return 1, err
	}
	return int(max.Int64) + 1, nil
}

// CountByCourse 课程内仍然存在的内容总数
func (r *ContentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Content{}).
		Joins("JOIN modules ON modules.id = contents.module_id AND modules.deleted_at IS NULL").
		Where("modules.course_id = ?", courseID).
		Count(&n).Error
	return n, err
}

// CourseIDOf 内容所属课程，内容、章节或课程任一已删除时返回 ErrRecordNotFound
func (r *ContentRepository) CourseIDOf(ctx context.Context, contentID uint) (uint, error) {
	return courseIDVia(ctx, r.DB, "contents", contentID)
}
