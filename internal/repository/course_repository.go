package repository

import (
	"context"
	"database/sql"

	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// order 是保留字，交给方言负责加引号
var orderColumn = clause.Column{Name: "order"}

func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: orderColumn}).Order("id")
}

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CourseFilter 课程列表筛选条件，零值表示不过滤
type CourseFilter struct {
	Category     string
	Search       string
	InstructorID uint
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Omit("Instructor", "Modules").Save(course).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, id).Error
	return &course, err
}

// FindByIDUnscoped 包含已删除的课程，证书校验时使用
func (r *CourseRepository) FindByIDUnscoped(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).Unscoped().First(&course, id).Error
	return &course, err
}

// FindDetail 预加载章节及其内容、测验、作业，均按 order 排序
func (r *CourseRepository) FindDetail(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Instructor").
		Preload("Modules", byOrder).
		Preload("Modules.Contents", byOrder).
		Preload("Modules.Quizzes").
		Preload("Modules.Assignments").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List(ctx context.Context, f CourseFilter, page, pageSize int) ([]model.Course, int64, error) {
	var (
		courses []model.Course
		total   int64
	)

	query := r.DB.WithContext(ctx).Model(&model.Course{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if f.InstructorID != 0 {
		query = query.Where("instructor_id = ?", f.InstructorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Instructor").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("category <> ''").
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *CourseRepository) CreateModule(ctx context.Context, m *model.Module) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *CourseRepository) UpdateModule(ctx context.Context, m *model.Module) error {
	return r.DB.WithContext(ctx).Omit("Contents", "Quizzes", "Assignments").Save(m).Error
}

func (r *CourseRepository) FindModule(ctx context.Context, id uint) (*model.Module, error) {
	var m model.Module
	err := r.DB.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *CourseRepository) ListModules(ctx context.Context, courseID uint) ([]model.Module, error) {
	modules := []model.Module{}
	err := byOrder(r.DB.WithContext(ctx)).
		Where("course_id = ?", courseID).
		Find(&modules).Error
	return modules, err
}

// ModuleOrderTaken 同一课程内未删除章节的 order 是否已被占用，excludeID 用于更新自身
func (r *CourseRepository) ModuleOrderTaken(ctx context.Context, courseID uint, order int, excludeID uint) (bool, error) {
	var n int64
	query := r.DB.WithContext(ctx).Model(&model.Module{}).
		Where("course_id = ?", courseID).
		Where(clause.Eq{Column: orderColumn, Value: order})
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&n).Error
	return n > 0, err
}

func (r *CourseRepository) NextModuleOrder(ctx context.Context, courseID uint) (int, error) {
	var max sql.NullInt64
	err := r.DB.WithContext(ctx).Model(&model.Module{}).
		Where("course_id = ?", courseID).
		Select("MAX(?)", orderColumn).
		Scan(&max).Error
	if err != nil || !max.Valid {
		return 1, err
	}
	return int(max.Int64) + 1, nil
}

// DeleteCourse 软删除课程及其下全部章节、内容、测验、作业，并清理完成记录
// 报名、作答、提交和证书保留
func (r *CourseRepository) DeleteCourse(ctx context.Context, courseID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.Module{}).Where("course_id = ?", courseID).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if err := deleteModules(tx, moduleIDs); err != nil {
			return err
		}
		res := tx.Delete(&model.Course{}, courseID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *CourseRepository) DeleteModule(ctx context.Context, moduleID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Module{}).Where("id = ?", moduleID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteModules(tx, []uint{moduleID})
	})
}

func (r *CourseRepository) DeleteContent(ctx context.Context, contentID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Content{}).Where("id = ?", contentID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteContents(tx, []uint{contentID})
	})
}

func deleteModules(tx *gorm.DB, moduleIDs []uint) error {
	if len(moduleIDs) == 0 {
		return nil
	}

	var contentIDs []uint
	if err := tx.Model(&model.Content{}).Where("module_id IN ?", moduleIDs).Pluck("id", &contentIDs).Error; err != nil {
		return err
	}
	if err := deleteContents(tx, contentIDs); err != nil {
		return err
	}

	var quizIDs []uint
	if err := tx.Model(&model.Quiz{}).Where("module_id IN ?", moduleIDs).Pluck("id", &quizIDs).Error; err != nil {
		return err
	}
	if len(quizIDs) > 0 {
		if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", quizIDs).Delete(&model.Quiz{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("module_id IN ?", moduleIDs).Delete(&model.Assignment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", moduleIDs).Delete(&model.Module{}).Error
}

// deleteContents 内容软删除，完成记录和进度流水物理删除
func deleteContents(tx *gorm.DB, contentIDs []uint) error {
	if len(contentIDs) == 0 {
		return nil
	}
	if err := NewCompletionRepository(tx).DeleteByContentIDs(tx.Statement.Context, contentIDs); err != nil {
		return err
	}
	return tx.Where("id IN ?", contentIDs).Delete(&model.Content{}).Error
}

// courseIDVia 通过 module 反查所属课程，table 为挂在 module 下的表
func courseIDVia(ctx context.Context, db *gorm.DB, table string, id uint) (uint, error) {
	var courseIDs []uint
	err := db.WithContext(ctx).Table(table).
		Joins("JOIN modules ON modules.id = "+table+".module_id AND modules.deleted_at IS NULL").
		Joins("JOIN courses ON courses.id = modules.course_id AND courses.deleted_at IS NULL").
		Where(table+".id = ? AND "+table+".deleted_at IS NULL", id).
		Limit(1).
		Pluck("modules.course_id", &courseIDs).Error
	if err != nil {
		return 0, err
	}
	if len(courseIDs) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return courseIDs[0], nil
}
