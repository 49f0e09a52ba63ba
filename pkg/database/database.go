package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"lms_backend/internal/config"
	"lms_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 参与自动迁移的全部表，顺序即建表顺序
var Models = []interface{}{
	&model.User{},
	&model.Course{},
	&model.Module{},
	&model.Content{},
	&model.Quiz{},
	&model.Question{},
	&model.Assignment{},
	&model.Enrollment{},
	&model.ContentCompletion{},
	&model.Progress{},
	&model.QuizAttempt{},
	&model.Submission{},
	&model.Certificate{},
	&model.ForumThread{},
	&model.ForumPost{},
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" || cfg.Driver == "" {
		// sqlite 单写者，避免 database is locked
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Println("Database connection established")
	return db, nil
}

// liveUniqueIndexes 只约束未软删除行的唯一索引，gorm 标签无法表达，迁移时单独创建
var liveUniqueIndexes = []struct {
	name  string
	table string
	// 各方言的建索引语句
	sqlite, postgres, mysql string
}{
	{
		name:     "idx_modules_course_order_live",
		table:    "modules",
		sqlite:   `CREATE UNIQUE INDEX IF NOT EXISTS idx_modules_course_order_live ON modules (course_id, "order") WHERE deleted_at IS NULL`,
		postgres: `CREATE UNIQUE INDEX IF NOT EXISTS idx_modules_course_order_live ON modules (course_id, "order") WHERE deleted_at IS NULL`,
		// MySQL 没有部分索引，用函数索引让已删除行取 NULL（需要 8.0.13+）
		mysql: "CREATE UNIQUE INDEX idx_modules_course_order_live ON modules (course_id, (IF(deleted_at IS NULL, `order`, NULL)))",
	},
}

func ensureLiveUniqueIndexes(db *gorm.DB) error {
	for _, idx := range liveUniqueIndexes {
		var stmt string
		switch db.Dialector.Name() {
		case "mysql":
			if db.Migrator().HasIndex(idx.table, idx.name) {
				continue
			}
			stmt = idx.mysql
		case "postgres":
			stmt = idx.postgres
		default:
			stmt = idx.sqlite
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", idx.name, err)
		}
	}
	return nil
}

// Migrate 建表并创建唯一索引
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	if err := ensureLiveUniqueIndexes(db); err != nil {
		return err
	}
	log.Println("Database migration completed")
	return nil
}

// Reset 删除全部表后重建
func Reset(db *gorm.DB) error {
	for i := len(Models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(Models[i]); err != nil {
			return err
		}
	}
	log.Println("Dropped all existing tables")
	return Migrate(db)
}
