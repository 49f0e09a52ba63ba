package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"gorm.io/gorm"
)

// DB 每个测试一个独立的 sqlite 文件，配置与线上 sqlite 模式一致
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	logger.InitNop()

	db, err := database.InitDB(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(tb.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Config 测试用的最小配置
func Config(tb testing.TB) *config.Config {
	tb.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "test"},
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
		Storage: config.StorageConfig{
			Type:      "local",
			LocalPath: tb.TempDir(),
		},
		Certificate: config.CertificateConfig{
			Format:     "pdf",
			IssuerName: "Test Academy",
		},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
	}
}
