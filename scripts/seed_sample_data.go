// 向数据库写入示例讲师与课程
//
// 与 `go run . -seed` 等价，但不会启动 HTTP 服务，适合在部署流水线里单独执行。
// 已存在课程时不会重复写入。
//
// 用法: go run scripts/seed_sample_data.go [-config configs/config.yaml]

package main

import (
	"flag"
	"log"
	"os"

	"lms_backend/internal/config"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	path := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/lms.db"
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	log.Println("写入示例数据...")
	if err := database.SeedSampleData(db); err != nil {
		log.Fatalf("写入示例数据失败: %v", err)
	}
	log.Println("完成！")
}
