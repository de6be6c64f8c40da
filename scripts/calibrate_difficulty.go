// 手动触发题目难度校准脚本
//
// 该功能已集成到主应用的后台定时任务中（每 24 小时自动执行一次）。
// 此脚本仅用于手动触发，例如题库大量导入新题或长时间停机后。
//
// 用法: go run scripts/calibrate_difficulty.go

package main

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"pm_prep_backend/internal/config"
	"pm_prep_backend/internal/repository"
	"pm_prep_backend/internal/service"
	"pm_prep_backend/pkg/database"
	"pm_prep_backend/pkg/logger"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	calibration := service.NewCalibrationService(
		repository.NewAttemptRepository(db),
		repository.NewQuestionRepository(db),
	)

	log.Println("手动触发难度校准任务...")
	adjusted, err := calibration.RecalibrateAll()
	if err != nil {
		log.Fatalf("校准失败: %v", err)
	}
	log.Printf("完成！共调整 %d 道题目", adjusted)
}
