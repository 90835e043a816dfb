// 课程内容回填脚本
//
// 课程内容生成后缓存写入成功而持久副本写入失败时，内容只存在于 Redis。
// 该脚本把缓存里尚未落库的课程内容补写回 MySQL，并重算进度计数。
//
// 用法: go run scripts/backfill_content.go

package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"skillpath_backend/internal/config"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/service"
	"skillpath_backend/pkg/cache"
	"skillpath_backend/pkg/database"
	"skillpath_backend/pkg/logger"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
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

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Redis连接失败: %v", err)
	}

	ctx := context.Background()

	// 1. 把只存在于缓存里的课程内容补写回数据库
	var lessons []model.Lesson
	if err := db.Where("content IS NULL").Find(&lessons).Error; err != nil {
		log.Fatalf("查询缺失内容的课程失败: %v", err)
	}

	backfilled := 0
	for _, lesson := range lessons {
		raw, err := rdb.Get(ctx, cache.LessonContentKey(lesson.ID)).Result()
		if err != nil {
			continue
		}
		if !json.Valid([]byte(raw)) {
			log.Printf("课程 %s 的缓存内容不是合法JSON，跳过", lesson.ID)
			continue
		}
		if err := db.Model(&model.Lesson{}).Where("id = ?", lesson.ID).
			Update("content", datatypes.JSON(raw)).Error; err != nil {
			log.Printf("课程 %s 回填失败: %v", lesson.ID, err)
			continue
		}
		backfilled++
	}
	log.Printf("内容回填完成: 检查 %d 门课程，补写 %d 条", len(lessons), backfilled)

	// 2. 重算进度计数（窗口取足够大，覆盖全部进度行）
	progressService := service.NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewLessonRepository(db),
		repository.NewCompletionRepository(db),
		repository.NewRoadmapRepository(db),
	)

	fixed, err := progressService.ReconcileRecent(10*365*24*time.Hour, 100000)
	if err != nil {
		log.Fatalf("进度对账失败: %v", err)
	}
	log.Printf("进度对账完成: 修正 %d 条", fixed)
}
