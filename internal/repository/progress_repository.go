package repository

import (
	"skillpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndRoadmap(userID uint, roadmapID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		First(&progress).Error
	return &progress, err
}

// FindByUser 用户所有路线图的进度记录，最近活跃在前
func (r *ProgressRepository) FindByUser(userID uint) ([]model.UserProgress, error) {
	var progresses []model.UserProgress
	err := r.DB.Where("user_id = ?", userID).
		Order("last_activity_at DESC").
		Find(&progresses).Error
	return progresses, err
}

func (r *ProgressRepository) Save(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}

// CompletionStats 从完成记录聚合出进度计数，用于重算
type CompletionStats struct {
	Completed int64
	TimeSpent int64
	Accuracy  float64
}

func (r *ProgressRepository) StatsFromCompletions(userID uint, roadmapID string) (*CompletionStats, error) {
	var stats CompletionStats

	err := r.DB.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		Select("COUNT(*) AS completed, COALESCE(SUM(time_spent_minutes),0) AS time_spent, COALESCE(AVG(score * 100.0 / total),0) AS accuracy").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// FindRecentlyActive 最近有活动的进度记录，供后台对账任务修复计数漂移
func (r *ProgressRepository) FindRecentlyActive(since time.Time, limit int) ([]model.UserProgress, error) {
	var progresses []model.UserProgress
	err := r.DB.Where("last_activity_at >= ?", since).
		Order("last_activity_at DESC").
		Limit(limit).
		Find(&progresses).Error
	return progresses, err
}
