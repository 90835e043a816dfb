package repository

import (
	"skillpath_backend/internal/model"

	"gorm.io/gorm"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

func (r *CompletionRepository) FindByUserAndLesson(userID uint, lessonID string) (*model.LessonCompletion, error) {
	var completion model.LessonCompletion
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&completion).Error
	return &completion, err
}

// FindByUserAndRoadmap 用户在某路线图下的全部完成记录
func (r *CompletionRepository) FindByUserAndRoadmap(userID uint, roadmapID string) ([]model.LessonCompletion, error) {
	var completions []model.LessonCompletion
	err := r.DB.Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		Find(&completions).Error
	return completions, err
}

// FindRecentByUser 用户最近的完成记录（仪表盘）
func (r *CompletionRepository) FindRecentByUser(userID uint, limit int) ([]model.LessonCompletion, error) {
	var completions []model.LessonCompletion
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&completions).Error
	return completions, err
}

func (r *CompletionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
