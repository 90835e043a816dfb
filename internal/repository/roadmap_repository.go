package repository

import (
	"skillpath_backend/internal/model"

	"gorm.io/gorm"
)

type RoadmapRepository struct {
	DB *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: db}
}

func (r *RoadmapRepository) FindByID(id string) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.DB.First(&roadmap, "id = ?", id).Error
	return &roadmap, err
}

// FindByIDWithLessons 路线图及其按周、周内顺序排列的课程
func (r *RoadmapRepository) FindByIDWithLessons(id string) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("week_number ASC, position ASC")
	}).First(&roadmap, "id = ?", id).Error
	return &roadmap, err
}

// FindByUser 用户的路线图，最新在前
func (r *RoadmapRepository) FindByUser(userID uint) ([]model.Roadmap, error) {
	var roadmaps []model.Roadmap
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&roadmaps).Error
	return roadmaps, err
}

// DeleteCascade 在一个事务里删除路线图及其课程、完成记录和进度
func (r *RoadmapRepository) DeleteCascade(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("roadmap_id = ?", id).Delete(&model.LessonCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("roadmap_id = ?", id).Delete(&model.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("roadmap_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Roadmap{}, "id = ?", id).Error
	})
}

// ListAll 分页列出所有路线图（管理端）
func (r *RoadmapRepository) ListAll(page, limit int) ([]model.Roadmap, int64, error) {
	var roadmaps []model.Roadmap
	var total int64

	if err := r.DB.Model(&model.Roadmap{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&roadmaps).Error
	return roadmaps, total, err
}

func (r *RoadmapRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Roadmap{}).Count(&count).Error
	return count, err
}
