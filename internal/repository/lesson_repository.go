package repository

import (
	"skillpath_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) FindByID(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, "id = ?", id).Error
	return &lesson, err
}

// FindByRoadmap 路线图下全部课程，按周与周内顺序
func (r *LessonRepository) FindByRoadmap(roadmapID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("roadmap_id = ?", roadmapID).
		Order("week_number ASC, position ASC").
		Find(&lessons).Error
	return lessons, err
}

// UpdateContent 写入生成内容的持久副本
func (r *LessonRepository) UpdateContent(lessonID string, content datatypes.JSON, contentModel string) error {
	return r.DB.Model(&model.Lesson{}).
		Where("id = ?", lessonID).
		Updates(map[string]interface{}{
			"content":       content,
			"content_model": contentModel,
		}).Error
}

func (r *LessonRepository) CountByRoadmap(roadmapID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Where("roadmap_id = ?", roadmapID).
		Count(&count).Error
	return count, err
}
