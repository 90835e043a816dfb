package service

import (
	"context"
	"encoding/json"
	"errors"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/cache"
	"skillpath_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoadmapService 路线图的生成、持久化与删除
type RoadmapService struct {
	RoadmapRepo *repository.RoadmapRepository
	LessonRepo  *repository.LessonRepository
	UserRepo    *repository.UserRepository
	Generation  *GenerationService
	Cache       cache.ContentCache
}

func NewRoadmapService(
	roadmapRepo *repository.RoadmapRepository,
	lessonRepo *repository.LessonRepository,
	userRepo *repository.UserRepository,
	generation *GenerationService,
	contentCache cache.ContentCache,
) *RoadmapService {
	return &RoadmapService{
		RoadmapRepo: roadmapRepo,
		LessonRepo:  lessonRepo,
		UserRepo:    userRepo,
		Generation:  generation,
		Cache:       contentCache,
	}
}

// ClarifyingQuestions 生成澄清问题，不产生任何持久化
func (s *RoadmapService) ClarifyingQuestions(ctx context.Context, goal string) ([]model.ClarifyingQuestion, error) {
	return s.Generation.ClarifyingQuestions(ctx, goal)
}

// Create 调用模型生成路线图，然后在一个事务里写入路线图、
// 由每周主题派生的课程行和唯一进度记录，并把目标更新到用户档案
func (s *RoadmapService) Create(ctx context.Context, userID uint, goal string, answers []model.ClarifyingAnswer) (*model.Roadmap, error) {
	generated, modelName, err := s.Generation.GenerateRoadmap(ctx, goal, answers)
	if err != nil {
		return nil, err
	}

	weeksJSON, err := json.Marshal(generated.Weeks)
	if err != nil {
		return nil, err
	}

	totalLessons := 0
	for _, week := range generated.Weeks {
		totalLessons += len(week.Topics)
	}

	roadmap := &model.Roadmap{
		UserID:       userID,
		Goal:         goal,
		Title:        generated.Title,
		Summary:      generated.Summary,
		Weeks:        weeksJSON,
		TotalWeeks:   len(generated.Weeks),
		TotalLessons: totalLessons,
		Model:        modelName,
		Status:       model.RoadmapActive,
	}

	var lessons []model.Lesson
	err = s.RoadmapRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(roadmap).Error; err != nil {
			return err
		}

		lessons = make([]model.Lesson, 0, totalLessons)
		for _, week := range generated.Weeks {
			for i, topic := range week.Topics {
				lessons = append(lessons, model.Lesson{
					RoadmapID:        roadmap.ID,
					WeekNumber:       week.Week,
					Position:         i + 1,
					Title:            topic.Title,
					Objective:        topic.Objective,
					EstimatedMinutes: topic.EstimatedMinutes,
				})
			}
		}
		if err := tx.Create(&lessons).Error; err != nil {
			return err
		}

		progress := &model.UserProgress{
			UserID:         userID,
			RoadmapID:      roadmap.ID,
			TotalLessons:   totalLessons,
			LastActivityAt: time.Now(),
		}
		if err := tx.Create(progress).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).Where("id = ?", userID).Update("goal", goal).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("路线图生成完成",
		zap.Uint("userId", userID),
		zap.String("roadmapId", roadmap.ID),
		zap.Int("weeks", roadmap.TotalWeeks),
		zap.Int("lessons", totalLessons),
		zap.String("model", modelName))

	roadmap.Lessons = lessons
	return roadmap, nil
}

// List 当前用户的路线图，最新在前
func (s *RoadmapService) List(userID uint) ([]model.Roadmap, error) {
	return s.RoadmapRepo.FindByUser(userID)
}

// Get 路线图及其课程。非属主请求与不存在同样返回未找到，避免泄露资源存在性
func (s *RoadmapService) Get(userID uint, isAdmin bool, roadmapID string) (*model.Roadmap, error) {
	roadmap, err := s.RoadmapRepo.FindByIDWithLessons(roadmapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoadmapNotFound
		}
		return nil, err
	}

	if roadmap.UserID != userID && !isAdmin {
		return nil, util.ErrRoadmapNotFound
	}

	return roadmap, nil
}

// SetStatus 归档或恢复路线图，归档后不再出现在仪表盘上
func (s *RoadmapService) SetStatus(userID uint, isAdmin bool, roadmapID string, status model.RoadmapStatus) (*model.Roadmap, error) {
	roadmap, err := s.RoadmapRepo.FindByID(roadmapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoadmapNotFound
		}
		return nil, err
	}

	if roadmap.UserID != userID && !isAdmin {
		return nil, util.ErrRoadmapNotFound
	}

	roadmap.Status = status
	if err := s.RoadmapRepo.DB.Save(roadmap).Error; err != nil {
		return nil, err
	}

	return roadmap, nil
}

// Delete 级联删除路线图，随后尽力清理课程内容缓存
func (s *RoadmapService) Delete(ctx context.Context, userID uint, isAdmin bool, roadmapID string) error {
	roadmap, err := s.RoadmapRepo.FindByID(roadmapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrRoadmapNotFound
		}
		return err
	}

	if roadmap.UserID != userID && !isAdmin {
		return util.ErrRoadmapNotFound
	}

	lessons, err := s.LessonRepo.FindByRoadmap(roadmapID)
	if err != nil {
		return err
	}

	if err := s.RoadmapRepo.DeleteCascade(roadmapID); err != nil {
		return err
	}

	// 缓存清理失败不回滚删除，残留键只在课程重新生成时才会被引用
	for _, lesson := range lessons {
		if err := s.Cache.Delete(ctx, cache.LessonContentKey(lesson.ID)); err != nil {
			logger.Log.Warn("清理课程内容缓存失败",
				zap.String("lessonId", lesson.ID),
				zap.Error(err))
		}
	}

	return nil
}

// ListAll 管理端分页查看全部路线图
func (s *RoadmapService) ListAll(page, limit int) ([]model.Roadmap, int64, error) {
	return s.RoadmapRepo.ListAll(page, limit)
}
