package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/cache"
	"skillpath_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LessonService 课程内容的按需生成与完成记录
type LessonService struct {
	LessonRepo     *repository.LessonRepository
	RoadmapRepo    *repository.RoadmapRepository
	CompletionRepo *repository.CompletionRepository
	ProgressRepo   *repository.ProgressRepository
	UserRepo       *repository.UserRepository
	Generation     *GenerationService
	Cache          cache.ContentCache
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	roadmapRepo *repository.RoadmapRepository,
	completionRepo *repository.CompletionRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	generation *GenerationService,
	contentCache cache.ContentCache,
) *LessonService {
	return &LessonService{
		LessonRepo:     lessonRepo,
		RoadmapRepo:    roadmapRepo,
		CompletionRepo: completionRepo,
		ProgressRepo:   progressRepo,
		UserRepo:       userRepo,
		Generation:     generation,
		Cache:          contentCache,
	}
}

// authorizedLesson 取课程并通过所属路线图校验访问权，
// 非属主与不存在一律返回未找到
func (s *LessonService) authorizedLesson(userID uint, isAdmin bool, lessonID string) (*model.Lesson, *model.Roadmap, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrLessonNotFound
		}
		return nil, nil, err
	}

	roadmap, err := s.RoadmapRepo.FindByID(lesson.RoadmapID)
	if err != nil {
		return nil, nil, err
	}

	if roadmap.UserID != userID && !isAdmin {
		return nil, nil, util.ErrLessonNotFound
	}

	return lesson, roadmap, nil
}

// ListForRoadmap 路线图下的课程合并当前用户的完成状态，
// 课程与完成记录相互独立，并行取回后合并
func (s *LessonService) ListForRoadmap(ctx context.Context, userID uint, isAdmin bool, roadmapID string) ([]model.LessonWithCompletion, error) {
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

	var (
		lessons     []model.Lesson
		completions []model.LessonCompletion
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lessons, err = s.LessonRepo.FindByRoadmap(roadmapID)
		return err
	})
	g.Go(func() error {
		var err error
		completions, err = s.CompletionRepo.FindByUserAndRoadmap(userID, roadmapID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byLesson := make(map[string]*model.LessonCompletion, len(completions))
	for i := range completions {
		byLesson[completions[i].LessonID] = &completions[i]
	}

	merged := make([]model.LessonWithCompletion, 0, len(lessons))
	for _, lesson := range lessons {
		item := model.LessonWithCompletion{Lesson: lesson}
		if comp, ok := byLesson[lesson.ID]; ok {
			item.Completed = true
			item.Score = comp.Score
			item.Total = comp.Total
			completedAt := comp.CompletedAt
			item.CompletedAt = &completedAt
		}
		merged = append(merged, item)
	}

	return merged, nil
}

// Get 单个课程，所有权经由所属路线图校验
func (s *LessonService) Get(userID uint, isAdmin bool, lessonID string) (*model.Lesson, error) {
	lesson, _, err := s.authorizedLesson(userID, isAdmin, lessonID)
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// Content 返回课程内容：先查缓存，再回退到课程行上的持久副本，
// 都没有才调用模型生成。force 为 true 时跳过读取，重新生成并覆盖
func (s *LessonService) Content(ctx context.Context, userID uint, isAdmin bool, lessonID string, force bool) (*model.LessonContent, error) {
	lesson, roadmap, err := s.authorizedLesson(userID, isAdmin, lessonID)
	if err != nil {
		return nil, err
	}

	key := cache.LessonContentKey(lesson.ID)

	if !force {
		if cached, err := s.Cache.Get(ctx, key); err == nil {
			var content model.LessonContent
			if err := json.Unmarshal([]byte(cached), &content); err == nil {
				return &content, nil
			}
			logger.Log.Warn("缓存中的课程内容无法解析，按未命中处理",
				zap.String("lessonId", lesson.ID))
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Log.Warn("读取课程内容缓存失败",
				zap.String("lessonId", lesson.ID),
				zap.Error(err))
		}

		if len(lesson.Content) > 0 {
			var content model.LessonContent
			if err := json.Unmarshal(lesson.Content, &content); err == nil {
				// 持久副本命中，顺手回填缓存
				if err := s.Cache.Set(ctx, key, string(lesson.Content), 0); err != nil {
					logger.Log.Warn("回填课程内容缓存失败",
						zap.String("lessonId", lesson.ID),
						zap.Error(err))
				}
				return &content, nil
			}
		}
	}

	content, modelName, err := s.Generation.GenerateLessonContent(ctx, lesson, roadmap)
	if err != nil {
		return nil, err
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}

	// 缓存键不设过期，只在路线图删除时尽力清理
	if err := s.Cache.Set(ctx, key, string(contentJSON), 0); err != nil {
		logger.Log.Warn("写入课程内容缓存失败",
			zap.String("lessonId", lesson.ID),
			zap.Error(err))
	}

	// 持久副本写失败不吞掉生成结果，缓存里仍有可用内容
	if err := s.LessonRepo.UpdateContent(lesson.ID, datatypes.JSON(contentJSON), modelName); err != nil {
		logger.Log.Error("写入课程内容持久副本失败",
			zap.String("lessonId", lesson.ID),
			zap.Error(err))
	}

	return content, nil
}

// buildCompletion 覆盖已有完成记录或新建一行，返回待保存的记录和覆盖前的得分。
// 同一用户同一课程始终只有这一行，复合唯一索引兜底
func buildCompletion(existing *model.LessonCompletion, userID uint, lesson *model.Lesson, score, total, timeSpentMinutes int, answers datatypes.JSON, now time.Time) (*model.LessonCompletion, int) {
	if existing != nil {
		previous := existing.Score
		existing.Score = score
		existing.Total = total
		existing.TimeSpentMinutes = timeSpentMinutes
		existing.Answers = answers
		existing.CompletedAt = now
		return existing, previous
	}

	return &model.LessonCompletion{
		UserID:           userID,
		LessonID:         lesson.ID,
		RoadmapID:        lesson.RoadmapID,
		Score:            score,
		Total:            total,
		TimeSpentMinutes: timeSpentMinutes,
		Answers:          answers,
		CompletedAt:      now,
	}, 0
}

// applyCompletionStats 把从完成记录聚合出的计数写回进度行，正确率保留一位小数
func applyCompletionStats(p *model.UserProgress, stats repository.CompletionStats, lessonID string, now time.Time) {
	p.CompletedLessons = int(stats.Completed)
	p.TimeSpentMinutes = int(stats.TimeSpent)
	p.Accuracy = math.Round(stats.Accuracy*10) / 10
	p.LastLessonID = lessonID
	p.LastActivityAt = now
}

// xpDelta 经验按得分增量发放，重考不重复计分，退步不扣分
func xpDelta(previousScore, score int) int {
	if delta := score - previousScore; delta > 0 {
		return delta
	}
	return 0
}

// Complete 写入或覆盖完成记录，并在同一事务里重算进度、按得分增量发放经验
func (s *LessonService) Complete(userID uint, lessonID string, score, total, timeSpentMinutes int, answers map[string]int) (*model.LessonCompletion, *model.UserProgress, error) {
	if total <= 0 || score < 0 || score > total {
		return nil, nil, util.ErrInvalidScore
	}

	// 完成记录只属于本人，管理员也不能替他人提交
	lesson, _, err := s.authorizedLesson(userID, false, lessonID)
	if err != nil {
		return nil, nil, err
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, nil, err
	}

	var completion *model.LessonCompletion
	var progress *model.UserProgress

	err = s.CompletionRepo.DB.Transaction(func(tx *gorm.DB) error {
		var existing *model.LessonCompletion
		var found model.LessonCompletion
		findErr := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			First(&found).Error
		switch {
		case findErr == nil:
			existing = &found
		case errors.Is(findErr, gorm.ErrRecordNotFound):
		default:
			return findErr
		}

		now := time.Now()
		row, previousScore := buildCompletion(existing, userID, lesson, score, total, timeSpentMinutes, datatypes.JSON(answersJSON), now)
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		completion = row

		// 进度计数每次从完成记录整体重算，增量更新会积累漂移
		var stats repository.CompletionStats
		if err := tx.Model(&model.LessonCompletion{}).
			Where("user_id = ? AND roadmap_id = ?", userID, lesson.RoadmapID).
			Select("COUNT(*) AS completed, COALESCE(SUM(time_spent_minutes),0) AS time_spent, COALESCE(AVG(score * 100.0 / total),0) AS accuracy").
			Scan(&stats).Error; err != nil {
			return err
		}

		var p model.UserProgress
		if err := tx.Where("user_id = ? AND roadmap_id = ?", userID, lesson.RoadmapID).
			First(&p).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// 进度行随路线图创建，缺失说明数据漂移，补建一行
			var totalLessons int64
			if err := tx.Model(&model.Lesson{}).
				Where("roadmap_id = ?", lesson.RoadmapID).
				Count(&totalLessons).Error; err != nil {
				return err
			}
			p = model.UserProgress{
				UserID:       userID,
				RoadmapID:    lesson.RoadmapID,
				TotalLessons: int(totalLessons),
			}
		}

		applyCompletionStats(&p, stats, lesson.ID, now)
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		progress = &p

		if delta := xpDelta(previousScore, score); delta > 0 {
			if err := tx.Model(&model.User{}).
				Where("id = ?", userID).
				Update("xp", gorm.Expr("xp + ?", delta)).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return completion, progress, nil
}
