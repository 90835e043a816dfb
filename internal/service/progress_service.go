package service

import (
	"context"
	"errors"
	"math"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ProgressService 进度查询与后台对账
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	LessonRepo     *repository.LessonRepository
	CompletionRepo *repository.CompletionRepository
	RoadmapRepo    *repository.RoadmapRepository
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	lessonRepo *repository.LessonRepository,
	completionRepo *repository.CompletionRepository,
	roadmapRepo *repository.RoadmapRepository,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		LessonRepo:     lessonRepo,
		CompletionRepo: completionRepo,
		RoadmapRepo:    roadmapRepo,
	}
}

// RoadmapProgress 进度记录加按周拆分的完成情况。
// 课程与完成记录并行取回后合并
func (s *ProgressService) RoadmapProgress(ctx context.Context, userID uint, isAdmin bool, roadmapID string) (*model.RoadmapProgressView, error) {
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

	progress, err := s.ProgressRepo.FindByUserAndRoadmap(userID, roadmapID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// 管理员查看他人路线图时没有自己的进度行，返回零值
		progress = &model.UserProgress{
			UserID:       userID,
			RoadmapID:    roadmapID,
			TotalLessons: roadmap.TotalLessons,
		}
	}

	return &model.RoadmapProgressView{
		Progress: *progress,
		Weeks:    buildWeekBreakdown(lessons, completions),
	}, nil
}

// buildWeekBreakdown 课程已按周次有序，按出现顺序聚成每周计数
func buildWeekBreakdown(lessons []model.Lesson, completions []model.LessonCompletion) []model.WeekBreakdown {
	completed := make(map[string]bool, len(completions))
	for _, c := range completions {
		completed[c.LessonID] = true
	}

	byWeek := make(map[int]*model.WeekBreakdown)
	var order []int
	for _, lesson := range lessons {
		wb, ok := byWeek[lesson.WeekNumber]
		if !ok {
			wb = &model.WeekBreakdown{Week: lesson.WeekNumber}
			byWeek[lesson.WeekNumber] = wb
			order = append(order, lesson.WeekNumber)
		}
		wb.Lessons++
		if completed[lesson.ID] {
			wb.Completed++
		}
	}

	out := make([]model.WeekBreakdown, 0, len(order))
	for _, week := range order {
		out = append(out, *byWeek[week])
	}
	return out
}

// ReconcileRecent 从完成记录重算最近活跃进度行的计数，修复漂移。
// 由后台定时任务调用，返回修正的行数
func (s *ProgressService) ReconcileRecent(window time.Duration, limit int) (int, error) {
	progresses, err := s.ProgressRepo.FindRecentlyActive(time.Now().Add(-window), limit)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for i := range progresses {
		p := &progresses[i]

		stats, err := s.ProgressRepo.StatsFromCompletions(p.UserID, p.RoadmapID)
		if err != nil {
			logger.Log.Warn("进度对账查询失败",
				zap.Uint("userId", p.UserID),
				zap.String("roadmapId", p.RoadmapID),
				zap.Error(err))
			continue
		}

		accuracy := math.Round(stats.Accuracy*10) / 10
		if int(stats.Completed) == p.CompletedLessons &&
			int(stats.TimeSpent) == p.TimeSpentMinutes &&
			accuracy == p.Accuracy {
			continue
		}

		p.CompletedLessons = int(stats.Completed)
		p.TimeSpentMinutes = int(stats.TimeSpent)
		p.Accuracy = accuracy
		if err := s.ProgressRepo.Save(p); err != nil {
			logger.Log.Warn("进度对账写回失败",
				zap.Uint("userId", p.UserID),
				zap.String("roadmapId", p.RoadmapID),
				zap.Error(err))
			continue
		}
		fixed++
	}

	if fixed > 0 {
		logger.Log.Info("进度对账完成", zap.Int("fixed", fixed), zap.Int("checked", len(progresses)))
	}

	return fixed, nil
}
