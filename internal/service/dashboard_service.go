package service

import (
	"context"
	"math"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

const recentCompletionsLimit = 10

// DashboardService 聚合用户仪表盘：路线图、进度、总量统计和最近完成
type DashboardService struct {
	RoadmapRepo    *repository.RoadmapRepository
	ProgressRepo   *repository.ProgressRepository
	CompletionRepo *repository.CompletionRepository
}

func NewDashboardService(
	roadmapRepo *repository.RoadmapRepository,
	progressRepo *repository.ProgressRepository,
	completionRepo *repository.CompletionRepository,
) *DashboardService {
	return &DashboardService{
		RoadmapRepo:    roadmapRepo,
		ProgressRepo:   progressRepo,
		CompletionRepo: completionRepo,
	}
}

// GetUserDashboard 三路并行取回后合并，只展示未归档的路线图
func (s *DashboardService) GetUserDashboard(ctx context.Context, userID uint) (*model.Dashboard, error) {
	var (
		roadmaps   []model.Roadmap
		progresses []model.UserProgress
		recent     []model.LessonCompletion
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roadmaps, err = s.RoadmapRepo.FindByUser(userID)
		return err
	})
	g.Go(func() error {
		var err error
		progresses, err = s.ProgressRepo.FindByUser(userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.CompletionRepo.FindRecentByUser(userID, recentCompletionsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byRoadmap := make(map[string]*model.UserProgress, len(progresses))
	for i := range progresses {
		byRoadmap[progresses[i].RoadmapID] = &progresses[i]
	}

	items := make([]model.DashboardRoadmap, 0, len(roadmaps))
	totalTime := 0
	totalCompleted := 0
	accuracySum := 0.0
	accuracyCount := 0

	for _, roadmap := range roadmaps {
		if roadmap.Status != model.RoadmapActive {
			continue
		}

		item := model.DashboardRoadmap{Roadmap: roadmap}
		if p, ok := byRoadmap[roadmap.ID]; ok {
			item.Progress = p
			totalTime += p.TimeSpentMinutes
			totalCompleted += p.CompletedLessons
			if p.CompletedLessons > 0 {
				accuracySum += p.Accuracy
				accuracyCount++
			}
		}
		items = append(items, item)
	}

	overall := 0.0
	if accuracyCount > 0 {
		overall = math.Round(accuracySum/float64(accuracyCount)*10) / 10
	}

	return &model.Dashboard{
		Roadmaps:          items,
		TotalTimeMinutes:  totalTime,
		OverallAccuracy:   overall,
		TotalCompleted:    totalCompleted,
		RecentCompletions: recent,
	}, nil
}
