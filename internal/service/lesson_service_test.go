package service

import (
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func quizLesson(id, roadmapID string) *model.Lesson {
	lesson := &model.Lesson{RoadmapID: roadmapID}
	lesson.ID = id
	return lesson
}

func TestBuildCompletion(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	lesson := quizLesson("lesson-1", "roadmap-1")
	answers := datatypes.JSON(`{"0":2}`)

	t.Run("first completion creates a fresh row", func(t *testing.T) {
		row, previous := buildCompletion(nil, 7, lesson, 2, 3, 25, answers, now)

		assert.Zero(t, previous)
		assert.Equal(t, uint(7), row.UserID)
		assert.Equal(t, "lesson-1", row.LessonID)
		assert.Equal(t, "roadmap-1", row.RoadmapID)
		assert.Equal(t, 2, row.Score)
		assert.Equal(t, 3, row.Total)
		assert.Equal(t, 25, row.TimeSpentMinutes)
		assert.Equal(t, now, row.CompletedAt)
	})

	t.Run("retake overwrites the existing row and reports the old score", func(t *testing.T) {
		existing := &model.LessonCompletion{
			UserID:           7,
			LessonID:         "lesson-1",
			RoadmapID:        "roadmap-1",
			Score:            1,
			Total:            3,
			TimeSpentMinutes: 40,
			CompletedAt:      now.Add(-time.Hour),
		}

		row, previous := buildCompletion(existing, 7, lesson, 3, 3, 15, answers, now)

		// 覆盖而不是另起一行，同一用户同一课程只保留一条完成记录
		assert.Same(t, existing, row)
		assert.Equal(t, 1, previous)
		assert.Equal(t, 3, row.Score)
		assert.Equal(t, 15, row.TimeSpentMinutes)
		assert.Equal(t, answers, row.Answers)
		assert.Equal(t, now, row.CompletedAt)
	})
}

func TestApplyCompletionStats(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("writes recomputed counters onto the progress row", func(t *testing.T) {
		p := model.UserProgress{
			UserID:           7,
			RoadmapID:        "roadmap-1",
			TotalLessons:     12,
			CompletedLessons: 99,
			TimeSpentMinutes: 99,
		}
		stats := repository.CompletionStats{Completed: 4, TimeSpent: 130, Accuracy: 83.333333}

		applyCompletionStats(&p, stats, "lesson-4", now)

		assert.Equal(t, 4, p.CompletedLessons)
		assert.Equal(t, 130, p.TimeSpentMinutes)
		assert.Equal(t, 83.3, p.Accuracy)
		assert.Equal(t, "lesson-4", p.LastLessonID)
		assert.Equal(t, now, p.LastActivityAt)
		// 总课程数不归聚合管，保持原值
		assert.Equal(t, 12, p.TotalLessons)
	})

	t.Run("accuracy is rounded to one decimal", func(t *testing.T) {
		var p model.UserProgress
		applyCompletionStats(&p, repository.CompletionStats{Accuracy: 66.66}, "lesson-1", now)
		assert.Equal(t, 66.7, p.Accuracy)
	})
}

func TestXPDelta(t *testing.T) {
	t.Run("first score is granted in full", func(t *testing.T) {
		assert.Equal(t, 3, xpDelta(0, 3))
	})

	t.Run("retake only grants the improvement", func(t *testing.T) {
		assert.Equal(t, 1, xpDelta(2, 3))
	})

	t.Run("same score grants nothing", func(t *testing.T) {
		assert.Zero(t, xpDelta(3, 3))
	})

	t.Run("worse score never deducts", func(t *testing.T) {
		assert.Zero(t, xpDelta(3, 1))
	})
}
