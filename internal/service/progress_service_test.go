package service

import (
	"skillpath_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func weekLesson(id string, week int) model.Lesson {
	lesson := model.Lesson{WeekNumber: week}
	lesson.ID = id
	return lesson
}

func completionFor(lessonID string) model.LessonCompletion {
	return model.LessonCompletion{LessonID: lessonID}
}

func TestBuildWeekBreakdown(t *testing.T) {
	t.Run("groups lessons by week and counts completions", func(t *testing.T) {
		lessons := []model.Lesson{
			weekLesson("a", 1),
			weekLesson("b", 1),
			weekLesson("c", 2),
			weekLesson("d", 3),
		}
		completions := []model.LessonCompletion{
			completionFor("a"),
			completionFor("c"),
		}

		weeks := buildWeekBreakdown(lessons, completions)

		assert.Len(t, weeks, 3)
		assert.Equal(t, model.WeekBreakdown{Week: 1, Lessons: 2, Completed: 1}, weeks[0])
		assert.Equal(t, model.WeekBreakdown{Week: 2, Lessons: 1, Completed: 1}, weeks[1])
		assert.Equal(t, model.WeekBreakdown{Week: 3, Lessons: 1, Completed: 0}, weeks[2])
	})

	t.Run("no completions leaves zero counts", func(t *testing.T) {
		lessons := []model.Lesson{weekLesson("a", 1), weekLesson("b", 2)}

		weeks := buildWeekBreakdown(lessons, nil)

		assert.Len(t, weeks, 2)
		for _, w := range weeks {
			assert.Zero(t, w.Completed)
		}
	})

	t.Run("completions for unknown lessons are ignored", func(t *testing.T) {
		lessons := []model.Lesson{weekLesson("a", 1)}
		completions := []model.LessonCompletion{completionFor("ghost")}

		weeks := buildWeekBreakdown(lessons, completions)

		assert.Equal(t, []model.WeekBreakdown{{Week: 1, Lessons: 1, Completed: 0}}, weeks)
	})

	t.Run("no lessons yields empty breakdown", func(t *testing.T) {
		weeks := buildWeekBreakdown(nil, nil)
		assert.Empty(t, weeks)
	})
}
