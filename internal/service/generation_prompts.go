package service

import (
	"fmt"
	"skillpath_backend/internal/model"
	"strings"
)

const questionsSystemPrompt = `You are an expert learning coach. A user states a goal they want to learn, and you ask clarifying questions so a study plan can be tailored to their background and constraints.`

func buildQuestionsPrompt(goal string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Learning goal: %s\n", goal))

	b.WriteString(`
Instructions:
Write exactly 3 multiple-choice clarifying questions whose answers would most change how a study plan for this goal should be built (current level, available time per week, preferred focus, intended outcome).
Each question must have 3 to 5 short answer options covering the realistic range.

Respond with raw JSON only, no markdown fences, no commentary:
[{"question": "...", "options": ["...", "..."]}]`)

	return b.String()
}

const roadmapSystemPrompt = `You are an expert curriculum designer. You turn a learning goal and the learner's answers to clarifying questions into a realistic week-by-week study roadmap.`

func buildRoadmapPrompt(goal string, answers []model.ClarifyingAnswer) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Learning goal: %s\n", goal))

	b.WriteString("\nLearner answers:\n")
	if len(answers) == 0 {
		b.WriteString("None\n")
	} else {
		for _, a := range answers {
			b.WriteString(fmt.Sprintf("- %s: %s\n", a.Question, a.Answer))
		}
	}

	b.WriteString(`
Instructions:
Design a study roadmap of 4 to 12 weeks. Give every week a theme and 1 to 5 concrete topics. For every topic write a short title, a one-sentence learning objective, and a realistic time estimate in minutes.
Order weeks from fundamentals to advanced material and number them sequentially starting at 1.

Respond with raw JSON only, no markdown fences, no commentary:
{"title": "...", "summary": "...", "weeks": [{"week": 1, "theme": "...", "topics": [{"title": "...", "objective": "...", "estimated_minutes": 30}]}]}`)

	return b.String()
}

const lessonContentSystemPrompt = `You are an expert tutor writing a self-contained lesson for one topic inside a longer study roadmap. The learner reads the lesson and then takes its quiz.`

func buildLessonContentPrompt(lesson *model.Lesson, roadmap *model.Roadmap) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Roadmap goal: %s\n", roadmap.Goal))
	b.WriteString(fmt.Sprintf("Roadmap title: %s\n", roadmap.Title))
	b.WriteString(fmt.Sprintf("Week: %d\n", lesson.WeekNumber))
	b.WriteString(fmt.Sprintf("Lesson: %s\n", lesson.Title))
	b.WriteString(fmt.Sprintf("Objective: %s\n", lesson.Objective))
	b.WriteString(fmt.Sprintf("Estimated minutes: %d\n", lesson.EstimatedMinutes))

	b.WriteString(`
Instructions:
Write the lesson as 3 to 6 sections, each with a heading and a body of 2 to 4 short paragraphs, sized so the whole lesson fits the estimated minutes. Use plain text in bodies, no markdown.
Then list the key takeaways, and write a quiz of 3 to 5 multiple-choice questions testing the objective. Every question has exactly 4 options with a single correct one, and correct_index is the 0-based index of that option. Add a one-sentence explanation per question.

Respond with raw JSON only, no markdown fences, no commentary:
{"sections": [{"heading": "...", "body": "..."}], "key_takeaways": ["..."], "quiz": [{"question": "...", "options": ["...", "...", "...", "..."], "correct_index": 0, "explanation": "..."}]}`)

	return b.String()
}
