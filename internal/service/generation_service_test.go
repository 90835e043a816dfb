package service

import (
	"context"
	"errors"
	"skillpath_backend/internal/config"
	"skillpath_backend/internal/llm"
	"skillpath_backend/internal/model"
	"strings"
	"testing"
)

func newGenerationService(mock *llm.MockProvider) *GenerationService {
	cfg := &config.Config{}
	cfg.AI.MaxTokens = 2048
	cfg.AI.Temperature = 0.7
	return NewGenerationService(mock, cfg)
}

func validQuestionsJSON() string {
	return "```json\n" + `[
		{"question": "What is your current level?", "options": ["Beginner", "Intermediate", "Advanced"]},
		{"question": "How many hours per week can you study?", "options": ["Under 3", "3 to 7", "8 to 14", "15 or more"]},
		{"question": "What is your main outcome?", "options": ["A job", "A project", "General knowledge"]}
	]` + "\n```"
}

func validRoadmapJSON() string {
	// 周次故意乱序且跳号，服务端要重排成 1..N
	return `Here is your roadmap:
	{
		"title": "Learn Go in 4 Weeks",
		"summary": "A compact path from syntax to a working service.",
		"weeks": [
			{"week": 3, "theme": "Concurrency", "topics": [
				{"title": "Goroutines", "objective": "Start and coordinate goroutines.", "estimated_minutes": 60}
			]},
			{"week": 9, "theme": "A Web Service", "topics": [
				{"title": "HTTP handlers", "objective": "Serve JSON over HTTP.", "estimated_minutes": 90}
			]},
			{"week": 1, "theme": "Syntax Basics", "topics": [
				{"title": "Types and functions", "objective": "Read and write basic Go.", "estimated_minutes": 45},
				{"title": "Slices and maps", "objective": "Use the core collections.", "estimated_minutes": 45}
			]},
			{"week": 2, "theme": "Methods and Interfaces", "topics": [
				{"title": "Interfaces", "objective": "Define and satisfy interfaces.", "estimated_minutes": 60}
			]}
		]
	}`
}

func validLessonContentJSON() string {
	return `{
		"sections": [
			{"heading": "What a goroutine is", "body": "A goroutine is a lightweight thread managed by the Go runtime."},
			{"heading": "Starting one", "body": "Prefix a call with the go keyword and it runs concurrently."},
			{"heading": "Waiting for results", "body": "Use channels or a WaitGroup to know when work is done."}
		],
		"key_takeaways": ["Goroutines are cheap", "Always arrange for shutdown"],
		"quiz": [
			{"question": "What starts a goroutine?", "options": ["go", "run", "spawn", "async"], "correct_index": 0, "explanation": "The go keyword starts a goroutine."},
			{"question": "Goroutines are scheduled by?", "options": ["The OS only", "The Go runtime", "The GPU", "systemd"], "correct_index": 1, "explanation": "The runtime multiplexes goroutines onto OS threads."},
			{"question": "A WaitGroup is used to?", "options": ["Kill goroutines", "Wait for goroutines", "Slow goroutines", "Name goroutines"], "correct_index": 1, "explanation": "WaitGroup blocks until the counter reaches zero."}
		]
	}`
}

func TestClarifyingQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: validQuestionsJSON()})
	svc := newGenerationService(mock)

	questions, err := svc.ClarifyingQuestions(context.Background(), "learn Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Question == "" {
			t.Errorf("question %d is empty", i)
		}
		if len(q.Options) < 3 || len(q.Options) > 5 {
			t.Errorf("question %d has %d options", i, len(q.Options))
		}
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 provider call, got %d", mock.CallCount())
	}
	if !strings.Contains(mock.Calls[0].Prompt, "learn Go") {
		t.Error("expected prompt to embed the goal verbatim")
	}
	if mock.Calls[0].System == "" {
		t.Error("expected a system prompt")
	}
}

func TestClarifyingQuestions_WrongCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: `[{"question": "Only one?", "options": ["a", "b", "c"]}]`,
	})
	svc := newGenerationService(mock)

	_, err := svc.ClarifyingQuestions(context.Background(), "learn Go")
	if !errors.Is(err, llm.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestGenerateRoadmap(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: validRoadmapJSON()})
	svc := newGenerationService(mock)

	answers := []model.ClarifyingAnswer{
		{Question: "What is your current level?", Answer: "Beginner"},
	}
	roadmap, modelName, err := svc.GenerateRoadmap(context.Background(), "learn Go", answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if roadmap.Title != "Learn Go in 4 Weeks" {
		t.Errorf("unexpected title %q", roadmap.Title)
	}
	if modelName != "mock" {
		t.Errorf("unexpected model %q", modelName)
	}

	if len(roadmap.Weeks) != 4 {
		t.Fatalf("expected 4 weeks, got %d", len(roadmap.Weeks))
	}
	// 乱序、跳号的周次被重排为 1..N，主题顺序跟随原始周次
	expectedThemes := []string{"Syntax Basics", "Methods and Interfaces", "Concurrency", "A Web Service"}
	for i, week := range roadmap.Weeks {
		if week.Week != i+1 {
			t.Errorf("week %d numbered %d", i, week.Week)
		}
		if week.Theme != expectedThemes[i] {
			t.Errorf("week %d theme %q, expected %q", i+1, week.Theme, expectedThemes[i])
		}
	}
	if len(roadmap.Weeks[0].Topics) != 2 {
		t.Errorf("expected 2 topics in week 1, got %d", len(roadmap.Weeks[0].Topics))
	}

	if !strings.Contains(mock.Calls[0].Prompt, "Beginner") {
		t.Error("expected prompt to embed the answers verbatim")
	}
}

func TestGenerateRoadmap_TooFewWeeks(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: `{"title": "Short", "summary": "", "weeks": [
			{"week": 1, "theme": "One", "topics": [{"title": "t", "objective": "o", "estimated_minutes": 30}]},
			{"week": 2, "theme": "Two", "topics": [{"title": "t", "objective": "o", "estimated_minutes": 30}]}
		]}`,
	})
	svc := newGenerationService(mock)

	_, _, err := svc.GenerateRoadmap(context.Background(), "learn Go", nil)
	if !errors.Is(err, llm.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestGenerateLessonContent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: validLessonContentJSON()})
	svc := newGenerationService(mock)

	lesson := &model.Lesson{
		Title:            "Goroutines",
		Objective:        "Start and coordinate goroutines.",
		WeekNumber:       3,
		EstimatedMinutes: 60,
	}
	roadmap := &model.Roadmap{Goal: "learn Go", Title: "Learn Go in 4 Weeks"}

	content, modelName, err := svc.GenerateLessonContent(context.Background(), lesson, roadmap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(content.Sections) != 3 {
		t.Errorf("expected 3 sections, got %d", len(content.Sections))
	}
	if len(content.Quiz) != 3 {
		t.Errorf("expected 3 quiz questions, got %d", len(content.Quiz))
	}
	for i, q := range content.Quiz {
		if len(q.Options) != 4 {
			t.Errorf("quiz %d has %d options", i, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex > 3 {
			t.Errorf("quiz %d correct_index out of range: %d", i, q.CorrectIndex)
		}
	}
	if modelName != "mock" {
		t.Errorf("unexpected model %q", modelName)
	}

	prompt := mock.Calls[0].Prompt
	if !strings.Contains(prompt, "Goroutines") || !strings.Contains(prompt, "learn Go") {
		t.Error("expected prompt to carry lesson and roadmap context")
	}
}

func TestReconfigure_SwapsProviderAndSettings(t *testing.T) {
	old := llm.NewMockProvider(llm.MockResponse{Text: validQuestionsJSON()})
	svc := newGenerationService(old)

	replacement := llm.NewMockProvider(llm.MockResponse{Text: validQuestionsJSON()})
	svc.Reconfigure(replacement, config.AIConfig{MaxTokens: 512, Temperature: 0.2})

	if _, err := svc.ClarifyingQuestions(context.Background(), "learn Go"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 热更新后旧 Provider 不再被调用，新的生成参数随请求生效
	if old.CallCount() != 0 {
		t.Fatalf("expected old provider untouched, got %d calls", old.CallCount())
	}
	if replacement.CallCount() != 1 {
		t.Fatalf("expected 1 call on the replacement provider, got %d", replacement.CallCount())
	}
	if replacement.Calls[0].MaxTokens != 512 {
		t.Fatalf("expected reconfigured max tokens 512, got %d", replacement.Calls[0].MaxTokens)
	}
	if replacement.Calls[0].Temperature != 0.2 {
		t.Fatalf("expected reconfigured temperature 0.2, got %v", replacement.Calls[0].Temperature)
	}
}

func TestGenerate_ProviderErrorPassesThrough(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.StatusError{Category: llm.ErrRateLimited, StatusCode: 429},
	})
	svc := newGenerationService(mock)

	_, err := svc.ClarifyingQuestions(context.Background(), "learn Go")
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestGenerate_NonJSONReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: "Sorry, I cannot help with that right now.",
	})
	svc := newGenerationService(mock)

	_, _, err := svc.GenerateRoadmap(context.Background(), "learn Go", nil)
	if !errors.Is(err, llm.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}
