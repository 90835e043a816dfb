package service

import (
	"context"
	"encoding/json"
	"skillpath_backend/internal/config"
	"skillpath_backend/internal/llm"
	"skillpath_backend/internal/model"
	"sort"
	"sync"
)

// GenerationService 把提示词构造、模型调用、JSON 提取和 schema 校验
// 串成三个生成入口。失败直接向上抛已分类的错误，从不自动重试。
// Provider 和生成参数可在配置热更新时被整体替换
type GenerationService struct {
	mu       sync.RWMutex
	provider llm.Provider
	ai       config.AIConfig
}

func NewGenerationService(provider llm.Provider, cfg *config.Config) *GenerationService {
	return &GenerationService{
		provider: provider,
		ai:       cfg.AI,
	}
}

// Reconfigure 配置热更新入口：替换 Provider 与生成参数。
// 进行中的调用继续使用旧 Provider 跑完
func (s *GenerationService) Reconfigure(provider llm.Provider, ai config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = provider
	s.ai = ai
}

func (s *GenerationService) generate(ctx context.Context, system, prompt string) (*llm.Response, error) {
	s.mu.RLock()
	provider, ai := s.provider, s.ai
	s.mu.RUnlock()

	return provider.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   ai.MaxTokens,
		Temperature: ai.Temperature,
	})
}

// ClarifyingQuestions 为学习目标生成恰好 3 道澄清选择题，不落库
func (s *GenerationService) ClarifyingQuestions(ctx context.Context, goal string) ([]model.ClarifyingQuestion, error) {
	resp, err := s.generate(ctx, questionsSystemPrompt, buildQuestionsPrompt(goal))
	if err != nil {
		return nil, err
	}

	raw, err := llm.ExtractArray(resp.Text)
	if err != nil {
		return nil, err
	}
	if err := llm.ValidateJSON(clarifyingQuestionsSchema, raw); err != nil {
		return nil, err
	}

	var questions []model.ClarifyingQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, llm.NewMalformedError(raw, err)
	}

	return questions, nil
}

// GenerateRoadmap 依据目标和澄清回答生成整个路线图，返回结构化结果和产出它的模型名
func (s *GenerationService) GenerateRoadmap(ctx context.Context, goal string, answers []model.ClarifyingAnswer) (*model.GeneratedRoadmap, string, error) {
	resp, err := s.generate(ctx, roadmapSystemPrompt, buildRoadmapPrompt(goal, answers))
	if err != nil {
		return nil, "", err
	}

	raw, err := llm.ExtractObject(resp.Text)
	if err != nil {
		return nil, "", err
	}
	if err := llm.ValidateJSON(roadmapSchema, raw); err != nil {
		return nil, "", err
	}

	var roadmap model.GeneratedRoadmap
	if err := json.Unmarshal([]byte(raw), &roadmap); err != nil {
		return nil, "", llm.NewMalformedError(raw, err)
	}

	normalizeWeeks(roadmap.Weeks)

	return &roadmap, resp.Model, nil
}

// GenerateLessonContent 为单个课程生成正文与测验，返回结构化内容和模型名
func (s *GenerationService) GenerateLessonContent(ctx context.Context, lesson *model.Lesson, roadmap *model.Roadmap) (*model.LessonContent, string, error) {
	resp, err := s.generate(ctx, lessonContentSystemPrompt, buildLessonContentPrompt(lesson, roadmap))
	if err != nil {
		return nil, "", err
	}

	raw, err := llm.ExtractObject(resp.Text)
	if err != nil {
		return nil, "", err
	}
	if err := llm.ValidateJSON(lessonContentSchema, raw); err != nil {
		return nil, "", err
	}

	var content model.LessonContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, "", llm.NewMalformedError(raw, err)
	}

	return &content, resp.Model, nil
}

// normalizeWeeks 模型偶尔会跳号或乱序，按声明的周次稳定排序后重编为 1..N
func normalizeWeeks(weeks []model.RoadmapWeek) {
	sort.SliceStable(weeks, func(i, j int) bool {
		return weeks[i].Week < weeks[j].Week
	})
	for i := range weeks {
		weeks[i].Week = i + 1
	}
}
