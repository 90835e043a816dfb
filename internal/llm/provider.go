package llm

import (
	"context"
)

// Provider 生成式模型的统一入口。发送原始提示词，返回自由文本，
// 结构化解析（剥离围栏、定位 JSON、schema 校验）在调用方完成。
type Provider interface {
	// Generate 单次调用，受配置的硬超时约束，任何失败都不在内部重试
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID 返回该 Provider 配置的模型标识
	ModelID() string
}

// Request 单轮生成请求
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Response 模型输出
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Usage 单次请求的 token 消耗
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
