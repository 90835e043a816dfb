package llm

import (
	"context"
	"fmt"
)

// NewProvider 按配置构造 Provider 并套上指标日志包装。
// 没有任何重试包装：所有失败原样返回，由用户决定是否重试。
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	provider := cfg.Provider
	if provider == "" {
		provider = "openai_compat"
	}

	switch provider {
	case "openai_compat":
		base, err = NewOpenAICompatProvider(cfg)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %q", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", provider, err)
	}

	return WithInstrumentation(base, provider), nil
}
