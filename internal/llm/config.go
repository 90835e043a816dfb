package llm

import (
	"fmt"
	"time"
)

// Config llm 包自己的配置，由 app 层从全局配置映射而来
type Config struct {
	Provider    string // openai_compat | gemini | mock
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration // 单次调用硬超时
	MaxTokens   int
	Temperature float32
}

// Validate 校验所选 Provider 的必填项
func (c Config) Validate() error {
	switch c.Provider {
	case "openai_compat", "":
		if c.APIKey == "" {
			return fmt.Errorf("ai api key is required for the openai_compat provider")
		}
		if c.BaseURL == "" {
			return fmt.Errorf("ai base url is required for the openai_compat provider")
		}
	case "gemini":
		if c.APIKey == "" {
			return fmt.Errorf("ai api key is required for the gemini provider")
		}
	case "mock":
		// 无需密钥
	default:
		return fmt.Errorf("unknown ai provider: %q", c.Provider)
	}
	return nil
}
