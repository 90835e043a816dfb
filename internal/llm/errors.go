package llm

import (
	"errors"
	"fmt"
	"time"
)

// 错误类别哨兵。响应翻译层用 errors.Is 匹配，映射到固定的用户可见类别。
var (
	ErrRateLimited     = errors.New("ai rate limited")
	ErrInvalidKey      = errors.New("ai api key rejected")
	ErrUnavailable     = errors.New("ai service unavailable")
	ErrTimeout         = errors.New("ai request timed out")
	ErrMalformedOutput = errors.New("malformed ai output")
)

// StatusError 按上游 HTTP 状态码分类的调用错误
type StatusError struct {
	Category   error // 上面的类别哨兵之一
	StatusCode int
	Body       string
	RetryAfter time.Duration // 仅限流时有值，来自 Retry-After 头
}

func (e *StatusError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("AI API error (status %d, retry after %s): %s", e.StatusCode, e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("AI API error (status %d): %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return e.Category }

// MalformedError 模型输出无法解析成要求的 JSON，携带截断样本便于排查
type MalformedError struct {
	Sample string
	Cause  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed ai output: %v (sample: %q)", e.Cause, e.Sample)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedOutput }

const sampleLimit = 200

// NewMalformedError 构造解析失败错误，样本超长时截断
func NewMalformedError(raw string, cause error) *MalformedError {
	sample := raw
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit] + "..."
	}
	return &MalformedError{Sample: sample, Cause: cause}
}

// classifyStatus 把上游状态码映射到类别哨兵；无法归类的 4xx 返回 nil
func classifyStatus(code int) error {
	switch {
	case code == 429:
		return ErrRateLimited
	case code == 401 || code == 403:
		return ErrInvalidKey
	case code >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}
