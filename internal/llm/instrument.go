package llm

import (
	"context"
	"errors"
	"time"

	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// instrumented 给 Provider 套上指标与日志。只观测，不重试。
type instrumented struct {
	base Provider
	name string
}

// WithInstrumentation 包装 Provider，按 provider 名与结果上报指标
func WithInstrumentation(base Provider, name string) Provider {
	return &instrumented{base: base, name: name}
}

func (i *instrumented) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := i.base.Generate(ctx, req)
	elapsed := time.Since(start)

	monitoring.ObserveAIRequest(i.name, outcomeOf(err), elapsed)

	if err != nil {
		logger.Log.Warn("AI generation failed",
			zap.String("provider", i.name),
			zap.String("model", i.base.ModelID()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("AI generation completed",
		zap.String("provider", i.name),
		zap.String("model", resp.Model),
		zap.Duration("elapsed", elapsed),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return resp, nil
}

func (i *instrumented) ModelID() string {
	return i.base.ModelID()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrInvalidKey):
		return "invalid_key"
	case errors.Is(err, ErrMalformedOutput):
		return "malformed"
	default:
		return "error"
	}
}
