package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// OpenAICompatProvider 直接对接任意 OpenAI 兼容的 /chat/completions 端点
type OpenAICompatProvider struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
}

func NewOpenAICompatProvider(cfg Config) (*OpenAICompatProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai api key is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ai base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &OpenAICompatProvider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: timeout,
		client:  &http.Client{},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAICompatProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, p.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// 读取中断时正文不完整，非 200 仍按状态码归类，错误详情带上截断原因
	respBody, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		if readErr != nil {
			respBody = append(respBody, fmt.Sprintf(" (body truncated: %v)", readErr)...)
		}
		return nil, newStatusError(resp, respBody)
	}

	if readErr != nil {
		if errors.Is(readErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, p.timeout)
		}
		return nil, fmt.Errorf("%w: reading response body: %v", ErrUnavailable, readErr)
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, NewMalformedError(string(respBody), err)
	}

	if len(result.Choices) == 0 {
		msg := "no choices in response"
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return nil, NewMalformedError(string(respBody), errors.New(msg))
	}

	model := result.Model
	if model == "" {
		model = p.model
	}

	return &Response{
		Text:  result.Choices[0].Message.Content,
		Model: model,
		Usage: Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	}, nil
}

func (p *OpenAICompatProvider) ModelID() string {
	return p.model
}

// newStatusError 把非 200 响应归类；无法归类的状态码按普通错误返回
func newStatusError(resp *http.Response, body []byte) error {
	category := classifyStatus(resp.StatusCode)
	if category == nil {
		return fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	se := &StatusError{
		Category:   category,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}

	if category == ErrRateLimited {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				se.RetryAfter = time.Duration(secs) * time.Second
			}
		}
	}

	return se
}
