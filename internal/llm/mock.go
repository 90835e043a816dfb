package llm

import (
	"context"
	"sync"
)

// MockResponse 测试用的预置响应
type MockResponse struct {
	Text string
	Err  error
}

// MockProvider 按 FIFO 顺序返回预置响应并记录所有请求，测试专用
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate 返回下一条预置响应；队列为空时返回 ErrUnavailable
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, ErrUnavailable
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Text:  resp.Text,
		Model: "mock",
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse 追加一条预置响应
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount 已发生的 Generate 调用次数
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
