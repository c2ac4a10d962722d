package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client and ImageGenerator for tests.
// Replies are returned in order; once exhausted the last reply repeats.
type MockClient struct {
	Err        error
	ImageErr   error
	ImageURL   string
	Replies    []string
	calls      []CompletionRequest
	imageCalls []ImageRequest
	mu         sync.Mutex
}

// NewMockClient creates a mock that answers with the given replies.
func NewMockClient(replies ...string) *MockClient {
	return &MockClient{Replies: replies}
}

// Complete records the request and returns the next scripted reply.
func (m *MockClient) Complete(_ context.Context, req CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", nil
	}

	idx := len(m.calls) - 1
	if idx >= len(m.Replies) {
		idx = len(m.Replies) - 1
	}
	return m.Replies[idx], nil
}

// GenerateImage records the request and returns ImageURL.
func (m *MockClient) GenerateImage(_ context.Context, req ImageRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.imageCalls = append(m.imageCalls, req)
	if m.ImageErr != nil {
		return "", m.ImageErr
	}
	return m.ImageURL, nil
}

// Calls returns the completion requests received so far.
func (m *MockClient) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of completion requests received.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// ImageCalls returns the image requests received so far.
func (m *MockClient) ImageCalls() []ImageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ImageRequest, len(m.imageCalls))
	copy(out, m.imageCalls)
	return out
}

// LastPrompt returns the content of the final message of the last request.
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.calls) == 0 {
		return ""
	}
	msgs := m.calls[len(m.calls)-1].Messages
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}
