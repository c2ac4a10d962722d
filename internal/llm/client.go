package llm

import (
	"context"
	"time"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of an ordered chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest asks the service for a single free-text reply.
type CompletionRequest struct {
	// Temperature overrides the client default when non-nil.
	Temperature *float64
	// Model overrides the client default when non-empty.
	Model     string
	Messages  []Message
	MaxTokens int
}

// ImageRequest asks the service for a single generated image.
type ImageRequest struct {
	Model   string
	Prompt  string
	Size    string
	Quality string
	Style   string
}

// Client defines the interface for text completion providers.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ImageGenerator is implemented by providers that can render images.
// GenerateImage returns the URL of the generated image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// Config holds configuration for the completion clients.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	ImageModel  string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 {
	return &v
}

// System builds a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant builds an assistant message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
