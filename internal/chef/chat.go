// Package chef implements the cooking-advice chat.
package chef

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/llm"
)

const (
	systemPrompt = `You are a 2 michelin star chef who wants to help home cooks improve their cooking skills.
You may only answer home cooking related questions.
If they ask about any nonsense outside of cooking, SCOLD AND CURSE THEM!`

	// Greeting opens every transcript.
	Greeting = "How may I help you?"

	maxTokens = 1000
)

// Chat holds a cooking conversation. Each question is sent on its own with
// the chef persona; earlier turns are kept for display only.
type Chat struct {
	client llm.Client
	logger *slog.Logger
	turns  []llm.Message
	mu     sync.Mutex
}

// New starts a conversation with the greeting as its first turn.
func New(client llm.Client, logger *slog.Logger) *Chat {
	return &Chat{
		client: client,
		logger: common.LoggerOrDefault(logger),
		turns:  []llm.Message{llm.Assistant(Greeting)},
	}
}

// Transcript returns a copy of every turn so far.
func (c *Chat) Transcript() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]llm.Message, len(c.turns))
	copy(out, c.turns)
	return out
}

// Ask sends prompt and records the exchange. The transcript is unchanged
// when the service fails.
func (c *Chat) Ask(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", common.NewValidationError("prompt", "must not be empty")
	}

	reply, err := c.client.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{llm.System(systemPrompt), llm.User(prompt)},
		MaxTokens: maxTokens,
	})
	if err != nil {
		c.logger.Error("Chef request failed", "error", err)
		return "", &common.ServiceError{Op: "chef", Err: err}
	}

	c.mu.Lock()
	c.turns = append(c.turns, llm.User(prompt), llm.Assistant(reply))
	c.mu.Unlock()

	return reply, nil
}
