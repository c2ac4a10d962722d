package llm

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/pennywise/internal/common"
)

// NewClient creates a raw provider client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		client, err := newOpenAIClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "anthropic":
		client, err := newAnthropicClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}

// New creates a provider client wrapped with retries and rate limiting.
func New(cfg Config, logger *slog.Logger) (*Resilient, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewResilient(client, cfg, logger), nil
}
