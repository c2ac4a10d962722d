package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/pennywise/internal/config"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/spf13/viper"
)

// completionService is everything the commands ask of the hosted model.
type completionService interface {
	llm.Client
	llm.ImageGenerator
}

// newCompletionService creates the rate-limited, retrying client from
// configuration. Tests replace it with a scripted mock.
var newCompletionService = func() (completionService, error) {
	cfg, err := config.LoadLLMConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	client, err := llm.New(cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}
	return client, nil
}
