// Package categorize assigns one category from the fixed enumeration to a
// free-text expense description using the completion service.
package categorize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/model"
)

const (
	systemPrompt = "You are an assistant that helps categorize expenses."

	defaultMaxTokens = 300
)

// Config holds categorizer settings.
type Config struct {
	Policy    ClassifierPolicy
	CacheTTL  time.Duration
	MaxTokens int
}

// Categorizer asks the completion service for a category and maps the reply
// with a ClassifierPolicy. It never fails: anything it cannot map becomes
// model.DefaultCategory.
type Categorizer struct {
	client     llm.Client
	policy     ClassifierPolicy
	cache      *categoryCache
	logger     *slog.Logger
	categories []model.Category
	maxTokens  int
}

// New creates a Categorizer over the full category enumeration.
func New(client llm.Client, cfg Config, logger *slog.Logger) *Categorizer {
	policy := cfg.Policy
	if policy == nil {
		policy = SubstringPolicy{}
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Categorizer{
		client:     client,
		policy:     policy,
		cache:      newCategoryCache(cfg.CacheTTL),
		logger:     common.LoggerOrDefault(logger),
		categories: model.Categories(),
		maxTokens:  maxTokens,
	}
}

// BuildPrompt returns the user message sent for description.
func BuildPrompt(description string, categories []model.Category) string {
	return fmt.Sprintf(
		"The expense is: %s. Can you categorize this expense? The categories should only be one of the following: %s",
		description, model.Labels(categories))
}

// Categorize returns exactly one enumeration member for description.
// Service failures and unmatched replies yield model.DefaultCategory.
func (c *Categorizer) Categorize(ctx context.Context, description string) model.Category {
	category, _ := c.Classify(ctx, description)
	return category
}

// Classify is Categorize that also reports why the default was used. The
// returned category is always valid; the error is informational.
func (c *Categorizer) Classify(ctx context.Context, description string) (model.Category, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.DefaultCategory, common.NewValidationError("description", "must not be empty")
	}

	if category, ok := c.cache.get(description); ok {
		c.logger.Debug("Category cache hit", "description", description, "category", category)
		return category, nil
	}

	reply, err := c.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			llm.System(systemPrompt),
			llm.User(BuildPrompt(description, c.categories)),
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		c.logger.Warn("Categorization failed, using default category",
			"description", description,
			"default", model.DefaultCategory,
			"error", err)
		return model.DefaultCategory, &common.ServiceError{Op: "categorize", Err: err}
	}

	category, ok := c.policy.Match(reply, c.categories)
	if !ok {
		c.logger.Info("Reply named no known category, using default",
			"description", description,
			"reply", reply,
			"default", model.DefaultCategory)
		return model.DefaultCategory, nil
	}

	c.cache.set(description, category)
	c.logger.Debug("Expense categorized", "description", description, "category", category)
	return category, nil
}
