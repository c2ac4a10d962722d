package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
)

// Resilient wraps a provider client with client-side rate limiting and
// bounded retries. A single logical request still yields a single reply.
type Resilient struct {
	client      Client
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   common.RetryOptions
}

// NewResilient wraps client using the retry and rate settings from cfg.
func NewResilient(client Client, cfg Config, logger *slog.Logger) *Resilient {
	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Resilient{
		client:      client,
		logger:      common.LoggerOrDefault(logger),
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// Complete rate-limits and retries a completion request.
func (r *Resilient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := r.rateLimiter.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit error: %w", err)
	}

	var reply string
	err := common.WithRetry(ctx, func() error {
		r.logger.Debug("attempting completion",
			"messages", len(req.Messages),
			"max_tokens", req.MaxTokens)

		out, err := r.client.Complete(ctx, req)
		if err != nil {
			r.logger.Warn("completion attempt failed", "error", err)
			return classify(err)
		}

		reply = out
		return nil
	}, r.retryOpts)

	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	return reply, nil
}

// GenerateImage rate-limits and retries an image request. It fails when the
// wrapped provider cannot render images.
func (r *Resilient) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	images, ok := r.client.(ImageGenerator)
	if !ok {
		return "", fmt.Errorf("%w: provider does not support image generation", common.ErrInvalidConfig)
	}

	if err := r.rateLimiter.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit error: %w", err)
	}

	var url string
	err := common.WithRetry(ctx, func() error {
		out, err := images.GenerateImage(ctx, req)
		if err != nil {
			r.logger.Warn("image generation attempt failed", "error", err)
			return classify(err)
		}

		url = out
		return nil
	}, r.retryOpts)

	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	return url, nil
}

// classify marks provider errors as retryable or permanent.
func classify(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 {
			return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
		}
		return &common.RetryableError{Err: err, Retryable: apiErr.Retryable()}
	}
	if errors.Is(err, context.Canceled) {
		return &common.RetryableError{Err: err, Retryable: false}
	}
	return &common.RetryableError{Err: err, Retryable: true}
}
