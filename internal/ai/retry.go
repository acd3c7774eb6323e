package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimitExceeded is returned once every rate-limited attempt is used up.
var ErrRateLimitExceeded = errors.New("completion rate limit exceeded after retries")

// Completer is the raw completion call; satisfied by OpenAICompatibleClient.
type Completer interface {
	Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage) (string, error)
}

// CompletionClient wraps a Completer with bounded retry on rate limiting.
// Only 429 responses are retried; every other collaborator error propagates
// on the first attempt. Retry state is local to one call.
type CompletionClient struct {
	inner       Completer
	maxAttempts int
	baseDelay   time.Duration
	stepDelay   time.Duration
}

func NewCompletionClient(inner Completer, maxAttempts int, baseDelay, stepDelay time.Duration) *CompletionClient {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &CompletionClient{
		inner:       inner,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		stepDelay:   stepDelay,
	}
}

func (c *CompletionClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage) (string, error) {
	var rateErr *RateLimitError
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			// Backoff grows by a fixed step per attempt.
			delay := c.baseDelay + time.Duration(attempt-1)*c.stepDelay
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("completion retry aborted: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		reply, err := c.inner.Complete(ctx, cfg, messages)
		if err == nil {
			return reply, nil
		}
		if !errors.As(err, &rateErr) {
			return "", err
		}
	}
	return "", ErrRateLimitExceeded
}
