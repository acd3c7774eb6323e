package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedCompleter struct {
	calls   int
	replies []string
	errs    []error
	waits   []time.Time
}

func (s *scriptedCompleter) Complete(_ context.Context, _ ChatConfig, _ []ChatMessage) (string, error) {
	s.waits = append(s.waits, time.Now())
	idx := s.calls
	s.calls++
	if idx >= len(s.errs) {
		idx = len(s.errs) - 1
	}
	return s.replies[idx], s.errs[idx]
}

func TestCompleteRetriesRateLimitThenSucceeds(t *testing.T) {
	inner := &scriptedCompleter{
		replies: []string{"", "hello"},
		errs:    []error{&RateLimitError{Detail: "slow down"}, nil},
	}
	client := NewCompletionClient(inner, 3, time.Millisecond, time.Millisecond)

	reply, err := client.Complete(context.Background(), ChatConfig{}, nil)
	require.NoError(t, err)
	require.Equal(t, "hello", reply)
	require.Equal(t, 2, inner.calls)
}

func TestCompleteExhaustsRetries(t *testing.T) {
	inner := &scriptedCompleter{
		replies: []string{"", "", ""},
		errs: []error{
			&RateLimitError{Detail: "1"},
			&RateLimitError{Detail: "2"},
			&RateLimitError{Detail: "3"},
		},
	}
	client := NewCompletionClient(inner, 3, 2*time.Millisecond, 2*time.Millisecond)

	start := time.Now()
	_, err := client.Complete(context.Background(), ChatConfig{}, nil)
	require.ErrorIs(t, err, ErrRateLimitExceeded)
	require.Equal(t, 3, inner.calls)

	// base + (base + step) of backoff must have elapsed.
	require.GreaterOrEqual(t, time.Since(start), 6*time.Millisecond)
}

func TestCompleteBackoffIncreases(t *testing.T) {
	inner := &scriptedCompleter{
		replies: []string{"", "", ""},
		errs: []error{
			&RateLimitError{},
			&RateLimitError{},
			&RateLimitError{},
		},
	}
	client := NewCompletionClient(inner, 3, 10*time.Millisecond, 20*time.Millisecond)

	_, err := client.Complete(context.Background(), ChatConfig{}, nil)
	require.ErrorIs(t, err, ErrRateLimitExceeded)
	require.Len(t, inner.waits, 3)

	firstGap := inner.waits[1].Sub(inner.waits[0])
	secondGap := inner.waits[2].Sub(inner.waits[1])
	require.GreaterOrEqual(t, firstGap, 10*time.Millisecond)
	require.GreaterOrEqual(t, secondGap, 30*time.Millisecond)
}

func TestCompleteDoesNotRetryOtherErrors(t *testing.T) {
	boom := errors.New("invalid api key")
	inner := &scriptedCompleter{
		replies: []string{""},
		errs:    []error{boom},
	}
	client := NewCompletionClient(inner, 3, time.Millisecond, time.Millisecond)

	_, err := client.Complete(context.Background(), ChatConfig{}, nil)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, inner.calls)
}

func TestCompleteHonorsContextCancellation(t *testing.T) {
	inner := &scriptedCompleter{
		replies: []string{""},
		errs:    []error{&RateLimitError{}},
	}
	client := NewCompletionClient(inner, 3, time.Hour, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, ChatConfig{}, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
