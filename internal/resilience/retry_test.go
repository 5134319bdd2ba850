package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps retry tests in the millisecond range.
func fastConfig() RetryConfig {
	return RetryConfig{
		Cooldown:       3 * time.Millisecond,
		InitialBackoff: time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoVal_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	got, err := DoVal(context.Background(), fastConfig(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestDoVal_FatalNeverRetries(t *testing.T) {
	calls := 0
	fatal := errors.New("invalid_request_error")

	_, err := DoVal(context.Background(), fastConfig(), func(ctx context.Context) (int, error) {
		calls++
		return 0, fatal
	})

	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDoVal_RateLimitUsesCooldown(t *testing.T) {
	var waits []time.Duration
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		waits = append(waits, wait)
	}

	calls := 0
	got, err := DoVal(context.Background(), cfg, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewRateLimitError(errors.New("too many requests"), 429)
		}
		return "recovered", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, []time.Duration{cfg.Cooldown, cfg.Cooldown}, waits)
}

func TestDoVal_OverloadBackoffDoubles(t *testing.T) {
	var waits []time.Duration
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		waits = append(waits, wait)
	}

	calls := 0
	_, err := DoVal(context.Background(), cfg, func(ctx context.Context) (int, error) {
		calls++
		if calls < 4 {
			return 0, NewOverloadError(errors.New("overloaded"), 529)
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{
		time.Millisecond,
		2 * time.Millisecond,
		4 * time.Millisecond,
	}, waits)
}

func TestDoVal_RateLimitDoesNotAdvanceOverloadSchedule(t *testing.T) {
	var waits []time.Duration
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		waits = append(waits, wait)
	}

	// overload, rate limit, overload: the second overload wait must be the
	// doubled step, not the tripled one.
	sequence := []error{
		NewOverloadError(errors.New("overloaded"), 529),
		NewRateLimitError(errors.New("quota"), 429),
		NewOverloadError(errors.New("overloaded"), 529),
		nil,
	}
	calls := 0
	_, err := DoVal(context.Background(), cfg, func(ctx context.Context) (int, error) {
		defer func() { calls++ }()
		return calls, sequence[calls]
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{
		time.Millisecond,
		cfg.Cooldown,
		2 * time.Millisecond,
	}, waits)
}

func TestDoVal_MaxBackoffCapsDelay(t *testing.T) {
	var waits []time.Duration
	cfg := fastConfig()
	cfg.MaxBackoff = 2 * time.Millisecond
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		waits = append(waits, wait)
	}

	calls := 0
	_, err := DoVal(context.Background(), cfg, func(ctx context.Context) (int, error) {
		calls++
		if calls < 5 {
			return 0, NewOverloadError(errors.New("overloaded"), 503)
		}
		return 1, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{
		time.Millisecond,
		2 * time.Millisecond,
		2 * time.Millisecond,
		2 * time.Millisecond,
	}, waits)
}

func TestDoVal_MaxAttemptsCapsRetries(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 3

	calls := 0
	transient := NewOverloadError(errors.New("overloaded"), 503)
	_, err := DoVal(context.Background(), cfg, func(ctx context.Context) (int, error) {
		calls++
		return 0, transient
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoVal_ContextCancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := fastConfig()
	cfg.Cooldown = time.Hour
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		cancel()
	}

	transient := NewRateLimitError(errors.New("quota"), 429)
	calls := 0
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (int, error) {
		calls++
		return 0, transient
	})

	require.ErrorIs(t, err, transient)
	assert.Equal(t, 1, calls)
}

func TestDoVal_CustomClassifier(t *testing.T) {
	cfg := fastConfig()
	cfg.Classify = func(err error) Class { return ClassFatal }

	calls := 0
	_, err := DoVal(context.Background(), cfg, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("overloaded") // would be transient under ClassOf
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_WrapsDoVal(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return NewOverloadError(errors.New("overloaded"), 529)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFromRetryConfig(t *testing.T) {
	cfg := FromRetryConfig(5, 30, 1, 16, 3.0, 0.25)

	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Cooldown)
	assert.Equal(t, time.Second, cfg.InitialBackoff)
	assert.Equal(t, 16*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 3.0, cfg.Multiplier)
	assert.Equal(t, 0.25, cfg.JitterFraction)
}
