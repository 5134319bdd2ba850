// Package resilience implements the retry policy for external extraction
// calls: fixed cooldowns for rate-limit exhaustion, exponential backoff for
// service overload, immediate failure for everything else.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls the retry schedule for an external call.
type RetryConfig struct {
	// MaxAttempts caps total attempts including the first. Zero or negative
	// means retry without bound; callers that need a ceiling must set one or
	// cancel the context.
	MaxAttempts int

	// Cooldown is the fixed wait after a rate-limit failure. Rate-limit waits
	// do not advance the exponential schedule. Default: 60s.
	Cooldown time.Duration

	// InitialBackoff is the first overload delay. Default: 2s.
	InitialBackoff time.Duration

	// MaxBackoff caps overload delays. Zero or negative leaves them uncapped.
	MaxBackoff time.Duration

	// Multiplier scales the overload delay after each overload retry.
	// Default: 2.0.
	Multiplier float64

	// JitterFraction adds random jitter as a fraction of the overload delay
	// (0.0 = none, 0.5 = ±50%). Default: 0.
	JitterFraction float64

	// Classify buckets errors into retry classes. If nil, ClassOf is used.
	Classify func(err error) Class

	// OnRetry is called before each sleep with the attempt number, the
	// upcoming wait and the error.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// DefaultRetryConfig returns the policy the extraction pipeline ships with:
// unbounded attempts, 60s rate-limit cooldown, 2s overload backoff doubling
// without cap.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Cooldown:       60 * time.Second,
		InitialBackoff: 2 * time.Second,
		Multiplier:     2.0,
	}
}

// Do executes fn under cfg's retry policy. Context cancellation stops
// retries immediately with the last error.
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal executes fn under cfg's retry policy, preserving the value of the
// successful call. Rate-limit failures wait the fixed cooldown; overload
// failures walk the exponential schedule; fatal failures return at once.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = applyDefaults(cfg)
	classify := cfg.Classify
	if classify == nil {
		classify = ClassOf
	}

	var zero T
	overloads := 0
	for attempt := 1; ; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}

		if ctx.Err() != nil {
			return zero, err
		}

		class := classify(err)
		if class == ClassFatal {
			return zero, err
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return zero, err
		}

		var wait time.Duration
		switch class {
		case ClassRateLimit:
			wait = cfg.Cooldown
		case ClassOverload:
			wait = overloadBackoff(overloads, cfg)
			overloads++
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, wait, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 60 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 2 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.JitterFraction < 0 {
		cfg.JitterFraction = 0
	}
	return cfg
}

func overloadBackoff(retries int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(retries))
	if cfg.MaxBackoff > 0 && delay > float64(cfg.MaxBackoff) {
		delay = float64(cfg.MaxBackoff)
	}

	if cfg.JitterFraction > 0 {
		jitterRange := delay * cfg.JitterFraction
		delay += (rand.Float64()*2 - 1) * jitterRange
	}

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
