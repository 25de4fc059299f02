package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrCircuitOpen is returned while the breaker rejects calls after repeated failures.
var ErrCircuitOpen = errors.New("llm circuit breaker is open")

// GuardConfig tunes the rate limiter and circuit breaker around a Client.
type GuardConfig struct {
	RequestsPerMinute int           // 0 disables rate limiting
	Burst             int           // defaults to 1
	MinRequests       uint32        // requests observed before the breaker may trip
	FailureRatio      float64       // failure ratio that trips the breaker
	OpenTimeout       time.Duration // how long the breaker stays open
	Logger            *slog.Logger
}

// DefaultGuardConfig suits free-tier provider quotas.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		RequestsPerMinute: 10,
		Burst:             2,
		MinRequests:       3,
		FailureRatio:      0.6,
		OpenTimeout:       60 * time.Second,
	}
}

// Guard wraps a Client with a token-bucket rate limiter and a circuit breaker.
// It never retries; a failed call is reported to the caller as is.
type Guard struct {
	inner   Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuard wraps inner.
func NewGuard(inner Client, cfg GuardConfig) *Guard {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 3
	}
	if cfg.FailureRatio <= 0 {
		cfg.FailureRatio = 0.6
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burst)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// Cancellation says nothing about provider health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Guard{inner: inner, limiter: limiter, breaker: breaker}
}

// Generate waits for a rate-limit token, then runs the request through the breaker.
func (g *Guard) Generate(ctx context.Context, req Request) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.Generate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		return "", err
	}
	return out.(string), nil
}

// GetModel returns the wrapped client's model for a tier.
func (g *Guard) GetModel(tier ModelTier) string {
	return g.inner.GetModel(tier)
}

// Close closes the wrapped client.
func (g *Guard) Close() error {
	return g.inner.Close()
}

// State reports the breaker state ("closed", "half-open" or "open").
func (g *Guard) State() string {
	return g.breaker.State().String()
}
