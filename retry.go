package llmprovider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxAttempts is the attempt budget used when none is configured.
const DefaultMaxAttempts = 5

// BackoffFunc returns how long to wait after the 0-based attempt failed.
type BackoffFunc func(attempt int) time.Duration

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ExponentialBackoff waits 2^attempt + 1 seconds: 2s, 3s, 5s, 9s, 17s, ...
func ExponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Duration((1<<attempt)+1) * time.Second
}

// Sleep waits for d, returning early with ctx.Err() if ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Caller invokes a remote call and retries it with exponential backoff while
// the failure is a rate limit. Any other failure is returned immediately as a
// *NonRetriableError; running out of attempts yields *ExhaustedRetriesError.
//
// A Caller holds no mutable state and is safe to share.
type Caller struct {
	maxAttempts int
	backoff     BackoffFunc
	sleep       SleepFunc
	classify    func(error) bool
	logger      *zap.Logger
}

// CallerOption configures a Caller.
type CallerOption func(*Caller)

// WithMaxAttempts sets the attempt budget. Values below 1 mean a single attempt.
func WithMaxAttempts(n int) CallerOption {
	return func(c *Caller) {
		c.maxAttempts = n
	}
}

// WithBackoff replaces ExponentialBackoff.
func WithBackoff(fn BackoffFunc) CallerOption {
	return func(c *Caller) {
		c.backoff = fn
	}
}

// WithSleep replaces the real timer, mostly for tests.
func WithSleep(fn SleepFunc) CallerOption {
	return func(c *Caller) {
		c.sleep = fn
	}
}

// WithClassifier replaces IsRateLimited as the retriable check.
func WithClassifier(fn func(error) bool) CallerOption {
	return func(c *Caller) {
		c.classify = fn
	}
}

// WithLogger sets the logger used for retry progress lines.
func WithLogger(logger *zap.Logger) CallerOption {
	return func(c *Caller) {
		c.logger = logger
	}
}

// NewCaller creates a Caller with DefaultMaxAttempts, ExponentialBackoff,
// IsRateLimited classification and a no-op logger, then applies opts.
func NewCaller(opts ...CallerOption) *Caller {
	c := &Caller{
		maxAttempts: DefaultMaxAttempts,
		backoff:     ExponentialBackoff,
		sleep:       Sleep,
		classify:    IsRateLimited,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// MaxAttempts returns the configured attempt budget.
func (c *Caller) MaxAttempts() int {
	return c.maxAttempts
}

// Generate sends req to p, retrying on rate limits.
func (c *Caller) Generate(ctx context.Context, p Provider, req *GenerateRequest) (*GenerateResponse, error) {
	return Do(ctx, c, func(ctx context.Context) (*GenerateResponse, error) {
		return p.GenerateResponse(ctx, req)
	})
}

// Do runs fn up to c.MaxAttempts() times.
//
// A successful attempt returns immediately. A retriable failure on attempt i
// waits c.backoff(i) before the next attempt, including after the final one,
// and then *ExhaustedRetriesError is returned. A non-retriable failure is
// returned at once as *NonRetriableError.
func Do[T any](ctx context.Context, c *Caller, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < c.maxAttempts; i++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		if !c.classify(err) {
			c.logger.Warn("Non-retriable error",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			return zero, &NonRetriableError{Attempt: i, Err: err}
		}

		lastErr = err
		wait := c.backoff(i)
		c.logger.Info(
			fmt.Sprintf("[Retry %d/%d] Rate limit hit. Waiting %d seconds...", i+1, c.maxAttempts, int(wait/time.Second)),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", c.maxAttempts),
			zap.Duration("wait", wait),
		)

		if err := c.sleep(ctx, wait); err != nil {
			return zero, fmt.Errorf("retry wait interrupted: %w", err)
		}
	}

	return zero, &ExhaustedRetriesError{Attempts: c.maxAttempts, Last: lastErr}
}
