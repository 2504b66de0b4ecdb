package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// verdict is what the retry loop does after a failed attempt.
type verdict int

const (
	giveUp verdict = iota
	retryAgain
	// retryOnce is for malformed structured output. A second bad reply
	// ends the loop.
	retryOnce
)

// classify sorts an attempt error. Anything not known to be permanent is
// treated as transient, including plain network errors.
func classify(err error) verdict {
	var (
		maxTok  *ErrMaxTokensExceeded
		auth    *ErrAuth
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &maxTok), errors.As(err, &auth):
		return giveUp
	case errors.As(err, &invalid):
		return retryOnce
	default:
		return retryAgain
	}
}

// RetryProvider re-issues failed requests with capped exponential backoff.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig

	// sleep waits d or until ctx is done. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, cfg: cfg, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	usedOnce := false

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if usedOnce {
				return nil, err
			}
			usedOnce = true
		}

		if attempt == attempts-1 {
			break
		}
		if serr := r.sleep(ctx, r.delay(attempt, err)); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// delay is the wait before the attempt after attempt. A rate limit with a
// Retry-After hint is honoured exactly.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	base := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	base = math.Min(base, float64(r.cfg.MaxWait))
	jittered := base * (0.8 + 0.4*rand.Float64())
	return time.Duration(math.Max(jittered, 0))
}

// TimeoutProvider puts one deadline over a whole Generate call, retries
// included.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout returns p unchanged for a non-positive timeout.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
