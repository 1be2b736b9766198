package pacer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	StrategyFixed       = "fixed"
	StrategyTokenBucket = "token_bucket"
	StrategyNone        = "none"
)

// Pacer blocks between provider requests.
type Pacer interface {
	Wait(ctx context.Context) error
}

// New returns the pacer for strategy. interval is the fixed delay, or the
// refill period of one token for the token bucket.
func New(strategy string, interval time.Duration, burst int) (Pacer, error) {
	switch strategy {
	case StrategyFixed, "":
		return FixedDelay{Interval: interval}, nil
	case StrategyTokenBucket:
		if interval <= 0 {
			return nil, fmt.Errorf("token bucket needs a positive interval")
		}
		return NewTokenBucket(float64(burst), float64(time.Second)/float64(interval)), nil
	case StrategyNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown pacing strategy %q", strategy)
	}
}

// FixedDelay sleeps for Interval on every call.
type FixedDelay struct {
	Interval time.Duration
}

func (p FixedDelay) Wait(ctx context.Context) error {
	return sleep(ctx, p.Interval)
}

// None never waits.
type None struct{}

func (None) Wait(ctx context.Context) error { return ctx.Err() }

// TokenBucket allows bursts of up to capacity requests, refilled at
// refillRate tokens per second.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64
	last       time.Time
}

// NewTokenBucket creates a full bucket.
func NewTokenBucket(capacity, refillPerSec float64) *TokenBucket {
	if capacity < 1 {
		capacity = 1
	}
	return &TokenBucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: time.Now()}
}

// Wait consumes one token, sleeping until one is available.
func (b *TokenBucket) Wait(ctx context.Context) error {
	for {
		wait := b.take(time.Now())
		if wait <= 0 {
			return nil
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// take consumes a token and returns 0, or returns how long until one is available.
func (b *TokenBucket) take(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return 0
	}
	return time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
