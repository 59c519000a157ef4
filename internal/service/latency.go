package service

import (
	"context"
	"math/rand/v2"
	"time"
)

// Latency returns how long a handler should wait before responding.
type Latency func() time.Duration

// UniformLatency draws a delay uniformly from [0, 1s).
func UniformLatency() time.Duration {
	return time.Duration(rand.Float64() * float64(time.Second))
}

// InverseUniformLatency draws a delay as 1s - U, U uniform in [0, 1s), so
// the result lies in (0, 1s].
func InverseUniformLatency() time.Duration {
	return time.Second - UniformLatency()
}

// NoLatency never waits.
func NoLatency() time.Duration {
	return 0
}

// wait blocks the calling goroutine for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
