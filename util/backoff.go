package util

import (
	"context"
	"time"
)

// Modified from https://blog.gopheracademy.com/advent-2014/backoff/

type BackoffPolicy struct {
	Durations []time.Duration
}

// BulkRetryPolicy is the wait before each retry of a failed bulk request
var BulkRetryPolicy = BackoffPolicy{
	[]time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		500 * time.Millisecond,
		1000 * time.Millisecond,
	},
}

// StreamReconnectPolicy is used by feeds re-establishing a lost source
var StreamReconnectPolicy = BackoffPolicy{
	[]time.Duration{
		1 * time.Second,
		3 * time.Second,
		10 * time.Second,
		30 * time.Second,
	},
}

// Duration returns the wait for the nth retry; the last entry repeats
func (b BackoffPolicy) Duration(n int) time.Duration {
	if len(b.Durations) == 0 {
		return 0
	}

	if n >= len(b.Durations) {
		n = len(b.Durations) - 1
	}

	if n < 0 {
		n = 0
	}

	return b.Durations[n]
}

// Wait sleeps for the nth backoff or until ctx is done
func (b BackoffPolicy) Wait(ctx context.Context, n int) error {
	d := b.Duration(n)
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
