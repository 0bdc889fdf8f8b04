package utils

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times, doubling the delay between tries from
// initial up to max. The last error is returned once attempts are exhausted;
// a cancelled context cuts the wait short.
func Retry(ctx context.Context, attempts int, initial, max time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	delay := initial
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			if delay < max {
				delay *= 2
				if delay > max {
					delay = max
				}
			}
		}

		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
