package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	readAttempts = 3
	readBackoff  = 100 * time.Millisecond
)

// withReadRetry runs fn up to readAttempts times with a short fixed backoff.
// Only idempotent read paths go through here; writes surface their first
// error. Not-found is a definitive answer, not a transient failure.
func withReadRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < readAttempts; attempt++ {
		if err = fn(); err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readBackoff):
		}
	}
	return err
}
