package source

import (
	"context"
	"errors"
	"time"
)

// Guard races fn against deadline d. The caller observes a result within
// bounded time; on expiry the attempt is reported as ErrTimeout and the
// underlying operation is abandoned best-effort: the derived context is
// canceled, but fn is not guaranteed to stop running.
func Guard[T any](ctx context.Context, src Name, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	attemptCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	// Buffered so an abandoned fn can still deliver and exit.
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		val, err := fn(attemptCtx)
		done <- outcome{val: val, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) {
			return zero, &ErrTimeout{Source: src, Elapsed: time.Since(start)}
		}
		return out.val, out.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			// The surrounding request was canceled, not our deadline.
			return zero, ctx.Err()
		}
		return zero, &ErrTimeout{Source: src, Elapsed: time.Since(start)}
	}
}
