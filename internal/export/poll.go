package export

import (
	"context"
	"time"
)

// Polling defaults for waiting on rendered page fragments
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultPollTimeout  = 2 * time.Second
)

// Condition checks once whether waiting is over. A non-nil error stops polling.
type Condition func(ctx context.Context) (done bool, err error)

// Poll checks cond immediately and then every interval until it reports done,
// returns an error, timeout elapses, or ctx is cancelled. The context handed to
// cond expires with the poll window.
//
// Cancellation of ctx returns ctx.Err(); running out of time returns
// ErrPollTimeout.
func Poll(ctx context.Context, interval, timeout time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := cond(waitCtx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if waitCtx.Err() != nil {
			if done && err == nil {
				return nil
			}
			return ErrPollTimeout
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-waitCtx.Done():
			return ErrPollTimeout
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			if waitCtx.Err() != nil {
				return ErrPollTimeout
			}
		}
	}
}
