package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultTimeout  = 15 * time.Second
	DefaultInterval = 250 * time.Millisecond
)

// ErrTimeout matches every *TimeoutError via errors.Is.
var ErrTimeout = errors.New("timed out")

// TimeoutError is returned when a condition did not hold before the deadline.
type TimeoutError struct {
	Condition string
	After     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.After, e.Condition)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Options bound a single wait.
type Options struct {
	Timeout  time.Duration
	Interval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}

// Condition reports whether the awaited state holds. A non-nil error aborts the wait.
type Condition func(ctx context.Context) (bool, error)

var errNotReady = errors.New("condition not met")

// Until polls cond every opts.Interval until it holds, it fails, opts.Timeout
// elapses (*TimeoutError) or ctx is done (ctx.Err()). cond runs once immediately.
func Until(ctx context.Context, opts Options, name string, cond Condition) error {
	opts = opts.withDefaults()

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	policy := backoff.WithContext(backoff.NewConstantBackOff(opts.Interval), waitCtx)

	err := backoff.Retry(func() error {
		ok, err := cond(waitCtx)
		if err != nil {
			if waitCtx.Err() != nil {
				return backoff.Permanent(waitCtx.Err())
			}
			return backoff.Permanent(err)
		}
		if !ok {
			return errNotReady
		}
		return nil
	}, policy)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, errNotReady) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Condition: name, After: opts.Timeout}
	}
	return err
}

// Stable polls read until two consecutive readings are equal and returns that value.
// On timeout the last reading is returned together with the *TimeoutError.
func Stable(ctx context.Context, opts Options, name string, read func(ctx context.Context) (int, error)) (int, error) {
	last, have := 0, false
	err := Until(ctx, opts, name, func(ctx context.Context) (bool, error) {
		v, err := read(ctx)
		if err != nil {
			return false, err
		}
		settled := have && v == last
		last, have = v, true
		return settled, nil
	})
	return last, err
}
