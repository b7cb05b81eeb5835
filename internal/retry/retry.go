package retry

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrExhausted is recorded on a Result when every attempt failed.
var ErrExhausted = goerr.New("all attempts failed")

type Decision int

const (
	Done Decision = iota
	Retry
	Fallback
)

func (d Decision) String() string {
	switch d {
	case Done:
		return "done"
	case Retry:
		return "retry"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Decide chooses the next step after an attempt. A nil lastErr means the
// attempt succeeded.
func Decide(attemptsRemaining int, lastErr error) Decision {
	if lastErr == nil {
		return Done
	}
	if attemptsRemaining > 0 {
		return Retry
	}
	return Fallback
}

// Result carries the produced value and how it was obtained.
type Result[T any] struct {
	Value    T
	Attempts int
	Fallback bool
	// Err is the last producer error when Fallback is set, or the fallback's
	// own error if that failed too.
	Err error
}

// WithFallback calls produce up to maxAttempts+1 times and returns the first
// success. When attempts run out, or ctx is done, fallback supplies the value.
func WithFallback[T any](
	ctx context.Context,
	maxAttempts int,
	produce func(ctx context.Context, attempt int) (T, error),
	fallback func(ctx context.Context, lastErr error) (T, error),
) Result[T] {
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	var res Result[T]
	remaining := maxAttempts + 1
	for {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}
		remaining--
		res.Attempts++
		v, err := produce(ctx, res.Attempts)
		switch Decide(remaining, err) {
		case Done:
			res.Value = v
			res.Err = nil
			return res
		case Retry:
			res.Err = err
			continue
		}
		res.Err = err
		break
	}

	res.Fallback = true
	if res.Err == nil {
		res.Err = ErrExhausted
	}
	v, err := fallback(ctx, res.Err)
	res.Value = v
	if err != nil {
		res.Err = goerr.Wrap(err, "fallback failed")
	}
	return res
}
