package middleware

import (
	"context"
	"time"
)

// Timeout enforces a deadline on the action. The action runs in its own
// goroutine; on expiry the context is canceled and a *TimeoutError returned.
// ctx.Context() carries no deadline; actions observe the timeout only as
// cancellation of ctx.Context() and must watch Done() to stop early.
func Timeout(duration time.Duration) Middleware {
	return TimeoutWithCallback(duration, nil)
}

// TimeoutWithDefault uses the DefaultTimeout of the configuration.
func TimeoutWithDefault(options ...MiddlewareOption) Middleware {
	return Timeout(newConfig(options).DefaultTimeout)
}

// TimeoutWithCallback is Timeout with onTimeout called after the deadline hits.
func TimeoutWithCallback(duration time.Duration, onTimeout func(program string, duration time.Duration)) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			timeoutCtx, cancel := context.WithTimeout(ctx.Context(), duration)
			defer cancel()

			resultChan := make(chan error, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						resultChan <- &RecoveryError{Panic: r, Program: programName(ctx)}
					}
				}()
				resultChan <- next(ctx)
			}()

			select {
			case err := <-resultChan:
				return err
			case <-timeoutCtx.Done():
				if ctx.Context().Err() != nil {
					// canceled from outside, not our deadline
					return context.Canceled
				}
				program := programName(ctx)
				if onTimeout != nil {
					onTimeout(program, duration)
				}
				ctx.Cancel()
				return &TimeoutError{Duration: duration, Program: program}
			}
		}
	}
}

// DynamicTimeout computes the duration from the context at run time. A
// duration <= 0 runs the action without a deadline.
func DynamicTimeout(timeoutFunc func(ctx Context) time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			duration := timeoutFunc(ctx)
			if duration <= 0 {
				return next(ctx)
			}
			return Timeout(duration)(next)(ctx)
		}
	}
}

// TimeoutFromFlag reads the deadline from a duration-valued entry, falling
// back to defaultTimeout when the entry did not resolve.
func TimeoutFromFlag(name string, defaultTimeout time.Duration) Middleware {
	return DynamicTimeout(func(ctx Context) time.Duration {
		if d, ok := ctx.Duration(name); ok {
			return d
		}
		return defaultTimeout
	})
}
