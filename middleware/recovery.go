package middleware

import (
	"fmt"
	"os"
	"runtime"
)

// Recovery turns a panic in the action into a *RecoveryError.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					recoveryErr := &RecoveryError{
						Panic:   r,
						Program: programName(ctx),
						Stack:   captureStack(config),
					}
					if config.PrintStack && len(recoveryErr.Stack) > 0 {
						fmt.Fprintf(os.Stderr, "PANIC in '%s': %v\n", recoveryErr.Program, r)
						fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", recoveryErr.Stack)
					}
					err = recoveryErr
				}
			}()
			return next(ctx)
		}
	}
}

// RecoveryWithHandler lets handler decide which error a panic becomes.
func RecoveryWithHandler(
	handler func(panicVal any, program string, stack []byte) error,
	options ...MiddlewareOption,
) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = handler(r, programName(ctx), captureStack(config))
				}
			}()
			return next(ctx)
		}
	}
}

// RecoveryToError converts panics to errors without printing stack traces.
func RecoveryToError() Middleware {
	return Recovery(WithStackTrace(false))
}

// SafeRecovery always captures the stack but never prints it; the stack and
// panic value are stored in the context metadata for later middleware.
func SafeRecovery() Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, 4096)
					stack = stack[:runtime.Stack(stack, false)]

					err = &RecoveryError{Panic: r, Program: programName(ctx), Stack: stack}
					ctx.Set("panic_stack", string(stack))
					ctx.Set("panic_value", r)
				}
			}()
			return next(ctx)
		}
	}
}

func captureStack(config *MiddlewareConfig) []byte {
	if !config.PrintStack {
		return nil
	}
	stack := make([]byte, config.StackSize)
	return stack[:runtime.Stack(stack, false)]
}
