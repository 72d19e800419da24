// Package middleware wraps program actions with logging, panic recovery,
// timeouts and validation.
package middleware

import (
	"context"
	"fmt"
	"io"
	"time"
)

// This package defines middleware against interfaces so argspec can import it
// without a cycle. *argspec.Context satisfies Context.

// Context is the runtime view middleware gets of a resolved invocation.
type Context interface {
	// Context returns the underlying Go context.
	Context() context.Context

	// Done is closed when the invocation is canceled or times out.
	Done() <-chan struct{}

	// Cancel requests cancellation. It is idempotent.
	Cancel()

	// Args returns the loose values in input order. Treat as read-only.
	Args() []string

	// Set stores metadata for later middleware. Namespace keys
	// (e.g. "logger.invocation_id").
	Set(key string, value any)

	// Get retrieves metadata stored with Set, or nil.
	Get(key string) any

	// Value returns the resolved value of an entry by long name.
	Value(name string) (any, bool)

	// Flag reports whether a boolean flag was given.
	Flag(name string) bool

	// String returns a string-valued entry and whether it resolved.
	String(name string) (string, bool)

	// Duration returns a duration-valued entry and whether it resolved.
	Duration(name string) (time.Duration, bool)

	// Choice returns the tag chosen for a group.
	Choice(group string) (tag string, ok bool)

	// Program describes the running program for logs and errors.
	Program() Program
}

// Program is satisfied by *argspec.Program.
type Program interface {
	Name() string
	Description() string
}

// ActionFunc represents a program action.
type ActionFunc func(ctx Context) error

// Middleware defines the middleware function signature
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain represents a chain of middleware functions
type MiddlewareChain []Middleware

// Apply wraps action so the first middleware in the chain runs outermost.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	out = append(out, chain...)
	return append(out, middleware...)
}

// Chain creates a chain preserving order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// TimeoutError represents a timeout error
type TimeoutError struct {
	Duration time.Duration
	Program  string
}

func (e *TimeoutError) Error() string {
	return "'" + e.Program + "' timed out after " + e.Duration.String()
}

// RecoveryError represents a panic recovery
type RecoveryError struct {
	Panic   any
	Program string
	Stack   []byte
}

func (e *RecoveryError) Error() string {
	return "'" + e.Program + "' panicked: " + toString(e.Panic)
}

// MiddlewareConfig contains configuration for middleware behavior
type MiddlewareConfig struct {
	LogLevel         LogLevel
	LogOutput        LogOutput
	LogFormat        LogFormat
	Writer           io.Writer // overrides LogOutput when set
	IncludeArgs      bool
	PrintStack       bool
	StackSize        int
	DefaultTimeout   time.Duration
	CustomValidators map[string]ValidatorFunc
}

// LogLevel represents logging levels
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// LogOutput represents log output destinations
type LogOutput int

const (
	LogOutputStderr LogOutput = iota
	LogOutputStdout
	LogOutputNone
)

// LogFormat represents log formats
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// MiddlewareOption mutates a MiddlewareConfig.
type MiddlewareOption func(config *MiddlewareConfig)

// DefaultConfig returns the configuration every middleware starts from.
func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:         LogLevelInfo,
		LogOutput:        LogOutputStderr,
		LogFormat:        LogFormatText,
		IncludeArgs:      true,
		PrintStack:       true,
		StackSize:        4096,
		DefaultTimeout:   30 * time.Second,
		CustomValidators: make(map[string]ValidatorFunc),
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogLevel = level
	}
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFormat = format
	}
}

// WithWriter sends log output to w instead of stderr/stdout.
func WithWriter(w io.Writer) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.Writer = w
	}
}

func WithTimeout(timeout time.Duration) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.DefaultTimeout = timeout
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}

func programName(ctx Context) string {
	p := ctx.Program()
	if p == nil {
		return "unknown"
	}
	return p.Name()
}
