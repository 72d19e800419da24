package argspec

import (
	"context"
	stdio "io"
	"sync"
	"time"

	specio "github.com/dzonerzy/go-argspec/io"
	"github.com/dzonerzy/go-argspec/middleware"
)

const exitRequestKey = "__exit_error__"

// Context is what an action sees: the resolved arguments, the program's IO
// and a cancellable Go context. It satisfies middleware.Context.
type Context struct {
	program *Program
	result  *ParsedResult
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	metadata map[string]any
}

func newContext(parent context.Context, p *Program, result *ParsedResult) *Context {
	ctx, cancel := context.WithCancel(parent)
	return &Context{
		program:  p,
		result:   result,
		ctx:      ctx,
		cancel:   cancel,
		metadata: make(map[string]any),
	}
}

// Context returns the underlying Go context for cancellation/timeouts
func (c *Context) Context() context.Context { return c.ctx }

// Done returns a channel that's closed when the run is canceled
func (c *Context) Done() <-chan struct{} { return c.ctx.Done() }

// Err returns a non-nil error value after Done is closed
func (c *Context) Err() error { return c.ctx.Err() }

// Cancel cancels the context
func (c *Context) Cancel() { c.cancel() }

// Result returns the full resolution result.
func (c *Context) Result() *ParsedResult { return c.result }

// Args returns the loose values in input order.
func (c *Context) Args() []string { return c.result.Args() }

// Value returns the resolved value of an entry.
func (c *Context) Value(name string) (any, bool) { return c.result.Value(name) }

// Flag reports whether a boolean flag was given.
func (c *Context) Flag(name string) bool { return c.result.Flag(name) }

// String returns a string-valued entry.
func (c *Context) String(name string) (string, bool) { return Get[string](c.result, name) }

// Int returns an int-valued entry.
func (c *Context) Int(name string) (int, bool) { return Get[int](c.result, name) }

// Duration returns a duration-valued entry.
func (c *Context) Duration(name string) (time.Duration, bool) {
	return Get[time.Duration](c.result, name)
}

// Choice returns the tag chosen for a group.
func (c *Context) Choice(group string) (string, bool) {
	choice, ok := c.result.Group(group)
	return choice.Tag, ok
}

// Group returns the full chosen alternative of a group.
func (c *Context) Group(group string) (Choice, bool) { return c.result.Group(group) }

// Program returns the running program.
func (c *Context) Program() middleware.Program { return c.program }

// Set stores a key-value pair in the context metadata
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[key] = value
}

// Get retrieves a value from the context metadata
func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metadata[key]
}

// Exit requests a specific exit code and cancels the run. The program maps
// it at the end of Run.
func (c *Context) Exit(code int) {
	c.ExitWithError(nil, code)
}

// ExitWithError is Exit carrying the error to report.
func (c *Context) ExitWithError(err error, code int) {
	c.Set(exitRequestKey, &ExitError{Code: code, Err: err})
	c.Cancel()
}

// ExitOnError exits with the code the program's ExitCodeManager maps err to.
func (c *Context) ExitOnError(err error) {
	if err == nil {
		return
	}
	c.ExitWithError(err, c.program.ExitCodes().Resolve(err))
}

func (c *Context) exitRequest() *ExitError {
	ee, _ := c.Get(exitRequestKey).(*ExitError)
	return ee
}

// IO accessors
func (c *Context) IO() *specio.IOManager  { return c.program.IO() }
func (c *Context) Logger() *specio.Logger { return c.program.Logger() }
func (c *Context) Stdout() stdio.Writer   { return c.program.IO().Out() }
func (c *Context) Stderr() stdio.Writer   { return c.program.IO().Err() }
func (c *Context) Stdin() stdio.Reader    { return c.program.IO().In() }
