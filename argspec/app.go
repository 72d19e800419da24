package argspec

import (
	"context"
	"errors"
	"os"

	specio "github.com/dzonerzy/go-argspec/io"
	"github.com/dzonerzy/go-argspec/middleware"
)

// ActionFunc is the body of a program, run once the arguments resolved.
type ActionFunc func(ctx *Context) error

// Program ties a schema to an action: it resolves the arguments, reports
// resolution errors to the user, runs the action through the middleware chain
// and maps the outcome to an exit code.
//
//	prog := argspec.NewProgram("convert", "Convert between formats", reg).
//		Use(middleware.Recovery()).
//		Action(func(ctx *argspec.Context) error { ... })
//	prog.RunAndExit()
type Program struct {
	name        string
	description string
	reg         *Registry

	action     ActionFunc
	before     ActionFunc
	after      ActionFunc
	middleware []middleware.Middleware

	io           *specio.IOManager
	logger       *specio.Logger
	errorHandler *ErrorHandler
	exitCodes    *ExitCodeManager
}

// NewProgram creates a program over a built registry.
func NewProgram(name, description string, reg *Registry) *Program {
	io := specio.New()
	return &Program{
		name:         name,
		description:  description,
		reg:          reg,
		io:           io,
		logger:       specio.NewLogger(io).WithFormat(specio.LogFormatPlain),
		errorHandler: NewErrorHandler(),
		exitCodes:    NewExitCodeManager(),
	}
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// Description returns the program description.
func (p *Program) Description() string { return p.description }

// Registry returns the schema the program resolves against.
func (p *Program) Registry() *Registry { return p.reg }

// Action sets the action to run after a successful resolution.
func (p *Program) Action(fn ActionFunc) *Program {
	p.action = fn
	return p
}

// Before sets a hook that runs before the middleware-wrapped action.
func (p *Program) Before(fn ActionFunc) *Program {
	p.before = fn
	return p
}

// After sets a hook that runs after the action, even when it failed.
func (p *Program) After(fn ActionFunc) *Program {
	p.after = fn
	return p
}

// Use appends middleware; the first one added runs outermost.
func (p *Program) Use(mw ...middleware.Middleware) *Program {
	p.middleware = append(p.middleware, mw...)
	return p
}

// WithIO replaces the IO manager, and rebinds the logger to it.
func (p *Program) WithIO(io *specio.IOManager) *Program {
	p.io = io
	p.logger = specio.NewLogger(io).WithFormat(specio.LogFormatPlain)
	return p
}

// IO returns the IO manager.
func (p *Program) IO() *specio.IOManager { return p.io }

// Logger returns the logger used for diagnostics.
func (p *Program) Logger() *specio.Logger { return p.logger }

// ErrorHandler returns the handler that renders resolution errors.
func (p *Program) ErrorHandler() *ErrorHandler { return p.errorHandler }

// ExitCodes returns the exit-code manager. Use it to override defaults or
// register custom mappings.
func (p *Program) ExitCodes() *ExitCodeManager { return p.exitCodes }

// Run resolves args (program name already stripped) and runs the action.
// A resolution error is printed through the error handler and returned
// unchanged, so callers can still match it with errors.As.
func (p *Program) Run(ctx context.Context, args []string) error {
	result, err := p.reg.Resolve(args)
	if err != nil {
		p.reportError(err)
		return err
	}
	if p.action == nil {
		return nil
	}

	execCtx := newContext(ctx, p, result)
	defer execCtx.Cancel()

	if p.before != nil {
		if err := p.before(execCtx); err != nil {
			return err
		}
	}

	actionErr := p.wrapAction(p.action)(execCtx)

	if ee := execCtx.exitRequest(); ee != nil {
		actionErr = ee
	}

	if p.after != nil {
		if err := p.after(execCtx); err != nil && actionErr == nil {
			actionErr = err
		}
	}
	return actionErr
}

// RunAndGetExitCode runs with os.Args and maps the outcome to an exit code.
func (p *Program) RunAndGetExitCode(ctx context.Context) int {
	return p.exitCodes.Resolve(p.Run(ctx, os.Args[1:]))
}

// RunAndExit runs with os.Args and terminates the process with the mapped
// exit code.
func (p *Program) RunAndExit() {
	os.Exit(p.RunAndGetExitCode(context.Background()))
}

func (p *Program) wrapAction(action ActionFunc) ActionFunc {
	if len(p.middleware) == 0 {
		return action
	}
	wrapped := middleware.Chain(p.middleware...).Apply(func(ctx middleware.Context) error {
		c, ok := ctx.(*Context)
		if !ok {
			return errors.New("argspec: middleware replaced the context")
		}
		return action(c)
	})
	return func(ctx *Context) error { return wrapped(ctx) }
}

func (p *Program) reportError(err error) {
	p.logger.Error("%s", p.errorHandler.Format(err, p.reg))
}
