package argspec

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	specio "github.com/dzonerzy/go-argspec/io"
	"github.com/dzonerzy/go-argspec/middleware"
)

func testProgram(t *testing.T) (*Program, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	p := NewProgram("convert", "Convert between formats", convertSchema(t)).
		WithIO(specio.New().WithOut(&out).WithErr(&errOut).WithIn(strings.NewReader("")).NoColor())
	return p, &out, &errOut
}

func TestProgram_Run(t *testing.T) {
	p, out, _ := testProgram(t)

	var got struct {
		tag, input, format string
		verbose            bool
		args               []string
	}
	p.Action(func(ctx *Context) error {
		got.tag, _ = ctx.Choice("input")
		got.input, _ = ctx.String("input")
		got.format, _ = ctx.String("input-format")
		got.verbose = ctx.Flag("verbose")
		got.args = ctx.Args()
		ctx.Logger().Info("converting %s", got.input)
		return nil
	})

	if err := p.Run(context.Background(), []string{"in.json", "-v", "-f", "yaml"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got.tag != "File" || got.input != "in.json" || got.format != "yaml" || !got.verbose {
		t.Errorf("unexpected action view %+v", got)
	}
	if len(got.args) != 1 || got.args[0] != "in.json" {
		t.Errorf("args = %q", got.args)
	}
	if out.String() != "converting in.json\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestProgram_ResolutionErrorIsReported(t *testing.T) {
	p, _, errOut := testProgram(t)
	p.ErrorHandler().SuggestFlags(true)

	called := false
	p.Action(func(*Context) error { called = true; return nil })

	err := p.Run(context.Background(), []string{"in.json", "--stdn"})
	if !errors.Is(err, ErrUnknownFlag) {
		t.Fatalf("expected unknown flag, got %v", err)
	}
	if called {
		t.Error("action must not run after a resolution error")
	}
	want := "Error: unknown flag: --stdn\n  Did you mean '--stdin'?\n"
	if errOut.String() != want {
		t.Errorf("stderr = %q, want %q", errOut.String(), want)
	}
	if code := p.ExitCodes().Resolve(err); code != 2 {
		t.Errorf("exit code = %d", code)
	}
}

func TestProgram_NoAction(t *testing.T) {
	p, _, _ := testProgram(t)
	if err := p.Run(context.Background(), []string{"--stdin"}); err != nil {
		t.Errorf("a program without action should succeed, got %v", err)
	}
}

func TestProgram_HooksAndMiddleware(t *testing.T) {
	p, _, _ := testProgram(t)

	var order []string
	trace := func(name string) middleware.Middleware {
		return func(next middleware.ActionFunc) middleware.ActionFunc {
			return func(ctx middleware.Context) error {
				order = append(order, name+">")
				err := next(ctx)
				order = append(order, "<"+name)
				return err
			}
		}
	}

	p.Use(trace("outer"), trace("inner")).
		Before(func(*Context) error { order = append(order, "before"); return nil }).
		After(func(*Context) error { order = append(order, "after"); return nil }).
		Action(func(*Context) error { order = append(order, "action"); return nil })

	if err := p.Run(context.Background(), []string{"--stdin"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"before", "outer>", "inner>", "action", "<inner", "<outer", "after"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestProgram_BeforeErrorSkipsAction(t *testing.T) {
	p, _, _ := testProgram(t)
	boom := errors.New("not ready")
	called := false
	p.Before(func(*Context) error { return boom }).
		Action(func(*Context) error { called = true; return nil })

	if err := p.Run(context.Background(), []string{"--stdin"}); !errors.Is(err, boom) || called {
		t.Errorf("err = %v, action called = %v", err, called)
	}
}

func TestProgram_AfterErrorDoesNotMaskAction(t *testing.T) {
	p, _, _ := testProgram(t)
	actionErr := errors.New("action failed")
	p.Action(func(*Context) error { return actionErr }).
		After(func(*Context) error { return errors.New("cleanup failed") })

	if err := p.Run(context.Background(), []string{"--stdin"}); !errors.Is(err, actionErr) {
		t.Errorf("err = %v", err)
	}

	p.Action(func(*Context) error { return nil })
	if err := p.Run(context.Background(), []string{"--stdin"}); err == nil || err.Error() != "cleanup failed" {
		t.Errorf("after error should surface when the action succeeded, got %v", err)
	}
}

func TestProgram_ExitRequest(t *testing.T) {
	p, _, _ := testProgram(t)
	cause := errors.New("nothing to convert")
	p.Action(func(ctx *Context) error {
		ctx.ExitWithError(cause, 5)
		if ctx.Err() == nil {
			t.Error("exit should cancel the context")
		}
		return nil
	})

	err := p.Run(context.Background(), []string{"--stdin"})
	var ee *ExitError
	if !errors.As(err, &ee) || ee.Code != 5 || !errors.Is(err, cause) {
		t.Fatalf("expected exit request, got %v", err)
	}
	if code := p.ExitCodes().Resolve(err); code != 5 {
		t.Errorf("exit code = %d", code)
	}
}

func TestProgram_ExitOnError(t *testing.T) {
	p, _, _ := testProgram(t)
	p.Action(func(ctx *Context) error {
		ctx.ExitOnError(nil)
		ctx.ExitOnError(&middleware.ValidationError{Field: "input", Message: "empty"})
		return nil
	})

	err := p.Run(context.Background(), []string{"--stdin"})
	if code := p.ExitCodes().Resolve(err); code != 3 {
		t.Errorf("exit code = %d (%v)", code, err)
	}
}

func TestProgram_RecoveryAndTimeout(t *testing.T) {
	p, _, _ := testProgram(t)
	p.Use(middleware.Recovery(middleware.WithStackTrace(false))).
		Action(func(*Context) error { panic("corrupt input") })

	err := p.Run(context.Background(), []string{"--stdin"})
	var rec *middleware.RecoveryError
	if !errors.As(err, &rec) || rec.Program != "convert" {
		t.Fatalf("expected recovery error, got %v", err)
	}

	p2, _, _ := testProgram(t)
	p2.Use(middleware.Timeout(20 * time.Millisecond)).
		Action(func(ctx *Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
				return nil
			}
		})
	err = p2.Run(context.Background(), []string{"--stdin"})
	var te *middleware.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if code := p2.ExitCodes().Resolve(err); code != 1 {
		t.Errorf("exit code = %d", code)
	}
}

func TestContext_Accessors(t *testing.T) {
	p, out, errOut := testProgram(t)
	p.Action(func(ctx *Context) error {
		if ctx.Program().Name() != "convert" || ctx.Result() == nil {
			t.Error("program and result should be reachable")
		}
		if c, ok := ctx.Group("output"); !ok || c.Tag != "File" || c.Value != "out.txt" {
			t.Errorf("output choice = %+v", c)
		}
		if v, ok := ctx.Value("output"); !ok || v != "out.txt" {
			t.Errorf("output = %v", v)
		}
		if _, ok := ctx.Int("output"); ok {
			t.Error("a string entry is not an int")
		}
		if _, ok := ctx.Duration("missing"); ok {
			t.Error("unknown names have no value")
		}
		ctx.Set("k", 1)
		if ctx.Get("k") != 1 || ctx.Get("nope") != nil {
			t.Error("metadata round trip")
		}
		_, _ = ctx.Stdout().Write([]byte("o"))
		_, _ = ctx.Stderr().Write([]byte("e"))
		if ctx.Stdin() == nil || ctx.IO() != p.IO() {
			t.Error("io should come from the program")
		}
		return nil
	})

	if err := p.Run(context.Background(), []string{"--stdin", "-o", "out.txt"}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "o" || errOut.String() != "e" {
		t.Errorf("stdout %q stderr %q", out.String(), errOut.String())
	}
}

func TestProgram_ParentCancel(t *testing.T) {
	p, _, _ := testProgram(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Action(func(c *Context) error { return c.Err() })

	if err := p.Run(ctx, []string{"--stdin"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}
