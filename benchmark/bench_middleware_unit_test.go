//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"context"
	"testing"
	"time"

	mw "github.com/dzonerzy/go-argspec/middleware"
)

// Minimal bench context implementing middleware.Context
type benchCtx struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newBenchCtx() *benchCtx {
	ctx, cancel := context.WithCancel(context.Background())
	return &benchCtx{ctx: ctx, cancel: cancel}
}

func (b *benchCtx) Context() context.Context                { return b.ctx }
func (b *benchCtx) Done() <-chan struct{}                   { return b.ctx.Done() }
func (b *benchCtx) Cancel()                                 { b.cancel() }
func (b *benchCtx) Args() []string                          { return nil }
func (b *benchCtx) Set(_ string, _ any)                     {}
func (b *benchCtx) Get(_ string) any                        { return nil }
func (b *benchCtx) Value(_ string) (any, bool)              { return nil, false }
func (b *benchCtx) Flag(_ string) bool                      { return false }
func (b *benchCtx) String(_ string) (string, bool)          { return "", false }
func (b *benchCtx) Duration(_ string) (time.Duration, bool) { return 0, false }
func (b *benchCtx) Choice(_ string) (string, bool)          { return "", false }

// Program name is used by middleware for messages; provide a stub
type benchProgram struct{}

func (benchProgram) Name() string        { return "bench" }
func (benchProgram) Description() string { return "" }
func (b *benchCtx) Program() mw.Program  { return benchProgram{} }

var noop = func(_ mw.Context) error { return nil }

func BenchmarkMW_SilentLogger(b *testing.B) {
	action := mw.SilentLogger()(noop)
	ctx := newBenchCtx()
	b.ReportAllocs()
	for b.Loop() {
		_ = action(ctx)
	}
}

func BenchmarkMW_LogLevelNone(b *testing.B) {
	action := mw.Logger(mw.WithLogLevel(mw.LogLevelNone))(noop)
	ctx := newBenchCtx()
	b.ReportAllocs()
	for b.Loop() {
		_ = action(ctx)
	}
}

func BenchmarkMW_Recovery_NoStack(b *testing.B) {
	action := mw.Recovery(mw.WithStackTrace(false))(noop)
	ctx := newBenchCtx()
	b.ReportAllocs()
	for b.Loop() {
		_ = action(ctx)
	}
}

func BenchmarkMW_Timeout_10ms(b *testing.B) {
	action := mw.Timeout(10 * time.Millisecond)(noop)
	ctx := newBenchCtx()
	b.ReportAllocs()
	for b.Loop() {
		// The action returns immediately; timeout path won't trigger
		_ = action(ctx)
	}
}

func BenchmarkMW_Validate(b *testing.B) {
	action := mw.Validate(mw.Custom("noop", func(mw.Context) error { return nil }))(noop)
	ctx := newBenchCtx()
	b.ReportAllocs()
	for b.Loop() {
		_ = action(ctx)
	}
}

func BenchmarkMW_Chain_NoTimeout(b *testing.B) {
	action := mw.Chain(mw.SilentLogger(), mw.Recovery(mw.WithStackTrace(false))).Apply(noop)
	ctx := newBenchCtx()
	b.ReportAllocs()
	for b.Loop() {
		_ = action(ctx)
	}
}

func BenchmarkMW_Chain_Timeout(b *testing.B) {
	chain := mw.Chain(mw.SilentLogger(), mw.Recovery(mw.WithStackTrace(false)), mw.Timeout(10*time.Millisecond))
	action := chain.Apply(noop)
	ctx := newBenchCtx()
	b.ReportAllocs()
	for b.Loop() {
		_ = action(ctx)
	}
}
