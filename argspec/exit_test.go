package argspec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dzonerzy/go-argspec/middleware"
)

type quotaError struct{ limit int }

func (e *quotaError) Error() string { return fmt.Sprintf("quota of %d exceeded", e.limit) }

func TestExitCodeManager_Defaults(t *testing.T) {
	m := NewExitCodeManager()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"unknown flag", &ResolutionError{Kind: ErrUnknownFlag}, 2},
		{"missing group", &ResolutionError{Kind: ErrMissingGroup}, 2},
		{"conflicting group", &ResolutionError{Kind: ErrConflictingGroup}, 2},
		{"invalid value", &ResolutionError{Kind: ErrInvalidValue}, 3},
		{"wrapped invalid value", fmt.Errorf("run: %w", &ResolutionError{Kind: ErrInvalidValue}), 3},
		{"schema error", &SchemaError{Kind: ErrInvalidSchema}, 1},
		{"validation", &middleware.ValidationError{Field: "input"}, 3},
		{"timeout", &middleware.TimeoutError{}, 1},
		{"panic", &middleware.RecoveryError{Panic: "x"}, 1},
		{"exit request", &ExitError{Code: 42}, 42},
		{"exit request wins over kind", &ExitError{Code: 7, Err: &ResolutionError{Kind: ErrInvalidValue}}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Resolve(tt.err); got != tt.want {
				t.Errorf("Resolve(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeManager_Overrides(t *testing.T) {
	m := NewExitCodeManager().
		Default(ExitCodeDefaults{Success: 0, GeneralError: 10, MisusageError: 64, ValidationError: 65}).
		Define(ErrMissingGroup, 70).
		DefineError(&quotaError{}, 75)

	if got := m.Resolve(&ResolutionError{Kind: ErrUnknownFlag}); got != 64 {
		t.Errorf("misusage = %d", got)
	}
	if got := m.Resolve(&ResolutionError{Kind: ErrMissingGroup}); got != 70 {
		t.Errorf("kind override = %d", got)
	}
	if got := m.Resolve(&ResolutionError{Kind: ErrInvalidValue}); got != 65 {
		t.Errorf("validation = %d", got)
	}
	if got := m.Resolve(fmt.Errorf("upload: %w", &quotaError{limit: 3})); got != 75 {
		t.Errorf("type mapping = %d", got)
	}
	if got := m.Resolve(errors.New("other")); got != 10 {
		t.Errorf("general = %d", got)
	}
	if got := m.Resolve(nil); got != 0 {
		t.Errorf("success = %d", got)
	}
	if got := m.Resolve(&middleware.TimeoutError{}); got != 10 {
		t.Errorf("timeout = %d", got)
	}
	if got := m.Resolve(&middleware.RecoveryError{Panic: "x"}); got != 10 {
		t.Errorf("panic = %d", got)
	}
	if got := m.Resolve(fmt.Errorf("check: %w", &middleware.ValidationError{Field: "port"})); got != 65 {
		t.Errorf("validation type = %d", got)
	}
	if m.DefineError(nil, 9) != m {
		t.Error("DefineError(nil) should be a no-op")
	}
}

func TestExitError(t *testing.T) {
	inner := errors.New("disk full")
	ee := &ExitError{Code: 4, Err: inner}
	if ee.Error() != "disk full" || !errors.Is(ee, inner) {
		t.Error("ExitError should wrap its cause")
	}
	if (&ExitError{Code: 4}).Error() != "exit" {
		t.Error("bare ExitError text")
	}
}
