package argspec

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-argspec/middleware"
)

// ExitError requests a specific exit code from inside an action.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds the fallback codes.
type ExitCodeDefaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
}

// DefaultExitCodes returns the conventional codes.
func DefaultExitCodes() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3}
}

// ExitCodeManager maps errors to process exit codes.
type ExitCodeManager struct {
	codesByKind map[ErrorKind]int
	codesByType map[reflect.Type]int
	typeOrder   []reflect.Type // registration order, so lookups are deterministic
	defaults    ExitCodeDefaults
}

// NewExitCodeManager creates a manager with every resolution kind mapped to
// the misusage code, InvalidValue mapped to the validation code, and the
// middleware error types prewired.
func NewExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByKind: make(map[ErrorKind]int),
		codesByType: make(map[reflect.Type]int),
	}
	return m.Default(DefaultExitCodes())
}

// Default replaces the default codes and re-derives the per-kind mapping and
// the middleware error types. Call it before Define and DefineError so custom
// codes are not overwritten.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	for _, k := range []ErrorKind{
		ErrUnknownFlag, ErrMissingArgumentValue, ErrUnexpectedPositional,
		ErrMissingPositional, ErrConflictingGroup, ErrMissingGroup,
	} {
		e.codesByKind[k] = d.MisusageError
	}
	e.codesByKind[ErrInvalidValue] = d.ValidationError
	e.codesByKind[ErrDuplicateSchemaDeclaration] = d.GeneralError
	e.codesByKind[ErrInvalidSchema] = d.GeneralError

	e.DefineError(&middleware.ValidationError{}, d.ValidationError)
	e.DefineError(&middleware.TimeoutError{}, d.GeneralError)
	e.DefineError(&middleware.RecoveryError{}, d.GeneralError)
	return e
}

// Define overrides the exit code for an error kind.
func (e *ExitCodeManager) Define(kind ErrorKind, code int) *ExitCodeManager {
	e.codesByKind[kind] = code
	return e
}

// DefineError maps a concrete error value (by its dynamic type) to an exit
// code. Type mappings lose to ExitError and to kind mappings.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	t := reflect.TypeOf(err)
	if _, seen := e.codesByType[t]; !seen {
		e.typeOrder = append(e.typeOrder, t)
	}
	e.codesByType[t] = code
	return e
}

// Resolve converts an error to an exit code.
// Precedence:
//  1. ExitError (requested code)
//  2. ResolutionError / SchemaError kind mapping
//  3. Concrete error type mapping (DefineError)
//  4. GeneralError
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if kind, ok := errorKindOf(err); ok {
		if code, ok := e.codesByKind[kind]; ok {
			return code
		}
		return e.defaults.GeneralError
	}

	for _, t := range e.typeOrder {
		if errors.As(err, reflect.New(t).Interface()) {
			return e.codesByType[t]
		}
	}
	return e.defaults.GeneralError
}

func errorKindOf(err error) (ErrorKind, bool) {
	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		return resErr.Kind, true
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Kind, true
	}
	return "", false
}
