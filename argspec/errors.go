package argspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dzonerzy/go-argspec/internal/fuzzy"
)

// ErrorKind represents error categories. A kind is itself an error so callers
// can write errors.Is(err, argspec.ErrUnknownFlag).
type ErrorKind string

const (
	ErrUnknownFlag          ErrorKind = "unknown_flag"
	ErrMissingArgumentValue ErrorKind = "missing_argument_value"
	ErrInvalidValue         ErrorKind = "invalid_value"
	ErrUnexpectedPositional ErrorKind = "unexpected_positional"
	ErrMissingPositional    ErrorKind = "missing_positional"
	ErrConflictingGroup     ErrorKind = "conflicting_group"
	ErrMissingGroup         ErrorKind = "missing_group"

	// Schema-time only; never returned by Resolve.
	ErrDuplicateSchemaDeclaration ErrorKind = "duplicate_schema_declaration"
	ErrInvalidSchema              ErrorKind = "invalid_schema"
)

func (k ErrorKind) Error() string { return string(k) }

// ResolutionError is the single structured error a failed resolution returns.
// Position is the index in the token sequence where resolution stopped; errors
// detected after the scan report the token count.
type ResolutionError struct {
	Kind     ErrorKind
	Position int
	Message  string

	Token        Token    // offending token, when there is one
	Flag         string   // UnknownFlag: the name as written without dashes
	Entry        string   // entry long name
	Raw          string   // InvalidValue / UnexpectedPositional: raw text
	Group        string   // group errors
	Alternatives []string // ConflictingGroup: the first two satisfied tags
}

func (e *ResolutionError) Error() string {
	return e.Message
}

// Is matches on the error kind.
func (e *ResolutionError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// SchemaError reports a broken schema declaration, detected once by Build.
type SchemaError struct {
	Kind    ErrorKind
	Name    string
	Message string
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Message
}

// Is matches on the error kind.
func (e *SchemaError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func duplicateError(name, format string, args ...any) *SchemaError {
	return &SchemaError{Kind: ErrDuplicateSchemaDeclaration, Name: name, Message: fmt.Sprintf(format, args...)}
}

func invalidSchemaError(name, format string, args ...any) *SchemaError {
	return &SchemaError{Kind: ErrInvalidSchema, Name: name, Message: fmt.Sprintf(format, args...)}
}

// ErrorHandler turns errors into user-facing text with optional suggestions.
type ErrorHandler struct {
	suggestFlags   bool
	maxDistance    int
	customHandlers map[ErrorKind]func(*ResolutionError) []string
}

// NewErrorHandler creates a new error handler with defaults
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{
		suggestFlags:   false, // opt-in
		maxDistance:    2,
		customHandlers: make(map[ErrorKind]func(*ResolutionError) []string),
	}
}

// SuggestFlags enables/disables "did you mean" hints for unknown flags
func (eh *ErrorHandler) SuggestFlags(enabled bool) *ErrorHandler {
	eh.suggestFlags = enabled
	return eh
}

// MaxDistance sets the maximum edit distance for suggestions
func (eh *ErrorHandler) MaxDistance(distance int) *ErrorHandler {
	eh.maxDistance = distance
	return eh
}

// Handle registers extra hint lines for a specific error kind. Custom lines
// come before the built-in ones.
func (eh *ErrorHandler) Handle(kind ErrorKind, handler func(*ResolutionError) []string) *ErrorHandler {
	eh.customHandlers[kind] = handler
	return eh
}

// Suggestions returns the hint lines for err against the given schema.
func (eh *ErrorHandler) Suggestions(err *ResolutionError, reg *Registry) []string {
	var hints []string
	if handler, ok := eh.customHandlers[err.Kind]; ok {
		hints = append(hints, handler(err)...)
	}

	switch err.Kind { // exhaustive over resolution kinds
	case ErrUnknownFlag:
		if eh.suggestFlags && reg != nil {
			if best := eh.findBestFlagMatch(err, reg); best != "" {
				hints = append(hints, fmt.Sprintf("Did you mean '%s'?", best))
			}
		}
	case ErrConflictingGroup, ErrMissingGroup:
		if reg != nil {
			if g := reg.Group(err.Group); g != nil {
				hints = append(hints, groupConstraint(g))
			}
		}
	case ErrMissingArgumentValue:
		hints = append(hints, fmt.Sprintf("'%s' takes a value as the next argument", err.Token))
	case ErrInvalidValue, ErrUnexpectedPositional, ErrMissingPositional,
		ErrDuplicateSchemaDeclaration, ErrInvalidSchema:
		// No suggestions for these by default.
	}
	return hints
}

// Format builds "Error: <message>" followed by indented hint lines. Errors
// that are not resolution errors are rendered by message only.
func (eh *ErrorHandler) Format(err error, reg *Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s", err.Error())

	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		for _, hint := range eh.Suggestions(resErr, reg) {
			fmt.Fprintf(&b, "\n  %s", hint)
		}
	}
	return b.String()
}

// findBestFlagMatch compares the unknown name with every addressable entry of
// the same form: long names for --x, short characters are too short to match.
func (eh *ErrorHandler) findBestFlagMatch(err *ResolutionError, reg *Registry) string {
	if err.Token.Kind != TokenLongFlag {
		return ""
	}
	names := make([]string, 0, len(reg.entries))
	for _, e := range reg.entries {
		if e.kind != KindPositional {
			names = append(names, e.long)
		}
	}
	if best := fuzzy.FindBestFlag(err.Flag, names, eh.maxDistance); best != "" {
		return "--" + best
	}
	return ""
}

func groupConstraint(g *Group) string {
	alts := make([]string, len(g.alternatives))
	for i, alt := range g.alternatives {
		alts[i] = fmt.Sprintf("%s (%s)", alt.Tag, alt.Entry.Display())
	}
	if g.Mandatory() {
		return fmt.Sprintf("Group '%s' requires exactly one of: %s", g.name, strings.Join(alts, ", "))
	}
	return fmt.Sprintf("Group '%s' accepts at most one of: %s", g.name, strings.Join(alts, ", "))
}
