package argspec

// Kind is the role an entry plays on the command line.
type Kind uint8

const (
	// KindPositional is matched by position among loose values.
	KindPositional Kind = iota + 1
	// KindFlag is a zero-argument boolean switch.
	KindFlag
	// KindFlagArg is a named switch that consumes exactly one following value.
	KindFlagArg
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPositional:
		return "positional"
	case KindFlag:
		return "flag"
	case KindFlagArg:
		return "flag-arg"
	default:
		return "unknown"
	}
}

// Addressing describes how a named entry can be written on the command line.
type Addressing uint8

const (
	// NotAddressable is reported for positionals.
	NotAddressable Addressing = iota
	// LongOnly entries are reachable as --long.
	LongOnly
	// LongAndShort entries are reachable as --long and -s.
	LongAndShort
)

// ParseFunc converts the raw text of a value into its typed form.
// It must be pure; ok=false rejects the text.
type ParseFunc func(raw string) (value any, ok bool)

// Entry is one immutable schema descriptor. Entries are created through a
// Builder and never change after Build.
type Entry struct {
	kind        Kind
	long        string
	short       rune
	description string
	defaultRaw  string
	hasDefault  bool
	parse       ParseFunc
	index       int // declaration order across the whole schema
	position    int // declaration order among positionals, -1 otherwise
}

// Kind returns the entry kind.
func (e *Entry) Kind() Kind { return e.kind }

// Name returns the canonical long name. Positionals use it as their result key.
func (e *Entry) Name() string { return e.long }

// Short returns the short character, if any.
func (e *Entry) Short() (rune, bool) { return e.short, e.short != 0 }

// Description returns the entry description.
func (e *Entry) Description() string { return e.description }

// Default returns the declared default text, if any.
func (e *Entry) Default() (string, bool) { return e.defaultRaw, e.hasDefault }

// Position returns the 0-based index among positionals, or -1.
func (e *Entry) Position() int { return e.position }

// Addressing reports whether the entry is long-only or long-and-short.
func (e *Entry) Addressing() Addressing {
	switch {
	case e.kind == KindPositional:
		return NotAddressable
	case e.short != 0:
		return LongAndShort
	default:
		return LongOnly
	}
}

// Parse applies the entry's parse function. Flags never carry a value and
// always reject.
func (e *Entry) Parse(raw string) (any, bool) {
	if e.kind == KindFlag || e.parse == nil {
		return nil, false
	}
	return e.parse(raw)
}

// Display renders the entry the way usage lines and errors refer to it.
func (e *Entry) Display() string {
	switch e.kind {
	case KindPositional:
		return "<" + e.long + ">"
	default:
		if e.short != 0 {
			return "--" + e.long + "/-" + string(e.short)
		}
		return "--" + e.long
	}
}

// Requirement says whether a group must resolve to one alternative.
type Requirement uint8

const (
	// Optional groups resolve to zero or one alternative.
	Optional Requirement = iota
	// Mandatory groups resolve to exactly one alternative.
	Mandatory
)

// Alternative is one tagged choice of a group.
type Alternative struct {
	Tag   string
	Entry *Entry
}

// Group expresses mutual exclusivity among alternative entries.
type Group struct {
	name         string
	description  string
	requirement  Requirement
	alternatives []Alternative
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Description returns the group description.
func (g *Group) Description() string { return g.description }

// Mandatory reports whether exactly one alternative is required.
func (g *Group) Mandatory() bool { return g.requirement == Mandatory }

// Alternatives returns the alternatives in declaration order. The slice must
// not be modified.
func (g *Group) Alternatives() []Alternative { return g.alternatives }
