package argspec

// Builder assembles a schema once at process start. Declarations are
// collected as written; all validation happens in Build.
//
//	reg, err := argspec.NewBuilder().
//		Positional("Input", "Source file path").Back().
//		Flag("Stdin", "Read the source from stdin").Back().
//		FlagArg("Output", "Output file path").Short('o').Back().
//		Group("input", argspec.Mandatory).Alt("File", "input").Alt("Stdin", "stdin").Back().
//		Build()
type Builder struct {
	entries []*Entry
	groups  []*groupDecl
}

type groupDecl struct {
	group *Group
	alts  []altDecl
}

type altDecl struct {
	tag   string
	entry string
}

// NewBuilder creates an empty schema builder.
func NewBuilder() *Builder {
	return &Builder{
		entries: make([]*Entry, 0, 8),
	}
}

// Positional declares a positional argument. Positionals are matched in the
// order they are declared. The identifier is converted with KebabCase.
func (b *Builder) Positional(identifier, description string) *EntryBuilder {
	return b.add(KindPositional, identifier, description)
}

// Flag declares a boolean switch.
func (b *Builder) Flag(identifier, description string) *EntryBuilder {
	return b.add(KindFlag, identifier, description)
}

// FlagArg declares a switch that consumes exactly one following value.
func (b *Builder) FlagArg(identifier, description string) *EntryBuilder {
	return b.add(KindFlagArg, identifier, description)
}

func (b *Builder) add(kind Kind, identifier, description string) *EntryBuilder {
	e := &Entry{
		kind:        kind,
		long:        KebabCase(identifier),
		description: description,
		index:       len(b.entries),
		position:    -1,
	}
	if kind != KindFlag {
		e.parse = String
	}
	b.entries = append(b.entries, e)
	return &EntryBuilder{entry: e, parent: b}
}

// Group declares a set of mutually exclusive alternatives.
func (b *Builder) Group(name string, requirement Requirement) *GroupBuilder {
	decl := &groupDecl{group: &Group{name: name, requirement: requirement}}
	b.groups = append(b.groups, decl)
	return &GroupBuilder{decl: decl, parent: b}
}

// EntryBuilder provides a fluent interface for configuring one entry.
type EntryBuilder struct {
	entry  *Entry
	parent *Builder
}

// Long overrides the canonical long name derived from the identifier.
func (eb *EntryBuilder) Long(name string) *EntryBuilder {
	eb.entry.long = name
	return eb
}

// Short sets a short alias (single character).
func (eb *EntryBuilder) Short(short rune) *EntryBuilder {
	eb.entry.short = short
	return eb
}

// Default sets the raw default text. It is run through the parse function
// at Build time, so a default that does not parse is a schema error.
func (eb *EntryBuilder) Default(raw string) *EntryBuilder {
	eb.entry.defaultRaw = raw
	eb.entry.hasDefault = true
	return eb
}

// Parse sets the parse function. Entries without one keep the text as a string.
func (eb *EntryBuilder) Parse(fn ParseFunc) *EntryBuilder {
	eb.entry.parse = fn
	return eb
}

// Back returns to the parent Builder.
func (eb *EntryBuilder) Back() *Builder {
	return eb.parent
}

// GroupBuilder provides a fluent interface for configuring a group.
type GroupBuilder struct {
	decl   *groupDecl
	parent *Builder
}

// Alt adds an alternative backed by the entry with the given long name.
func (gb *GroupBuilder) Alt(tag, entry string) *GroupBuilder {
	gb.decl.alts = append(gb.decl.alts, altDecl{tag: tag, entry: entry})
	return gb
}

// Description sets the group description.
func (gb *GroupBuilder) Description(description string) *GroupBuilder {
	gb.decl.group.description = description
	return gb
}

// Back returns to the parent Builder.
func (gb *GroupBuilder) Back() *Builder {
	return gb.parent
}

// MustBuild is like Build but panics on a schema error. Schemas are static,
// so a failure here is a programming error.
func (b *Builder) MustBuild() *Registry {
	reg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return reg
}
