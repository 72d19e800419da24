package argspec

// Registry is the static, read-only schema a resolution runs against. A built
// Registry is never mutated, so it can be shared by concurrent Resolve calls.
type Registry struct {
	entries     []*Entry // declaration order
	positionals []*Entry
	groups      []*Group
	byLong      map[string]*Entry
	byShort     map[rune]*Entry
	groupByName map[string]*Group
	groupOf     map[*Entry]*Group
	defaults    map[*Entry]any // parsed defaults, checked once at build time
}

// Build validates the declarations and produces the registry. It is the only
// place DuplicateSchemaDeclaration and InvalidSchema errors are reported.
// The registry owns copies of the declarations, so a Builder can be built
// again or extended without touching registries it already produced.
func (b *Builder) Build() (*Registry, error) {
	reg := &Registry{
		entries:     make([]*Entry, 0, len(b.entries)),
		byLong:      make(map[string]*Entry, len(b.entries)),
		byShort:     make(map[rune]*Entry),
		groupByName: make(map[string]*Group, len(b.groups)),
		groupOf:     make(map[*Entry]*Group),
		defaults:    make(map[*Entry]any),
	}

	for _, decl := range b.entries {
		e := *decl
		if err := reg.addEntry(&e); err != nil {
			return nil, err
		}
	}
	for _, decl := range b.groups {
		if err := reg.addGroup(decl); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (r *Registry) addEntry(e *Entry) error {
	if e.long == "" {
		return invalidSchemaError("", "entry #%d has an empty long name", e.index)
	}
	if prev, dup := r.byLong[e.long]; dup {
		return duplicateError(e.long, "long name '%s' is declared twice (%s and %s)", e.long, prev.kind, e.kind)
	}

	if e.short != 0 {
		switch {
		case e.kind == KindPositional:
			return invalidSchemaError(e.long, "positional '%s' cannot have a short form", e.long)
		case e.short == '-':
			return invalidSchemaError(e.long, "'-' cannot be used as the short form of '%s'", e.long)
		}
		if prev, dup := r.byShort[e.short]; dup {
			return duplicateError(e.long, "short form '-%c' is used by both '%s' and '%s'", e.short, prev.long, e.long)
		}
	}

	if e.hasDefault {
		if e.kind == KindFlag {
			return invalidSchemaError(e.long, "flag '%s' cannot carry a default", e.long)
		}
		v, ok := e.Parse(e.defaultRaw)
		if !ok {
			return invalidSchemaError(e.long, "default %q of '%s' does not parse", e.defaultRaw, e.long)
		}
		r.defaults[e] = v
	}

	if e.kind == KindPositional {
		e.position = len(r.positionals)
		r.positionals = append(r.positionals, e)
	}
	r.entries = append(r.entries, e)
	r.byLong[e.long] = e
	if e.short != 0 {
		r.byShort[e.short] = e
	}
	return nil
}

func (r *Registry) addGroup(decl *groupDecl) error {
	g := &Group{
		name:        decl.group.name,
		description: decl.group.description,
		requirement: decl.group.requirement,
	}
	if g.name == "" {
		return invalidSchemaError("", "group with an empty name")
	}
	if _, dup := r.groupByName[g.name]; dup {
		return duplicateError(g.name, "group '%s' is declared twice", g.name)
	}
	if len(decl.alts) == 0 {
		return invalidSchemaError(g.name, "group '%s' has no alternatives", g.name)
	}

	tags := make(map[string]struct{}, len(decl.alts))
	g.alternatives = make([]Alternative, 0, len(decl.alts))
	for _, alt := range decl.alts {
		e, ok := r.byLong[alt.entry]
		if !ok {
			return invalidSchemaError(g.name, "group '%s' references unknown entry '%s'", g.name, alt.entry)
		}
		if _, dup := tags[alt.tag]; dup || alt.tag == "" {
			return duplicateError(g.name, "group '%s' declares alternative tag %q twice or empty", g.name, alt.tag)
		}
		if owner, taken := r.groupOf[e]; taken {
			return duplicateError(g.name, "entry '%s' already belongs to group '%s'", e.long, owner.name)
		}
		tags[alt.tag] = struct{}{}
		r.groupOf[e] = g
		g.alternatives = append(g.alternatives, Alternative{Tag: alt.tag, Entry: e})
	}

	r.groups = append(r.groups, g)
	r.groupByName[g.name] = g
	return nil
}

// Entries returns every entry in declaration order. The slice must not be modified.
func (r *Registry) Entries() []*Entry { return r.entries }

// Positionals returns the positional entries in declaration order.
func (r *Registry) Positionals() []*Entry { return r.positionals }

// Groups returns the groups in declaration order.
func (r *Registry) Groups() []*Group { return r.groups }

// Entry looks an entry up by long name.
func (r *Registry) Entry(long string) *Entry { return r.byLong[long] }

// Group looks a group up by name.
func (r *Registry) Group(name string) *Group { return r.groupByName[name] }

// GroupOf returns the group an entry is an alternative of, if any.
func (r *Registry) GroupOf(e *Entry) *Group { return r.groupOf[e] }

// lookup resolves a flag token to a named entry. Positionals are never
// addressable by flag syntax.
func (r *Registry) lookup(t Token) *Entry {
	var e *Entry
	switch t.Kind {
	case TokenLongFlag:
		e = r.byLong[t.Name]
	case TokenShortFlag:
		e = r.byShort[t.Short]
	case TokenValue:
		return nil
	}
	if e == nil || e.kind == KindPositional {
		return nil
	}
	return e
}
