package argspec

import (
	"fmt"

	"github.com/dzonerzy/go-argspec/internal/pool"
)

// looseValue is a Value token not consumed by a FlagArg.
type looseValue struct {
	text string
	pos  int
}

// scanState is the resolver state: token index, filled entries and the
// loose-value buffer. It never escapes a single resolution.
type scanState struct {
	pos    int
	filled map[*Entry]any
	loose  []looseValue
}

var scanStatePool = pool.NewPoolWithReset(
	func() *scanState {
		return &scanState{
			filled: make(map[*Entry]any, 8),
			loose:  make([]looseValue, 0, 8),
		}
	},
	func(s *scanState) {
		s.pos = 0
		clear(s.filled)
		s.loose = s.loose[:0]
	},
)

var tokenBufferPool = pool.NewPoolWithReset(
	func() *[]Token {
		buf := make([]Token, 0, 16)
		return &buf
	},
	func(buf *[]Token) { *buf = (*buf)[:0] },
)

// Resolve tokenizes args (program name already stripped) and resolves them
// against the schema.
func (r *Registry) Resolve(args []string) (*ParsedResult, error) {
	buf := tokenBufferPool.Get()
	defer tokenBufferPool.Put(buf)
	for tok := range Tokenize(args) {
		*buf = append(*buf, tok)
	}
	return r.ResolveTokens(*buf)
}

// ResolveTokens resolves an already materialized token sequence. The first
// violation aborts resolution; no partial result is returned.
func (r *Registry) ResolveTokens(tokens []Token) (*ParsedResult, error) {
	st := scanStatePool.Get()
	defer scanStatePool.Put(st)

	if err := r.scan(st, tokens); err != nil {
		return nil, err
	}
	if err := r.assignPositionals(st, len(tokens)); err != nil {
		return nil, err
	}
	choices, err := r.disambiguate(st.filled, len(tokens))
	if err != nil {
		return nil, err
	}
	return r.finalize(st, choices), nil
}

// scan is the single left-to-right pass over the tokens.
func (r *Registry) scan(st *scanState, tokens []Token) error {
	for st.pos < len(tokens) {
		tok := tokens[st.pos]

		if tok.Kind == TokenValue {
			st.loose = append(st.loose, looseValue{text: tok.Text, pos: st.pos})
			st.pos++
			continue
		}

		entry := r.lookup(tok)
		if entry == nil {
			return r.unknownFlagError(tok, st.pos)
		}

		switch entry.kind {
		case KindFlag:
			st.filled[entry] = true
			st.pos++

		case KindFlagArg:
			next := st.pos + 1
			if next >= len(tokens) || tokens[next].Kind != TokenValue {
				return &ResolutionError{
					Kind:     ErrMissingArgumentValue,
					Position: st.pos,
					Message:  fmt.Sprintf("flag %s requires a value", tok),
					Token:    tok,
					Entry:    entry.long,
				}
			}
			raw := tokens[next].Text
			v, ok := entry.Parse(raw)
			if !ok {
				return invalidValueError(entry, raw, next)
			}
			st.filled[entry] = v // last occurrence wins
			st.pos += 2

		case KindPositional:
			// lookup never returns positionals
			return r.unknownFlagError(tok, st.pos)
		}
	}
	return nil
}

// assignPositionals fills positional slots from the loose-value buffer in
// declaration order.
func (r *Registry) assignPositionals(st *scanState, end int) error {
	if len(st.loose) > len(r.positionals) {
		extra := st.loose[len(r.positionals)]
		return &ResolutionError{
			Kind:     ErrUnexpectedPositional,
			Position: extra.pos,
			Message:  fmt.Sprintf("unexpected argument %q", extra.text),
			Token:    Value(extra.text),
			Raw:      extra.text,
		}
	}

	for i, entry := range r.positionals {
		if i < len(st.loose) {
			lv := st.loose[i]
			v, ok := entry.Parse(lv.text)
			if !ok {
				return invalidValueError(entry, lv.text, lv.pos)
			}
			st.filled[entry] = v
			continue
		}
		// A group alternative is governed by its group, not by itself.
		if entry.hasDefault || r.groupOf[entry] != nil {
			continue
		}
		return &ResolutionError{
			Kind:     ErrMissingPositional,
			Position: end,
			Message:  fmt.Sprintf("missing required argument %s", entry.Display()),
			Entry:    entry.long,
		}
	}
	return nil
}

// finalize applies defaults and binds every entry name.
func (r *Registry) finalize(st *scanState, choices map[string]Choice) *ParsedResult {
	res := newParsedResult(r, len(r.entries))
	for _, e := range r.entries {
		if v, ok := st.filled[e]; ok {
			res.set(e, v, SourceInput)
			continue
		}
		switch {
		case e.kind == KindFlag:
			res.set(e, false, SourceDefault)
		case e.hasDefault:
			res.set(e, r.defaults[e], SourceDefault)
		}
	}
	for _, lv := range st.loose {
		res.args = append(res.args, lv.text)
	}
	res.groups = choices
	return res
}

func (r *Registry) unknownFlagError(tok Token, pos int) *ResolutionError {
	name := tok.Name
	if tok.Kind == TokenShortFlag {
		name = string(tok.Short)
	}
	return &ResolutionError{
		Kind:     ErrUnknownFlag,
		Position: pos,
		Message:  "unknown flag: " + tok.String(),
		Token:    tok,
		Flag:     name,
	}
}

func invalidValueError(entry *Entry, raw string, pos int) *ResolutionError {
	return &ResolutionError{
		Kind:     ErrInvalidValue,
		Position: pos,
		Message:  fmt.Sprintf("invalid value %q for %s", raw, entry.Display()),
		Token:    Value(raw),
		Entry:    entry.long,
		Raw:      raw,
	}
}

// Resolve is Registry.Resolve as a function.
func Resolve(reg *Registry, args []string) (*ParsedResult, error) {
	return reg.Resolve(args)
}
