package argspec

import "fmt"

// Choice is the resolved state of a group: a single tagged variant over its
// alternatives. An unset optional group has no Choice at all.
type Choice struct {
	Group string
	Tag   string
	Entry string // long name of the backing entry
	Value any    // true for flags, the parsed value otherwise
}

// disambiguate evaluates every group against the entries filled during the
// scan. It runs before defaults are applied, so a default never counts as a
// satisfied alternative.
func (r *Registry) disambiguate(filled map[*Entry]any, end int) (map[string]Choice, error) {
	choices := make(map[string]Choice, len(r.groups))
	for _, g := range r.groups {
		choice, ok, err := resolveGroup(g, filled, end)
		if err != nil {
			return nil, err
		}
		if ok {
			choices[g.name] = choice
		}
	}
	return choices, nil
}

func resolveGroup(g *Group, filled map[*Entry]any, end int) (Choice, bool, error) {
	var chosen *Alternative
	for i := range g.alternatives {
		alt := &g.alternatives[i]
		if _, ok := filled[alt.Entry]; !ok {
			continue
		}
		if chosen != nil {
			// Declaration order only decides which two names the error shows.
			return Choice{}, false, &ResolutionError{
				Kind:     ErrConflictingGroup,
				Position: end,
				Message: fmt.Sprintf("%s and %s cannot be used together (group '%s')",
					chosen.Entry.Display(), alt.Entry.Display(), g.name),
				Group:        g.name,
				Alternatives: []string{chosen.Tag, alt.Tag},
			}
		}
		chosen = alt
	}

	if chosen == nil {
		if g.Mandatory() {
			return Choice{}, false, &ResolutionError{
				Kind:     ErrMissingGroup,
				Position: end,
				Message:  fmt.Sprintf("one of the '%s' alternatives is required", g.name),
				Group:    g.name,
			}
		}
		return Choice{}, false, nil
	}

	return Choice{
		Group: g.name,
		Tag:   chosen.Tag,
		Entry: chosen.Entry.long,
		Value: filled[chosen.Entry],
	}, true, nil
}
