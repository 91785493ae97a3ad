package audit

import "slices"

// Exclusions is the set of names treated as intentionally unbound.
type Exclusions struct {
	names map[string]struct{}
}

// NewExclusions builds a set from exact names. Empty entries are ignored.
func NewExclusions(names ...string) Exclusions {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return Exclusions{names: set}
}

// Has reports whether name is excluded.
func (e Exclusions) Has(name string) bool {
	_, ok := e.names[name]
	return ok
}

func (e Exclusions) Len() int {
	return len(e.names)
}

// Sorted returns the excluded names in lexical order.
func (e Exclusions) Sorted() []string {
	out := make([]string, 0, len(e.names))
	for n := range e.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Union returns a new set holding the names of both sets.
func (e Exclusions) Union(other Exclusions) Exclusions {
	set := make(map[string]struct{}, len(e.names)+len(other.names))
	for n := range e.names {
		set[n] = struct{}{}
	}
	for n := range other.names {
		set[n] = struct{}{}
	}
	return Exclusions{names: set}
}
