package generator

import "strings"

// BoundRule maps any collection whose name contains Contains to Bound.
type BoundRule struct {
	Contains string
	Bound    string
}

// Bounds supplies the upper bound expression for for:each loops. Exact
// names are consulted first, then Rules in order.
type Bounds struct {
	Exact map[string]string
	Rules []BoundRule
}

// DefaultBounds returns the table used when the caller supplies none.
func DefaultBounds() Bounds {
	return Bounds{
		Rules: []BoundRule{
			{Contains: "players", Bound: "MAX_PLAYERS"},
			{Contains: "argv", Bound: "argc"},
		},
	}
}

// Lookup returns the bound for the collection expression coll.
func (b Bounds) Lookup(coll string) (string, bool) {
	coll = strings.TrimSpace(coll)
	if bound, ok := b.Exact[coll]; ok {
		return bound, true
	}
	for _, r := range b.Rules {
		if r.Contains != "" && strings.Contains(coll, r.Contains) {
			return r.Bound, true
		}
	}
	return "", false
}

func placeholderBound(coll string) string {
	return "/* TODO: bound for " + coll + " */"
}
