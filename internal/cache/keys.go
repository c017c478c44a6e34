package cache

import "strings"

// All is the placeholder for an omitted optional key part, so that an
// omitted filter and an explicit "all" produce the same key.
const All = "all"

// Key builds a cache key from an operation name and its filter parts,
// in caller-fixed order. Empty parts are replaced with All.
func Key(op string, parts ...string) string {
	b := strings.Builder{}
	b.WriteString(op)
	for _, p := range parts {
		b.WriteByte('|')
		if p == "" {
			p = All
		}
		b.WriteString(p)
	}
	return b.String()
}
