package character

import "strings"

// Attributes maps attribute names to fully resolved totals. The roll engine
// only reads it.
type Attributes map[string]int

// Get returns the value of name. Lookups fall back to a case-insensitive
// match and missing attributes resolve to 0.
func (a Attributes) Get(name string) int {
	return a[a.key(name)]
}

// key returns the existing spelling of name, or name itself. When several
// spellings differ only in case, the lexically smallest wins.
func (a Attributes) key(name string) string {
	if _, ok := a[name]; ok {
		return name
	}
	found := ""
	for key := range a {
		if strings.EqualFold(key, name) && (found == "" || key < found) {
			found = key
		}
	}
	if found == "" {
		return name
	}
	return found
}
