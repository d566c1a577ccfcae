// Package rule implements the alphabet of typed function symbols and the
// rewrite rules over meta-terms, together with the rule-validity checks
// spec.md §3 requires.
package rule

import (
	"fmt"
	"sort"

	"github.com/gitrdm/afsmterm/internal/typesys"
)

// Alphabet is a mapping from symbol name to its declared (possibly
// polymorphic) type. Names are unique within one alphabet.
type Alphabet struct {
	types map[string]typesys.Type
}

// NewAlphabet creates an empty alphabet.
func NewAlphabet() *Alphabet {
	return &Alphabet{types: make(map[string]typesys.Type)}
}

// Declare adds a symbol, returning an error if the name is already
// declared (names are unique).
func (a *Alphabet) Declare(name string, typ typesys.Type) error {
	if _, exists := a.types[name]; exists {
		return fmt.Errorf("rule: symbol %q already declared in alphabet", name)
	}
	a.types[name] = typ
	return nil
}

// Lookup returns the declared type of name, or (nil, false) if the
// symbol has no declared type -- the caller (typically order.Problem
// construction) treats a missing type as a fatal malformed-input error
// per spec.md §4.3.
func (a *Alphabet) Lookup(name string) (typesys.Type, bool) {
	t, ok := a.types[name]
	return t, ok
}

// Names returns the declared symbol names in sorted order, for
// deterministic iteration.
func (a *Alphabet) Names() []string {
	names := make([]string, 0, len(a.types))
	for n := range a.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of declared symbols.
func (a *Alphabet) Len() int { return len(a.types) }
