package formula

import (
	"sort"
	"strings"
)

// Kind discriminates the Formula variants.
type Kind int

const (
	KindTop Kind = iota
	KindBottom
	KindAtom
	KindAnd
	KindOr
	KindNot
)

// Formula is the common interface for every propositional-formula
// variant: Top, Bottom, Atom (+X or -X), n-ary And, n-ary Or, and a
// unary Not that Simplify always eliminates.
type Formula interface {
	Kind() Kind
	String(reg *Registry) string
}

// Top is the formula constant true.
type Top struct{}

func (Top) Kind() Kind                  { return KindTop }
func (Top) String(reg *Registry) string { return "T" }

// Bottom is the formula constant false.
type Bottom struct{}

func (Bottom) Kind() Kind                  { return KindBottom }
func (Bottom) String(reg *Registry) string { return "F" }

// Atom is a reference to a propositional variable, either positive (+X)
// or negated (-X, an "anti-variable").
type Atom struct {
	Var      int
	Negative bool
}

// Pos builds a positive atom +X.
func Pos(v int) *Atom { return &Atom{Var: v} }

// Neg builds a negated atom -X.
func Neg(v int) *Atom { return &Atom{Var: v, Negative: true} }

func (a *Atom) Kind() Kind { return KindAtom }

func (a *Atom) String(reg *Registry) string {
	sign := "+"
	if a.Negative {
		sign = "-"
	}
	if reg != nil {
		return sign + reg.Describe(a.Var)
	}
	return sign + itoa(a.Var)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

// And is an n-ary conjunction.
type And struct{ Children []Formula }

func MkAnd(children ...Formula) *And { return &And{Children: children} }

func (a *And) Kind() Kind { return KindAnd }

func (a *And) String(reg *Registry) string {
	parts := make([]string, len(a.Children))
	for i, c := range a.Children {
		parts[i] = c.String(reg)
	}
	return "(" + strings.Join(parts, " /\\ ") + ")"
}

// Or is an n-ary disjunction.
type Or struct{ Children []Formula }

func MkOr(children ...Formula) *Or { return &Or{Children: children} }

func (o *Or) Kind() Kind { return KindOr }

func (o *Or) String(reg *Registry) string {
	parts := make([]string, len(o.Children))
	for i, c := range o.Children {
		parts[i] = c.String(reg)
	}
	return "(" + strings.Join(parts, " \\/ ") + ")"
}

// Not is a unary negation. Simplify always eliminates it (pushing
// negation to the leaves via De Morgan and atom-flipping), so Not should
// never appear in a simplified formula.
type Not struct{ Child Formula }

func MkNot(child Formula) *Not { return &Not{Child: child} }

func (n *Not) Kind() Kind                  { return KindNot }
func (n *Not) String(reg *Registry) string { return "~" + n.Child.String(reg) }

// atomKey produces a sortable, comparable key for an atom so that
// simplified And/Or clauses can sort atoms to the front and dedupe them.
func atomKey(a *Atom) string {
	sign := "+"
	if a.Negative {
		sign = "-"
	}
	return sign + itoa(a.Var)
}

// sortFormulas orders a simplified child list: atoms first (sorted by
// key), then compound formulas in their given relative order, matching
// spec.md §3's "atoms sorted to the front of their clause."
func sortFormulas(fs []Formula) []Formula {
	atoms := make([]Formula, 0, len(fs))
	rest := make([]Formula, 0, len(fs))
	for _, f := range fs {
		if f.Kind() == KindAtom {
			atoms = append(atoms, f)
		} else {
			rest = append(rest, f)
		}
	}
	sort.Slice(atoms, func(i, j int) bool {
		return atomKey(atoms[i].(*Atom)) < atomKey(atoms[j].(*Atom))
	})
	return append(atoms, rest...)
}
