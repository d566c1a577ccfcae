package smt

import "github.com/gitrdm/afsmterm/internal/poly"

// Preprocess runs smt.cpp's cheap, syntactic fixpoint loop before
// bit-blasting: unit propagation of already-ground constraints and
// obvious_propagate's bound tightening, repeated until nothing more
// changes. It mutates each poly.Unknown's Min/Max in place (every
// occurrence of a given unknown index shares the same *poly.Unknown
// allocated once by polyinterp.Synthesize, so this tightening is visible
// wherever that unknown is later bit-blasted) and returns the
// constraints that remain undecided after forced-true/forced-false ones
// are dropped.
func Preprocess(cs []Constraint) (remaining []Constraint, decided bool) {
	changed := true
	for changed {
		changed = false
		var next []Constraint
		for _, c := range cs {
			l, r := poly.Simplify(c.L), poly.Simplify(c.R)
			if tightenObvious(l, r) {
				changed = true
			}
			if u, ok := l.(*poly.Unknown); ok { // symmetric case: A >= n raises A's minimum
				if n, ok := r.(*poly.Int); ok && n.Value > u.Min {
					u.Min = n.Value
					changed = true
				}
			}
			if d, ok := groundDecision(l, r, c.Strict); ok {
				if !d {
					return nil, true // an unsatisfiable ground fact kills the whole batch
				}
				changed = true
				continue // forced-true constraint needs no further encoding
			}
			next = append(next, Constraint{L: l, R: r, Strict: c.Strict})
		}
		cs = next
	}
	return cs, false
}

// tightenObvious implements the "n >= A" half of obvious_propagate: when
// one side is a bare integer literal and the other a bare Unknown,
// tighten that unknown's bound accordingly. Returns whether a bound
// actually moved.
func tightenObvious(lit, unk poly.Polynomial) bool {
	n, ok := lit.(*poly.Int)
	if !ok {
		return false
	}
	u, ok := unk.(*poly.Unknown)
	if !ok {
		return false
	}
	if n.Value < u.Max {
		u.Max = n.Value
		return true
	}
	return false
}

// groundDecision reports whether l >= r (or l > r, if strict) is already
// decidable because both sides reduced to plain integer literals.
func groundDecision(l, r poly.Polynomial, strict bool) (bool, bool) {
	li, lok := l.(*poly.Int)
	ri, rok := r.(*poly.Int)
	if !lok || !rok {
		return false, false
	}
	if strict {
		return li.Value > ri.Value, true
	}
	return li.Value >= ri.Value, true
}
