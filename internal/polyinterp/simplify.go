package polyinterp

import "github.com/gitrdm/afsmterm/internal/poly"

// Decision is the trivial-checks verdict for a constraint L >= R (or,
// with strict set, L > R): forced true, forced false, or undecided (the
// constraint must be handed to the SMT layer as-is).
type Decision int

const (
	Undecided Decision = iota
	ForcedTrue
	ForcedFalse
)

// TrivialCheck mirrors polconstraintlist.cpp's trivial_checks: a
// constant-only comparison settles immediately, and L >= R is trivially
// true whenever L and R are syntactically identical after Simplify.
func TrivialCheck(l, r poly.Polynomial, strict bool) Decision {
	l, r = poly.Simplify(l), poly.Simplify(r)
	if poly.Compare(l, r) == 0 {
		if strict {
			return Undecided
		}
		return ForcedTrue
	}
	li, lok := l.(*poly.Int)
	ri, rok := r.(*poly.Int)
	if lok && rok {
		if strict {
			if li.Value > ri.Value {
				return ForcedTrue
			}
			return ForcedFalse
		}
		if li.Value >= ri.Value {
			return ForcedTrue
		}
		return ForcedFalse
	}
	return Undecided
}

// RemoveDuplicates cancels summands that occur (after Simplify) on both
// sides of L >= R, e.g. 3a+b >= a+c becomes 2a+b >= c. It operates on the
// flattened summand multiset of each side, per
// polconstraintlist.cpp's remove_duplicates.
func RemoveDuplicates(l, r poly.Polynomial) (poly.Polynomial, poly.Polynomial) {
	lt := summands(poly.Simplify(l))
	rt := summands(poly.Simplify(r))
	for i := 0; i < len(lt); i++ {
		for j := 0; j < len(rt); j++ {
			if rt[j] == nil {
				continue
			}
			if poly.Compare(lt[i], rt[j]) == 0 {
				lt[i] = nil
				rt[j] = nil
				break
			}
		}
	}
	return rebuild(lt), rebuild(rt)
}

func summands(p poly.Polynomial) []poly.Polynomial {
	if s, ok := p.(*poly.Sum); ok {
		out := make([]poly.Polynomial, len(s.Terms))
		copy(out, s.Terms)
		return out
	}
	return []poly.Polynomial{p}
}

func rebuild(terms []poly.Polynomial) poly.Polynomial {
	var kept []poly.Polynomial
	for _, t := range terms {
		if t != nil {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return poly.NewInt(0)
	}
	return poly.Simplify(poly.NewSum(kept...))
}

// SplitMax mirrors split_max: L >= max(r1,...,rn) is equivalent to the
// conjunction L >= r1 AND ... AND L >= rn. It returns the right-hand
// branches to conjoin, or nil if r is not a Max.
func SplitMax(r poly.Polynomial) []poly.Polynomial {
	m, ok := poly.Simplify(r).(*poly.Max)
	if !ok {
		return nil
	}
	return m.Args
}

// AbsolutePositiveness reports whether l and r have the same
// non-constant summands (of any shape, compared structurally) and l's
// constant term is no smaller than r's -- the cheap syntactic test
// polconstraintlist.cpp calls before falling back to the SMT layer.
func AbsolutePositiveness(l, r poly.Polynomial) bool {
	lc, lok := constantTerm(poly.Simplify(l))
	rc, rok := constantTerm(poly.Simplify(r))
	if !lok || !rok {
		return false
	}
	return lc >= rc && sameNonConstantPart(l, r)
}

func constantTerm(p poly.Polynomial) (int, bool) {
	switch n := p.(type) {
	case *poly.Int:
		return n.Value, true
	case *poly.Sum:
		for _, t := range n.Terms {
			if i, ok := t.(*poly.Int); ok {
				return i.Value, true
			}
		}
		return 0, true
	default:
		return 0, true
	}
}

// sameNonConstantPart reports whether l and r have identical non-integer
// summands, so the comparison reduces to comparing their constant terms.
func sameNonConstantPart(l, r poly.Polynomial) bool {
	nonConst := func(p poly.Polynomial) []poly.Polynomial {
		var out []poly.Polynomial
		for _, t := range summands(poly.Simplify(p)) {
			if _, ok := t.(*poly.Int); !ok {
				out = append(out, t)
			}
		}
		return out
	}
	a, b := nonConst(l), nonConst(r)
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if !used[j] && poly.Compare(x, y) == 0 {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
