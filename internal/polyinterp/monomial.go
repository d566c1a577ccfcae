package polyinterp

import (
	"sort"
	"strings"

	"github.com/gitrdm/afsmterm/internal/poly"
)

// Monomials decomposes p (assumed already poly.Simplify-d) into a map
// from a canonical "shape" key to the accumulated coefficient expression
// for that shape: the constant monomial lives under key "", and every
// other key is the canonical string of the non-coefficient factors of
// one summand (a bare Variable/Functional/Max, or several of them
// multiplied together). This is the bridge from a polynomial comparison
// that still mentions free term-variables to one that does not: once
// both sides of a requirement are decomposed this way, comparing them
// monomial-by-monomial only ever compares Unknown/Int coefficients,
// which internal/smt can bit-blast directly.
func Monomials(p poly.Polynomial) map[string]poly.Polynomial {
	out := map[string]poly.Polynomial{}
	for _, summand := range summandsOf(poly.Simplify(p)) {
		key, coeff := splitMonomial(summand)
		if existing, ok := out[key]; ok {
			out[key] = poly.Simplify(poly.NewSum(existing, coeff))
		} else {
			out[key] = coeff
		}
	}
	return out
}

func summandsOf(p poly.Polynomial) []poly.Polynomial {
	if s, ok := p.(*poly.Sum); ok {
		return s.Terms
	}
	return []poly.Polynomial{p}
}

// splitMonomial separates one summand into its shape key (the product
// of its Variable/Functional/Max factors, canonically ordered) and its
// coefficient (the product of its Int/Unknown factors).
func splitMonomial(p poly.Polynomial) (key string, coeff poly.Polynomial) {
	factors := factorsOf(p)
	var coeffFactors, keyFactors []poly.Polynomial
	for _, f := range factors {
		switch f.Kind() {
		case poly.KindInt, poly.KindUnknown:
			coeffFactors = append(coeffFactors, f)
		default:
			keyFactors = append(keyFactors, f)
		}
	}
	sort.Slice(keyFactors, func(i, j int) bool { return poly.Less(keyFactors[i], keyFactors[j]) })
	parts := make([]string, len(keyFactors))
	for i, f := range keyFactors {
		parts[i] = f.String()
	}
	key = strings.Join(parts, "*")
	if len(coeffFactors) == 0 {
		coeff = poly.NewInt(1)
	} else if len(coeffFactors) == 1 {
		coeff = coeffFactors[0]
	} else {
		coeff = poly.Simplify(poly.NewProduct(coeffFactors...))
	}
	return key, coeff
}

func factorsOf(p poly.Polynomial) []poly.Polynomial {
	if prod, ok := p.(*poly.Product); ok {
		return prod.Factors
	}
	return []poly.Polynomial{p}
}

// MonomialConstraints compares l and r monomial-by-monomial: every shape
// present in either side gets a >= comparison between its accumulated
// coefficients (0 standing in for an absent shape), and, when strict is
// true, the constant monomial's comparison is tightened to >. Requiring
// strictness only at the constant term is a deliberate simplification of
// the general method (which lets the solver pick *any* single monomial
// to be strict via a disjunction) -- see DESIGN.md.
func MonomialConstraints(l, r poly.Polynomial, strict bool) []MonomialConstraint {
	lm, rm := Monomials(l), Monomials(r)
	keys := map[string]bool{}
	for k := range lm {
		keys[k] = true
	}
	for k := range rm {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	out := make([]MonomialConstraint, 0, len(sorted))
	for _, k := range sorted {
		lc, ok := lm[k]
		if !ok {
			lc = poly.NewInt(0)
		}
		rc, ok := rm[k]
		if !ok {
			rc = poly.NewInt(0)
		}
		out = append(out, MonomialConstraint{Key: k, L: lc, R: rc, Strict: strict && k == ""})
	}
	return out
}

// MonomialConstraint is one per-shape coefficient comparison produced by
// MonomialConstraints.
type MonomialConstraint struct {
	Key    string
	L, R   poly.Polynomial
	Strict bool
}
