package poly

import "sort"

// Simplify rewrites p to a canonical form: nested sums/products/maxima
// are flattened, integer constants are merged, 0 is dropped from sums and
// 1 from products, any 0 factor collapses a product to 0, products
// distribute over sums, singleton sums/products/maxima collapse to their
// child, and duplicate maximum arguments are removed. Simplify preserves
// denotation over N for every assignment of unknowns and variables
// (Eval(Simplify(p), env) == Eval(p, env)), and is confluent: the result
// does not depend on traversal order.
func Simplify(p Polynomial) Polynomial {
	switch n := p.(type) {
	case *Int, *Unknown, *Variable:
		return p
	case *Functional:
		args := make([]*Func, len(n.Args))
		for i, a := range n.Args {
			args[i] = &Func{Params: a.Params, Body: Simplify(a.Body)}
		}
		return &Functional{Index: n.Index, Args: args}
	case *Sum:
		return simplifySum(n)
	case *Product:
		return simplifyProduct(n)
	case *Max:
		return simplifyMax(n)
	default:
		return p
	}
}

func simplifySum(s *Sum) Polynomial {
	var flat []Polynomial
	total := 0
	for _, t := range s.Terms {
		st := Simplify(t)
		if sub, ok := st.(*Sum); ok {
			flat = append(flat, sub.Terms...)
			continue
		}
		flat = append(flat, st)
	}
	var kept []Polynomial
	for _, t := range flat {
		if lit, ok := t.(*Int); ok {
			total += lit.Value
			continue
		}
		kept = append(kept, t)
	}
	if total != 0 || len(kept) == 0 {
		kept = append(kept, NewInt(total))
	}
	sortCanonical(kept)
	if len(kept) == 1 {
		return kept[0]
	}
	return &Sum{Terms: kept}
}

func simplifyProduct(p *Product) Polynomial {
	var flat []Polynomial
	for _, f := range p.Factors {
		sf := Simplify(f)
		if sub, ok := sf.(*Product); ok {
			flat = append(flat, sub.Factors...)
			continue
		}
		flat = append(flat, sf)
	}
	total := 1
	var kept []Polynomial
	for _, f := range flat {
		if lit, ok := f.(*Int); ok {
			if lit.Value == 0 {
				return NewInt(0)
			}
			total *= lit.Value
			continue
		}
		kept = append(kept, f)
	}
	if total != 1 || len(kept) == 0 {
		kept = append(kept, NewInt(total))
	}

	// Distribute over any remaining Sum factor.
	for i, f := range kept {
		if sum, ok := f.(*Sum); ok {
			rest := append(append([]Polynomial{}, kept[:i]...), kept[i+1:]...)
			terms := make([]Polynomial, len(sum.Terms))
			for j, st := range sum.Terms {
				factors := append(append([]Polynomial{}, rest...), st)
				terms[j] = Simplify(&Product{Factors: factors})
			}
			return Simplify(&Sum{Terms: terms})
		}
	}

	sortCanonical(kept)
	if len(kept) == 1 {
		return kept[0]
	}
	return &Product{Factors: kept}
}

func simplifyMax(m *Max) Polynomial {
	var flat []Polynomial
	for _, a := range m.Args {
		sa := Simplify(a)
		if sub, ok := sa.(*Max); ok {
			flat = append(flat, sub.Args...)
			continue
		}
		flat = append(flat, sa)
	}
	flat = dedupePoly(flat)
	sortCanonical(flat)
	if len(flat) == 1 {
		return flat[0]
	}
	if len(flat) == 0 {
		return NewInt(0)
	}
	return &Max{Args: flat}
}

func sortCanonical(ps []Polynomial) {
	sort.SliceStable(ps, func(i, j int) bool { return Less(ps[i], ps[j]) })
}

func dedupePoly(ps []Polynomial) []Polynomial {
	var out []Polynomial
	for _, p := range ps {
		dup := false
		for _, q := range out {
			if Compare(p, q) == 0 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}
