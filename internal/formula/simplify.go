package formula

// Simplify rewrites phi to the canonical normal form spec.md §3
// describes: no Top/Bottom survives inside a compound unless the whole
// formula collapses to one, no Not survives (negation is pushed to atoms
// via De Morgan, flipping Atom.Negative), And/Or are flattened and
// duplicate-free, atoms are sorted to the front of each clause, and a
// forced atom (reg.Valuation != Unknown) is propagated immediately.
//
// Simplify is idempotent: Simplify(Simplify(phi)) is tree-identical to
// Simplify(phi), and denotationally equivalent as a Boolean function for
// every variable assignment.
func Simplify(phi Formula, reg *Registry) Formula {
	switch f := phi.(type) {
	case Top:
		return Top{}
	case Bottom:
		return Bottom{}

	case *Atom:
		if v := reg.Valuation(f.Var); v != Unknown {
			isTrue := (v == True) != f.Negative
			if isTrue {
				return Top{}
			}
			return Bottom{}
		}
		return f

	case *Not:
		return Simplify(pushNegation(f.Child), reg)

	case *And:
		return simplifyAnd(f.Children, reg)

	case *Or:
		return simplifyOr(f.Children, reg)

	default:
		return phi
	}
}

// pushNegation applies De Morgan's laws and atom flipping to move a Not
// one level down, without fully simplifying -- the caller re-enters
// Simplify on the result.
func pushNegation(phi Formula) Formula {
	switch f := phi.(type) {
	case Top:
		return Bottom{}
	case Bottom:
		return Top{}
	case *Atom:
		return &Atom{Var: f.Var, Negative: !f.Negative}
	case *Not:
		return f.Child
	case *And:
		children := make([]Formula, len(f.Children))
		for i, c := range f.Children {
			children[i] = MkNot(c)
		}
		return MkOr(children...)
	case *Or:
		children := make([]Formula, len(f.Children))
		for i, c := range f.Children {
			children[i] = MkNot(c)
		}
		return MkAnd(children...)
	default:
		return MkNot(phi)
	}
}

func simplifyAnd(children []Formula, reg *Registry) Formula {
	var flat []Formula
	for _, c := range children {
		sc := Simplify(c, reg)
		switch sc.(type) {
		case Bottom:
			return Bottom{}
		case Top:
			continue
		}
		if and, ok := sc.(*And); ok {
			flat = append(flat, and.Children...)
		} else {
			flat = append(flat, sc)
		}
	}
	flat = dedupe(flat)
	if len(flat) == 0 {
		return Top{}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &And{Children: sortFormulas(flat)}
}

func simplifyOr(children []Formula, reg *Registry) Formula {
	var flat []Formula
	for _, c := range children {
		sc := Simplify(c, reg)
		switch sc.(type) {
		case Top:
			return Top{}
		case Bottom:
			continue
		}
		if or, ok := sc.(*Or); ok {
			flat = append(flat, or.Children...)
		} else {
			flat = append(flat, sc)
		}
	}
	flat = dedupe(flat)
	if len(flat) == 0 {
		return Bottom{}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Or{Children: sortFormulas(flat)}
}

// dedupe removes structurally duplicate children, preserving order of
// first occurrence (shallow: atoms are compared by key, compound
// formulas by recursive string form, which is sufficient once their own
// subtrees have already been simplified into canonical form).
func dedupe(fs []Formula) []Formula {
	seen := map[string]bool{}
	out := make([]Formula, 0, len(fs))
	for _, f := range fs {
		key := formulaKey(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

func formulaKey(f Formula) string {
	if a, ok := f.(*Atom); ok {
		return atomKey(a)
	}
	return f.String(nil)
}
