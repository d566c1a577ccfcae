package formula

// Clause is a disjunction of signed literals in DIMACS convention: a
// literal for Registry variable v is encoded as v+1 when positive and
// -(v+1) when negative, so variable 0 (the reserved ForcedFalse atom)
// still has a literal distinguishable from its negation.
type Clause []int

// Lit builds the literal for variable v, negated when neg is true.
func Lit(v int, neg bool) int {
	if neg {
		return -(v + 1)
	}
	return v + 1
}

// PosVar recovers the Registry variable index a literal refers to.
func PosVar(lit int) int {
	if lit < 0 {
		return -lit - 1
	}
	return lit - 1
}

// IsNegated reports whether a literal is a negative occurrence.
func IsNegated(lit int) bool { return lit < 0 }

// Negate flips the sign of a literal.
func Negate(lit int) int { return -lit }

// CNFResult is the conjunction-of-clauses form of a formula, plus the
// literal that stands for the formula's truth value in the surrounding
// context (useful when callers need to assert "this subformula holds"
// without re-emitting its clauses).
type CNFResult struct {
	Clauses []Clause
	Top     int // literal equivalent to phi
}

// ToCNF converts phi (assumed already Simplify-d) to conjunctive normal
// form, introducing one fresh atom per compound subformula. When
// biconditional is true, each fresh atom g gets the full biconditional
// g <-> subformula (both directions of clauses) -- required when the
// subformula's truth value may be asserted negatively elsewhere
// ("negation-relevant", per spec.md §3); when false, only the forward
// direction (g -> subformula) is emitted, which suffices for goal
// formulas that are only ever asserted positively.
//
// ToCNF(ToCNF(phi)) is equisatisfiable with ToCNF(phi): re-Tseitin-
// encoding an already-flat CNF produces one fresh atom per clause that is
// logically equivalent to, though not syntactically identical to, the
// input.
func ToCNF(phi Formula, reg *Registry, biconditional bool) *CNFResult {
	res := &CNFResult{}
	top := tseitin(phi, reg, biconditional, res)
	res.Top = top
	res.Clauses = append(res.Clauses, Clause{top})
	return res
}

func tseitin(phi Formula, reg *Registry, bicond bool, res *CNFResult) int {
	switch f := phi.(type) {
	case Top:
		return Lit(ForcedTrue, false)
	case Bottom:
		return Lit(ForcedFalse, false)
	case *Atom:
		return Lit(f.Var, f.Negative)
	case *And:
		lits := make([]int, len(f.Children))
		for i, c := range f.Children {
			lits[i] = tseitin(c, reg, bicond, res)
		}
		g := reg.Fresh("and")
		gLit := Lit(g, false)
		for _, l := range lits {
			res.Clauses = append(res.Clauses, Clause{Negate(gLit), l})
		}
		if bicond {
			cl := Clause{gLit}
			for _, l := range lits {
				cl = append(cl, Negate(l))
			}
			res.Clauses = append(res.Clauses, cl)
		}
		return gLit
	case *Or:
		lits := make([]int, len(f.Children))
		for i, c := range f.Children {
			lits[i] = tseitin(c, reg, bicond, res)
		}
		g := reg.Fresh("or")
		gLit := Lit(g, false)
		cl := Clause{Negate(gLit)}
		cl = append(cl, lits...)
		res.Clauses = append(res.Clauses, cl)
		if bicond {
			for _, l := range lits {
				res.Clauses = append(res.Clauses, Clause{gLit, Negate(l)})
			}
		}
		return gLit
	case *Not:
		return Negate(tseitin(f.Child, reg, bicond, res))
	default:
		return Lit(ForcedFalse, false)
	}
}
