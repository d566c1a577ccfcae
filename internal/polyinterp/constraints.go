package polyinterp

import (
	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/order"
	"github.com/gitrdm/afsmterm/internal/poly"
	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
)

// Constraint is one orient-requirement reduced to a pair of polynomials:
// req.StrictVar demands L > R, its negation demands L >= R.
type Constraint struct {
	Req  *order.Requirement
	L, R poly.Polynomial
}

// Emit interprets every requirement in problem under interps, producing
// one Constraint per requirement. The side formulas recorded on problem
// (problem.Side) are not included in the result.
func Emit(ctx *proofctx.Context, alpha *rule.Alphabet, problem *order.Problem, interps map[string]*Interpretation) []*Constraint {
	out := make([]*Constraint, 0, len(problem.Requirements))
	for _, req := range problem.Requirements {
		l := poly.Simplify(Interpret(req.Left, interps))
		r := poly.Simplify(Interpret(req.Right, interps))
		out = append(out, &Constraint{Req: req, L: l, R: r})
	}
	return out
}

// ToFormula renders a Constraint as the propositional formula tying its
// strict-variable to the ground arithmetic facts "L >= R" (always
// required) and "L > R" (required exactly when req.StrictVar holds):
//
//	(StrictVar -> L > R) AND (!StrictVar -> L >= R)
//
// strictAtom/weakAtom name the two fresh comparison atoms this
// requirement needs from the SMT layer (internal/smt owns their actual
// arithmetic meaning; this layer only wires the propositional shape).
func ToFormula(ctx *proofctx.Context, c *Constraint, strictAtom, weakAtom int) formula.Formula {
	strict := formula.Pos(c.Req.StrictVar)
	return formula.MkAnd(
		formula.MkOr(formula.Neg(c.Req.StrictVar), formula.Pos(strictAtom)),
		formula.MkOr(strict, formula.Pos(weakAtom)),
	)
}

// FilterSideConstraints builds the "coefficient must be 0 when the
// argument is filtered away" constraints the original source's
// filter_check enforces: for every base-type coefficient a_i belonging
// to symbol f's argument i, if i is filtered (ArgFiltered true) then a_i
// collapses to 0. Represented here as a pair (filterVar, coeff) standing
// for "filterVar -> a_i == 0"; nothing in the SMT layer consumes these
// pairs.
type FilterSideConstraint struct {
	FilterVar int
	Coeff     *poly.Unknown
}

// FilterConstraints collects one FilterSideConstraint per base-type
// coefficient of every interpretation, keyed to the problem's
// FilteredVariable for that symbol/position.
func FilterConstraints(problem *order.Problem, interps map[string]*Interpretation) []FilterSideConstraint {
	var out []FilterSideConstraint
	for name, in := range interps {
		for i, kind := range in.ArgKinds {
			if kind != ArgBase {
				continue
			}
			fv := problem.FilteredVariable(name, i+1)
			if fv == formula.ForcedFalse {
				continue
			}
			out = append(out, FilterSideConstraint{FilterVar: fv, Coeff: in.Coeff[i]})
		}
	}
	return out
}
