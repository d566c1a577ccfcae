package driver

import (
	"go.uber.org/multierr"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/horpo"
	"github.com/gitrdm/afsmterm/internal/order"
	"github.com/gitrdm/afsmterm/internal/poly"
	"github.com/gitrdm/afsmterm/internal/polyinterp"
	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/sat"
	"github.com/gitrdm/afsmterm/internal/smt"
)

// Verdict is the engine's three-valued termination answer.
type Verdict int

const (
	Maybe Verdict = iota
	Yes
	No
)

func (v Verdict) String() string {
	switch v {
	case Yes:
		return "YES"
	case No:
		return "NO"
	default:
		return "MAYBE"
	}
}

// Solver is the SAT backend Prove hands its CNF to; callers pick
// sat.Embedded or sat.External.
type Solver = sat.Solver

// method is one orientation attempt: given the currently-live rules, it
// returns the subset it can strictly orient, or a KindMethodAborted
// error when it has nothing to contribute.
type method func(ctx *proofctx.Context, alpha *rule.Alphabet, rules []*rule.Rule, solver Solver) ([]*rule.Rule, error)

// Prove runs the rule-removal loop ruleremover.cpp's shape describes:
// repeatedly try each orientation method against whatever rules are
// still unoriented, remove every rule the first successful method
// strictly decreases, and start over. It stops either because no rules
// remain (every rule was eventually oriented: Yes) or because a full
// round of methods removed nothing further, at which point the two
// non-termination detectors decide between No and Maybe.
func Prove(ctx *proofctx.Context, alpha *rule.Alphabet, rules []*rule.Rule, solver Solver) (Verdict, error) {
	remaining := append([]*rule.Rule{}, rules...)

	for len(remaining) > 0 {
		oriented, err := attemptRemoval(ctx, alpha, remaining, solver)
		if err != nil {
			return Maybe, err
		}
		if len(oriented) == 0 {
			break
		}
		remaining = subtractRules(remaining, oriented)
	}

	if len(remaining) == 0 {
		return Yes, nil
	}
	if _, loops := ObviousLoop(remaining); loops {
		return No, nil
	}
	if UntypedEmbedding(alpha, remaining) {
		return No, nil
	}
	return Maybe, nil
}

// attemptRemoval tries the polynomial method without base-type products,
// then with them, then HORPO, in that order -- the same escalation
// spec.md §4.8 lays out, cheapest method first.
func attemptRemoval(ctx *proofctx.Context, alpha *rule.Alphabet, remaining []*rule.Rule, solver Solver) ([]*rule.Rule, error) {
	methods := []method{
		tryPolynomial(false),
		tryPolynomial(true),
		tryHorpo,
	}
	var aborts error
	for _, m := range methods {
		ctx.Reset()
		oriented, err := m(ctx, alpha, remaining, solver)
		if err != nil {
			if proofctx.IsKind(err, proofctx.KindMethodAborted) || proofctx.IsKind(err, proofctx.KindSolverTimeout) {
				aborts = multierr.Append(aborts, err)
				continue
			}
			return nil, err
		}
		if len(oriented) > 0 {
			return oriented, nil
		}
	}
	// Every method either aborted or found no strict decrease; none of
	// that is fatal to the overall proof attempt (the caller falls back
	// to the loop/embedding checks), but the combined reason is worth
	// keeping for --debug narration.
	if aborts != nil {
		ctx.Log.Debugf("round exhausted without progress: %v", aborts)
	}
	return nil, nil
}

// tryPolynomial builds one polynomial-interpretation attempt. It only
// applies to monomorphic systems; within that restriction it interprets
// every requirement, reduces the resulting comparison to monomial
// coefficients (internal/polyinterp.MonomialConstraints), bit-blasts
// those with internal/smt, and solves the combined formula.
func tryPolynomial(withProducts bool) method {
	return func(ctx *proofctx.Context, alpha *rule.Alphabet, rules []*rule.Rule, solver Solver) ([]*rule.Rule, error) {
		problem, err := order.NewPlain(ctx, alpha, rules)
		if err != nil {
			return nil, err
		}
		if !polyinterp.Monomorphic(problem.Requirements) {
			return nil, proofctx.Aborted("polynomial method: system is not monomorphic")
		}
		interps, err := polyinterp.Synthesize(ctx, alpha, problem, withProducts)
		if err != nil {
			return nil, err
		}
		constraints := polyinterp.Emit(ctx, alpha, problem, interps)

		blaster := smt.NewBlaster(ctx, smt.MaxBits+1)
		clauses := append([]formula.Formula{}, problem.Side...)
		for _, c := range constraints {
			weak, err := polyBound(blaster, c.L, c.R, false)
			if err != nil {
				return nil, proofctx.Aborted("polynomial method: %v", err)
			}
			strict, err := polyBound(blaster, c.L, c.R, true)
			if err != nil {
				return nil, proofctx.Aborted("polynomial method: %v", err)
			}
			clauses = append(clauses,
				formula.MkOr(formula.Neg(c.Req.StrictVar), strict),
				formula.MkOr(formula.Pos(c.Req.StrictVar), weak),
			)
		}
		// No symbol is filterable under a PlainOrdering (NewPlain never
		// calls EnsureArgFiltered), so FilterConstraints is always empty
		// here; the call stays for parity with the DP-mode driver this
		// package will grow once dependency-pair orderings are wired in.
		_ = polyinterp.FilterConstraints(problem, interps)

		return solveAndOrient(ctx, problem, formula.MkAnd(clauses...), rules, solver)
	}
}

// polyBound reduces l `cmp` r (cmp being >= or, when strict, >) to a
// single propositional formula: decompose both sides into monomial
// coefficients, and require every one of those ground coefficient
// comparisons to hold (strictness only demanded of the constant
// monomial, per the simplification internal/polyinterp.MonomialConstraints
// documents). Each individual comparison is first run through
// smt.Preprocess so a monomial that is already decided by its bounds
// never reaches bit-blasting.
func polyBound(blaster *smt.Blaster, l, r poly.Polynomial, strict bool) (formula.Formula, error) {
	var parts []formula.Formula
	for _, mc := range polyinterp.MonomialConstraints(l, r, strict) {
		remaining, decided := smt.Preprocess([]smt.Constraint{{L: mc.L, R: mc.R, Strict: mc.Strict}})
		if decided {
			return formula.Bottom{}, nil
		}
		if len(remaining) == 0 {
			parts = append(parts, formula.Top{})
			continue
		}
		f, err := blaster.Encode(smt.Constraint{L: remaining[0].L, R: remaining[0].R, Strict: remaining[0].Strict})
		if err != nil {
			return nil, err
		}
		parts = append(parts, f)
	}
	return formula.MkAnd(parts...), nil
}

// tryHorpo builds one HORPO orientation attempt and solves it directly;
// Orient already yields a complete propositional formula, with no
// arithmetic layer to bit-blast.
func tryHorpo(ctx *proofctx.Context, alpha *rule.Alphabet, rules []*rule.Rule, solver Solver) ([]*rule.Rule, error) {
	problem, err := order.NewPlain(ctx, alpha, rules)
	if err != nil {
		return nil, err
	}
	h := horpo.New(ctx, problem)
	phi := h.Orient(ctx, problem)
	oriented, err := solveAndOrient(ctx, problem, phi, rules, solver)
	if err != nil {
		return nil, err
	}
	h.Justify(ctx, problem)
	return oriented, nil
}

// solveAndOrient Tseitin-encodes phi, hands it to solver, and reads back
// which rules' StrictVar the model set to true.
func solveAndOrient(ctx *proofctx.Context, problem *order.Problem, phi formula.Formula, rules []*rule.Rule, solver Solver) ([]*rule.Rule, error) {
	simplified := formula.Simplify(phi, ctx.Vars)
	cnf := formula.ToCNF(simplified, ctx.Vars, true)
	res, err := solver.Solve(cnf, ctx.Vars.Len())
	if err != nil {
		return nil, err
	}
	if !res.Sat {
		return nil, proofctx.Aborted("no satisfying orientation exists for this method")
	}
	sat.ApplyModel(ctx.Vars, res)
	relaxIrrelevantConstraints(ctx, cnf, problem)

	var oriented []*rule.Rule
	for i, req := range problem.Requirements {
		if i >= len(rules) {
			break
		}
		if ctx.Vars.Valuation(req.StrictVar) == formula.True {
			oriented = append(oriented, rules[i])
		}
	}
	if len(oriented) == 0 {
		return nil, proofctx.Aborted("orientation found but no rule strictly decreased")
	}
	return oriented, nil
}

// irrelevantSweepRetries bounds how many passes relaxIrrelevantConstraints
// spends re-scanning candidates whose flip just unblocked another
// candidate, carried as a fixed constant the same way smt.cpp's own
// retry loop is (see DESIGN.md).
const irrelevantSweepRetries = 10

// relaxIrrelevantConstraints maximises how many rules end up strictly
// oriented beyond the SAT model's bare minimum: every requirement's
// StrictVar the model left False is a candidate for flipping to True, as
// long as doing so cannot falsify any clause of cnf that the model
// currently satisfies only through that variable's negative occurrence.
// Flipping one candidate can unblock another (a clause that needed both
// to stay False may only have been blocked by one of them), so the sweep
// repeats until a pass finds nothing left to flip or it runs out of
// retries.
func relaxIrrelevantConstraints(ctx *proofctx.Context, cnf *formula.CNFResult, problem *order.Problem) {
	candidates := make([]int, 0, len(problem.Requirements))
	for _, req := range problem.Requirements {
		candidates = append(candidates, req.StrictVar)
	}
	for pass := 0; pass < irrelevantSweepRetries; pass++ {
		changed := false
		for _, v := range candidates {
			if v == formula.ForcedFalse || v == formula.ForcedTrue {
				continue
			}
			if ctx.Vars.Valuation(v) != formula.False {
				continue
			}
			if isIrrelevant(ctx.Vars, cnf, v) {
				ctx.Vars.SetValuation(v, formula.True)
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// isIrrelevant reports whether variable v's current False valuation can
// be relaxed to True without falsifying any clause of cnf: every clause
// containing v's negative literal must already be satisfied by some
// other, independently-True literal.
func isIrrelevant(reg *formula.Registry, cnf *formula.CNFResult, v int) bool {
	negLit := formula.Lit(v, true)
	for _, clause := range cnf.Clauses {
		hasNeg := false
		satisfiedByOther := false
		for _, lit := range clause {
			if lit == negLit {
				hasNeg = true
				continue
			}
			if literalTrue(reg, lit) {
				satisfiedByOther = true
			}
		}
		if hasNeg && !satisfiedByOther {
			return false
		}
	}
	return true
}

func literalTrue(reg *formula.Registry, lit int) bool {
	v := formula.PosVar(lit)
	val := reg.Valuation(v)
	if formula.IsNegated(lit) {
		return val == formula.False
	}
	return val == formula.True
}

func subtractRules(rules, remove []*rule.Rule) []*rule.Rule {
	removeSet := make(map[*rule.Rule]bool, len(remove))
	for _, r := range remove {
		removeSet[r] = true
	}
	out := make([]*rule.Rule, 0, len(rules))
	for _, r := range rules {
		if !removeSet[r] {
			out = append(out, r)
		}
	}
	return out
}
