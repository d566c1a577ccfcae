// Package horpo implements the higher-order recursive path ordering
// (HORPO, C8): a constraint-list fixpoint over two meta-terms, reduced to
// a propositional formula over precedence, status, permutation and
// argument-filtering variables so the SAT layer can search for a
// consistent choice of all of them at once.
package horpo

import (
	"fmt"
	"sort"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/order"
	"github.com/gitrdm/afsmterm/internal/proofctx"
)

// Vars holds the auxiliary propositional variables horpo.cpp's
// create_basic_variables allocates once per symbol (or symbol pair) up
// front, plus the per-argument-position families (ArgFiltered,
// ArgLengthMin, Permutation) it allocates lazily the first time a
// comparison actually needs them.
type Vars struct {
	symbolFiltered map[string]int
	lex            map[string]int
	minimal        map[string]int
	argFiltered    map[string]map[int]int // f -> (1-based position -> var)
	argLengthMin   map[[2]int]int         // [symbol-id, position] -> var
	permutation    map[[3]int]int         // [symbol-id, i, j] -> "pi(i)=j" or "A(j)=i"
	precGr         map[[2]string]int
	precEq         map[[2]string]int

	symbolID map[string]int

	// axioms accumulates structural clauses introduced by lazily-allocated
	// variable families (e.g. the ArgLengthMin/ArgFiltered tie and the
	// SymbolFiltered "at least one argument survives" implication). It is
	// only complete once the constraint-list fixpoint has finished
	// allocating every variable it needs, so callers must read it after
	// running the fixpoint, not before.
	axioms []formula.Formula
}

// NewVars allocates the per-symbol variable families for every name the
// problem's alphabet observes, following horpo.cpp's
// create_basic_variables/save_precedence_constraints split: a strict
// precedence and an equal-precedence atom for every ordered pair of
// distinct symbols, plus one symbol-filtered/lex/minimal atom per symbol.
func NewVars(ctx *proofctx.Context, problem *order.Problem) *Vars {
	names := problem.SortedNames()
	v := &Vars{
		symbolFiltered: map[string]int{},
		lex:            map[string]int{},
		minimal:        map[string]int{},
		argFiltered:    map[string]map[int]int{},
		argLengthMin:   map[[2]int]int{},
		permutation:    map[[3]int]int{},
		precGr:         map[[2]string]int{},
		precEq:         map[[2]string]int{},
		symbolID:       map[string]int{},
	}
	for i, name := range names {
		v.symbolID[name] = i
		v.symbolFiltered[name] = ctx.Vars.Fresh("symbolfiltered:" + name)
		v.lex[name] = ctx.Vars.Fresh("lex:" + name)
		v.minimal[name] = ctx.Vars.Fresh("minimal:" + name)
	}
	for _, f := range names {
		for _, g := range names {
			if f == g {
				continue
			}
			key := [2]string{f, g}
			v.precGr[key] = ctx.Vars.Fresh("precgr:" + f + ">" + g)
			v.precEq[key] = ctx.Vars.Fresh("preceq:" + f + "=" + g)
		}
	}
	return v
}

// SymbolFiltered returns the "symbol f collapses to one of its own
// arguments" propositional variable for f.
func (v *Vars) SymbolFiltered(f string) int { return v.symbolFiltered[f] }

// Lex returns the "symbol f uses a lexicographic (rather than multiset)
// status" variable for f.
func (v *Vars) Lex(f string) int { return v.lex[f] }

// Minimal returns the "symbol f is forced minimal in the precedence"
// variable for f.
func (v *Vars) Minimal(f string) int { return v.minimal[f] }

// ArgFiltered returns the "argument i (1-based) of f is filtered away"
// variable, allocating it lazily the first time a comparison actually
// needs to ask about that position -- horpo.cpp only allocates these for
// symbols that occur applied, never for the whole alphabet up front.
func (v *Vars) ArgFiltered(ctx *proofctx.Context, f string, i int) int {
	m, ok := v.argFiltered[f]
	if !ok {
		m = map[int]int{}
		v.argFiltered[f] = m
	}
	if idx, ok := m[i]; ok {
		return idx
	}
	idx := ctx.Vars.Fresh(fmt.Sprintf("argfiltered:%s:%d", f, i))
	m[i] = idx
	return idx
}

// ArgLengthMin returns the "position i of f survives argument filtering"
// cumulative-length indicator for f at position i, tied by a structural
// axiom to ArgFiltered[f,i] the first time it is allocated (a
// position-indexed simplification of the original's running-count
// indicator -- see DESIGN.md).
func (v *Vars) ArgLengthMin(ctx *proofctx.Context, f string, i int) int {
	id := v.symbolID[f]
	key := [2]int{id, i}
	if idx, ok := v.argLengthMin[key]; ok {
		return idx
	}
	idx := ctx.Vars.Fresh(fmt.Sprintf("arglenmin:%s:%d", f, i))
	v.argLengthMin[key] = idx
	af := v.ArgFiltered(ctx, f, i)
	v.axioms = append(v.axioms,
		formula.MkOr(formula.Neg(idx), formula.Neg(af)),
		formula.MkOr(formula.Pos(idx), formula.Pos(af)))
	return idx
}

// PrecGr returns the "f is strictly above g in the precedence" variable,
// or formula.ForcedFalse if f == g.
func (v *Vars) PrecGr(f, g string) int {
	if f == g {
		return formula.ForcedFalse
	}
	return v.precGr[[2]string{f, g}]
}

// PrecEq returns the "f and g are precedence-equal" variable, or
// formula.ForcedTrue if f == g.
func (v *Vars) PrecEq(f, g string) int {
	if f == g {
		return formula.ForcedTrue
	}
	return v.precEq[[2]string{f, g}]
}

// Permutation returns the "the Fun/Stat correspondence of f maps position
// i to position j" variable, allocating the family for f lazily the first
// time it is asked about (horpo.cpp defers this to save_constraints, as
// it is only needed for symbols that actually occur with >1 argument on
// both sides of a same-root comparison). The same family serves both the
// lexicographic bijection search and the multiset injection search (see
// DESIGN.md's "Scope reductions from the original").
func (v *Vars) Permutation(ctx *proofctx.Context, f string, i, j int) int {
	id := v.symbolID[f]
	key := [3]int{id, i, j}
	if idx, ok := v.permutation[key]; ok {
		return idx
	}
	idx := ctx.Vars.Fresh("perm:" + f)
	v.permutation[key] = idx
	return idx
}

// Axioms returns every structural clause introduced by lazily-allocated
// variable families. It must be read after the constraint-list fixpoint
// has finished running (internal/horpo.Horpo.Orient calls it last), since
// earlier reads would miss axioms from families allocated mid-fixpoint.
func (v *Vars) Axioms() []formula.Formula { return v.axioms }

// PrecedenceConstraints returns the structural axioms any consistent
// precedence choice must satisfy: strictness and equality are mutually
// exclusive, equality is reflexive/symmetric (transitivity is left to the
// SAT search), and a symbol forced Minimal can never sit strictly above
// another symbol, matching horpo.cpp's save_precedence_constraints.
func (v *Vars) PrecedenceConstraints(names []string) []formula.Formula {
	var out []formula.Formula
	sorted := append([]string{}, names...)
	sort.Strings(sorted)
	for _, f := range sorted {
		for _, g := range sorted {
			if f >= g {
				continue
			}
			gr := v.PrecGr(f, g)
			grRev := v.PrecGr(g, f)
			eq := v.PrecEq(f, g)
			out = append(out, formula.MkOr(formula.Neg(gr), formula.Neg(eq)))
			out = append(out, formula.MkOr(formula.Neg(grRev), formula.Neg(eq)))
			out = append(out, formula.MkOr(formula.Neg(gr), formula.Neg(grRev)))
			out = append(out, formula.MkOr(formula.Neg(eq), formula.Pos(v.PrecEq(g, f))))
			out = append(out, formula.MkOr(formula.Neg(v.PrecEq(g, f)), formula.Pos(eq)))
		}
	}
	for _, f := range sorted {
		minimal := v.Minimal(f)
		for _, g := range sorted {
			if f == g {
				continue
			}
			out = append(out, formula.MkOr(formula.Neg(minimal), formula.Neg(v.PrecGr(f, g))))
		}
	}
	return out
}
