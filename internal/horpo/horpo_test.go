package horpo

import (
	"strings"
	"testing"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/order"
	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/term"
	"github.com/gitrdm/afsmterm/internal/typesys"
)

func nat() typesys.Type { return typesys.NewDataType("Nat") }

func TestHandleGreaterIsBottomForIdenticalTerms(t *testing.T) {
	ctx := proofctx.New()
	alpha := rule.NewAlphabet()
	problem, err := order.NewPlain(ctx, alpha, nil)
	if err != nil {
		t.Fatalf("NewPlain() error = %v", err)
	}
	h := New(ctx, problem)
	h.ctx = ctx

	x := term.NewVar(ctx.TermVars.Fresh(), nat(), false)
	c := &constraint{left: x, right: x, rel: relGreater}
	got := h.handleGreater(c)
	if got.Kind() != formula.KindBottom {
		t.Fatalf("handleGreater(x,x) = %v, want Bottom", got.Kind())
	}
}

// TestOrientOffersFilterAndMarkBranchesForSuccessorRule exercises the
// constraint-list fixpoint against the classic s(x) > x requirement: the
// top-level > constraint must offer both the "filter to an argument"
// disjunct and the "mark and reduce to >=stdr" disjunct, matching
// horpo.cpp's own Greater case split.
func TestOrientOffersFilterAndMarkBranchesForSuccessorRule(t *testing.T) {
	ctx := proofctx.New()
	alpha := rule.NewAlphabet()
	sArrow := typesys.NewArrow(nat(), nat())
	alpha.Declare("s", sArrow)

	x := term.NewVar(ctx.TermVars.Fresh(), nat(), false)
	sx := term.NewApp(term.NewConst("s", sArrow), x, nat())

	r := rule.NewRule(sx, x)
	problem, err := order.NewPlain(ctx, alpha, []*rule.Rule{r})
	if err != nil {
		t.Fatalf("NewPlain() error = %v", err)
	}

	h := New(ctx, problem)
	phi := h.Orient(ctx, problem)
	and, ok := phi.(*formula.And)
	if !ok || len(and.Children) == 0 {
		t.Fatalf("Orient() should return a non-empty top-level conjunction, got %T", phi)
	}

	idx, ok := h.index[constraintKey(sx, x, relGreater, false, nil, 0)]
	if !ok {
		t.Fatalf("constraint list has no record for s(x) > x")
	}
	c := h.list[idx]
	if len(c.branches) < 2 {
		t.Fatalf("s(x) > x should offer both a filter branch and a mark branch, got %d branches", len(c.branches))
	}
	var sawFilter, sawMark bool
	for _, b := range c.branches {
		if strings.Contains(b.label, "filter") {
			sawFilter = true
		}
		if strings.Contains(b.label, "mark") {
			sawMark = true
		}
	}
	if !sawFilter || !sawMark {
		t.Fatalf("branches = %+v, want both a filter and a mark branch", c.branches)
	}
}

// TestHandleCopyRequiresStrictPrecedence checks that a marked comparison
// between two distinct head symbols reduces, via Copy, to a conjunction
// gated on the precedence strictly preferring the left head -- not the
// unconditional success a stubbed implementation would offer.
func TestHandleCopyRequiresStrictPrecedence(t *testing.T) {
	ctx := proofctx.New()
	alpha := rule.NewAlphabet()
	sArrow := typesys.NewArrow(nat(), nat())
	alpha.Declare("f", sArrow)
	alpha.Declare("g", sArrow)

	problem, err := order.NewPlain(ctx, alpha, nil)
	if err != nil {
		t.Fatalf("NewPlain() error = %v", err)
	}
	h := New(ctx, problem)
	h.ctx = ctx

	zero := term.NewVar(ctx.TermVars.Fresh(), nat(), false)
	f := term.NewApp(term.NewConst("f", sArrow), zero, nat())
	g := term.NewApp(term.NewConst("g", sArrow), zero, nat())

	c := &constraint{left: f, right: g, rel: relCopy, marked: true}
	got := h.handleCopy(c)
	and, ok := got.(*formula.And)
	if !ok || len(and.Children) == 0 {
		t.Fatalf("handleCopy(f(0), g(0)) = %T, want a non-empty conjunction gated on precedence", got)
	}
	if len(c.branches) != 1 || !strings.Contains(c.branches[0].label, "Copy") {
		t.Fatalf("handleCopy should record one Copy branch, got %+v", c.branches)
	}
}

// TestAddMemoizesIdenticalConstraints checks that asking the same question
// twice (via the constraint list's memoization) returns the same variable
// rather than allocating a second one.
func TestAddMemoizesIdenticalConstraints(t *testing.T) {
	ctx := proofctx.New()
	alpha := rule.NewAlphabet()
	problem, err := order.NewPlain(ctx, alpha, nil)
	if err != nil {
		t.Fatalf("NewPlain() error = %v", err)
	}
	h := New(ctx, problem)
	h.ctx = ctx

	x := term.NewVar(ctx.TermVars.Fresh(), nat(), false)
	y := term.NewVar(ctx.TermVars.Fresh(), nat(), false)

	v1 := h.add(x, y, relGeq, false, nil, 0)
	v2 := h.add(x, y, relGeq, false, nil, 0)
	if v1 != v2 {
		t.Fatalf("add() allocated two variables for the same (x,y,>=) question: %d, %d", v1, v2)
	}
	if len(h.list) != 1 {
		t.Fatalf("constraint list should hold exactly one record, got %d", len(h.list))
	}
}

func TestOrientProducesOneBiconditionalPairPerRequirement(t *testing.T) {
	ctx := proofctx.New()
	alpha := rule.NewAlphabet()
	alpha.Declare("0", nat())
	alpha.Declare("s", typesys.NewArrow(nat(), nat()))

	zero := term.NewConst("0", nat())
	sArrow := typesys.NewArrow(nat(), nat())
	s := term.NewConst("s", sArrow)

	r := rule.NewRule(term.NewApp(s, zero, nat()), zero)
	problem, err := order.NewPlain(ctx, alpha, []*rule.Rule{r})
	if err != nil {
		t.Fatalf("NewPlain() error = %v", err)
	}
	h := New(ctx, problem)
	f := h.Orient(ctx, problem)
	and, ok := f.(*formula.And)
	if !ok {
		t.Fatalf("Orient() should return a top-level conjunction, got %T", f)
	}
	if len(and.Children) == 0 {
		t.Fatalf("Orient() conjunction has no clauses")
	}
}

// TestJustifyWritesSelectedBranch drives Justify by hand: it fixes the
// model's valuations to the "mark and reduce to >=stdr, then select
// argument 1" path and checks the rendered subproof names that path, not
// some other disjunct of the same constraint.
func TestJustifyWritesSelectedBranch(t *testing.T) {
	ctx := proofctx.New()
	alpha := rule.NewAlphabet()
	sArrow := typesys.NewArrow(nat(), nat())
	alpha.Declare("s", sArrow)

	x := term.NewVar(ctx.TermVars.Fresh(), nat(), false)
	sx := term.NewApp(term.NewConst("s", sArrow), x, nat())

	r := rule.NewRule(sx, x)
	problem, err := order.NewPlain(ctx, alpha, []*rule.Rule{r})
	if err != nil {
		t.Fatalf("NewPlain() error = %v", err)
	}

	h := New(ctx, problem)
	h.Orient(ctx, problem)

	ctx.Vars.SetValuation(problem.Requirements[0].StrictVar, formula.True)
	topIdx := h.index[constraintKey(sx, x, relGreater, false, nil, 0)]
	top := h.list[topIdx]

	var markBranch *branch
	for i := range top.branches {
		if strings.Contains(top.branches[i].label, "mark") {
			markBranch = &top.branches[i]
		}
	}
	if markBranch == nil {
		t.Fatalf("expected a mark branch on the top-level > constraint")
	}
	ctx.Vars.SetValuation(markBranch.child, formula.True)
	stdr := h.byVar[markBranch.child]
	if stdr == nil {
		t.Fatalf("mark branch child %d is not in byVar", markBranch.child)
	}
	for _, b := range stdr.branches {
		if strings.Contains(b.label, "Select") {
			ctx.Vars.SetValuation(b.child, formula.True)
		} else if b.child >= 0 {
			ctx.Vars.SetValuation(b.child, formula.False)
		}
	}

	h.Justify(ctx, problem)
	out := ctx.FinalOutput()
	if !strings.Contains(out, "mark") {
		t.Fatalf("Justify() output = %q, want it to mention the mark step that fired", out)
	}
	if !strings.Contains(out, "Select") {
		t.Fatalf("Justify() output = %q, want it to mention the select step that fired", out)
	}
}
