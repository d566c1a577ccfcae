package polyinterp

import (
	"testing"

	"github.com/gitrdm/afsmterm/internal/order"
	"github.com/gitrdm/afsmterm/internal/poly"
	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/term"
	"github.com/gitrdm/afsmterm/internal/typesys"
)

func nat() typesys.Type { return typesys.NewDataType("Nat") }

func plusProblem(t *testing.T) (*proofctx.Context, *rule.Alphabet, *order.Problem) {
	ctx := proofctx.New()
	ctr := term.NewCounter()
	alpha := rule.NewAlphabet()
	alpha.Declare("0", nat())
	alpha.Declare("s", typesys.NewArrow(nat(), nat()))
	alpha.Declare("plus", typesys.NewArrow(nat(), typesys.NewArrow(nat(), nat())))

	natArrow := typesys.NewArrow(nat(), nat())
	plus := term.NewConst("plus", typesys.NewArrow(nat(), natArrow))
	zero := term.NewConst("0", nat())
	s := term.NewConst("s", natArrow)

	y1 := term.NewVar(ctr.Fresh(), nat(), false)
	rule1Left := term.NewApp(term.NewApp(plus, zero, natArrow), y1, nat())
	rule1 := rule.NewRule(rule1Left, y1)

	x := term.NewVar(ctr.Fresh(), nat(), false)
	y2 := term.NewVar(ctr.Fresh(), nat(), false)
	sx := term.NewApp(s, x, nat())
	rule2Left := term.NewApp(term.NewApp(plus, sx, natArrow), y2, nat())
	rule2Right := term.NewApp(s, term.NewApp(term.NewApp(plus, x, natArrow), y2, nat()), nat())
	rule2 := rule.NewRule(rule2Left, rule2Right)

	p, err := order.NewPlain(ctx, alpha, []*rule.Rule{rule1, rule2})
	if err != nil {
		t.Fatalf("NewPlain() error = %v", err)
	}
	return ctx, alpha, p
}

func TestMonomorphicAcceptsGroundNatSystem(t *testing.T) {
	_, _, p := plusProblem(t)
	if !Monomorphic(p.Requirements) {
		t.Fatalf("expected the plus/0/s system to be monomorphic")
	}
}

func TestSynthesizeOneInterpretationPerSymbol(t *testing.T) {
	ctx, alpha, p := plusProblem(t)
	interps, err := Synthesize(ctx, alpha, p, false)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	for _, name := range []string{"0", "s", "plus"} {
		if _, ok := interps[name]; !ok {
			t.Fatalf("missing interpretation for %q", name)
		}
	}
	if len(interps["plus"].Coeff) != 2 {
		t.Fatalf("plus should have 2 argument coefficients, got %d", len(interps["plus"].Coeff))
	}
}

func TestEmitProducesOneConstraintPerRequirement(t *testing.T) {
	ctx, alpha, p := plusProblem(t)
	interps, err := Synthesize(ctx, alpha, p, false)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	cs := Emit(ctx, alpha, p, interps)
	if len(cs) != len(p.Requirements) {
		t.Fatalf("len(constraints) = %d, want %d", len(cs), len(p.Requirements))
	}
}

func TestTrivialCheckIdenticalSidesForcesWeakTrue(t *testing.T) {
	l := poly.NewVariable(0)
	r := poly.NewVariable(0)
	if got := TrivialCheck(l, r, false); got != ForcedTrue {
		t.Fatalf("TrivialCheck(x>=x) = %v, want ForcedTrue", got)
	}
	if got := TrivialCheck(l, r, true); got != Undecided {
		t.Fatalf("TrivialCheck(x>x) = %v, want Undecided", got)
	}
}

func TestTrivialCheckConstants(t *testing.T) {
	if got := TrivialCheck(poly.NewInt(3), poly.NewInt(2), false); got != ForcedTrue {
		t.Fatalf("TrivialCheck(3>=2) = %v, want ForcedTrue", got)
	}
	if got := TrivialCheck(poly.NewInt(2), poly.NewInt(3), false); got != ForcedFalse {
		t.Fatalf("TrivialCheck(2>=3) = %v, want ForcedFalse", got)
	}
}

func TestRemoveDuplicatesCancelsSharedSummands(t *testing.T) {
	a := poly.NewVariable(0)
	b := poly.NewVariable(1)
	l := poly.NewSum(a, b, a) // a+b+a
	r := poly.NewSum(a, poly.NewVariable(2))
	nl, nr := RemoveDuplicates(l, r)
	if poly.Compare(nl, poly.Simplify(poly.NewSum(a, b))) != 0 {
		t.Fatalf("left after dedup = %v, want a+b", nl)
	}
	if poly.Compare(nr, poly.Simplify(poly.NewVariable(2))) != 0 {
		t.Fatalf("right after dedup = %v, want x2", nr)
	}
}

func TestSplitMaxDistributesOverMaxOnRight(t *testing.T) {
	r := poly.NewMax(poly.NewVariable(0), poly.NewVariable(1))
	branches := SplitMax(r)
	if len(branches) != 2 {
		t.Fatalf("len(branches) = %d, want 2", len(branches))
	}
}
