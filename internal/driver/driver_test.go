package driver

import (
	"testing"

	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/sat"
	"github.com/gitrdm/afsmterm/internal/term"
	"github.com/gitrdm/afsmterm/internal/typesys"
)

func nat() typesys.Type { return typesys.NewDataType("Nat") }

func plusRules(ctr *term.Counter) (*rule.Alphabet, []*rule.Rule) {
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

	return alpha, []*rule.Rule{rule1, rule2}
}

func TestProveReportsYesForPlusZeroS(t *testing.T) {
	ctx := proofctx.New()
	ctr := term.NewCounter()
	alpha, rules := plusRules(ctr)

	verdict, err := Prove(ctx, alpha, rules, sat.Embedded{})
	if err != nil {
		t.Fatalf("Prove() error = %v", err)
	}
	if verdict != Yes {
		t.Fatalf("Prove() = %v, want Yes", verdict)
	}
}

func TestProveReportsYesForSuccessorStrictlyDecreasing(t *testing.T) {
	ctx := proofctx.New()
	ctr := term.NewCounter()
	alpha := rule.NewAlphabet()
	alpha.Declare("s", typesys.NewArrow(nat(), nat()))

	sArrow := typesys.NewArrow(nat(), nat())
	s := term.NewConst("s", sArrow)
	x := term.NewVar(ctr.Fresh(), nat(), false)
	sx := term.NewApp(s, x, nat())
	r := rule.NewRule(sx, x)

	verdict, err := Prove(ctx, alpha, []*rule.Rule{r}, sat.Embedded{})
	if err != nil {
		t.Fatalf("Prove() error = %v", err)
	}
	if verdict != Yes {
		t.Fatalf("Prove() = %v, want Yes", verdict)
	}
}

func TestProveReportsNoForObviousSelfLoop(t *testing.T) {
	ctx := proofctx.New()
	ctr := term.NewCounter()
	alpha := rule.NewAlphabet()
	alpha.Declare("loop", typesys.NewArrow(nat(), nat()))

	loop := term.NewConst("loop", typesys.NewArrow(nat(), nat()))
	x := term.NewVar(ctr.Fresh(), nat(), false)
	left := term.NewApp(loop, x, nat())
	right := term.NewApp(loop, x, nat())
	r := rule.NewRule(left, right)

	verdict, err := Prove(ctx, alpha, []*rule.Rule{r}, sat.Embedded{})
	if err != nil {
		t.Fatalf("Prove() error = %v", err)
	}
	if verdict != No {
		t.Fatalf("Prove() = %v, want No", verdict)
	}
}

func TestSubtractRulesRemovesByIdentity(t *testing.T) {
	ctr := term.NewCounter()
	_, rules := plusRules(ctr)
	remaining := subtractRules(rules, []*rule.Rule{rules[0]})
	if len(remaining) != 1 || remaining[0] != rules[1] {
		t.Fatalf("subtractRules() = %v, want only rules[1]", remaining)
	}
}
