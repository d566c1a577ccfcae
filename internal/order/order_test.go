package order

import (
	"testing"

	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
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

func TestNewPlainBuildsOneRequirementPerRule(t *testing.T) {
	ctx := proofctx.New()
	ctr := term.NewCounter()
	alpha, rules := plusRules(ctr)

	p, err := NewPlain(ctx, alpha, rules)
	if err != nil {
		t.Fatalf("NewPlain() error = %v", err)
	}
	if len(p.Requirements) != 2 {
		t.Fatalf("len(Requirements) = %d, want 2", len(p.Requirements))
	}
	if len(p.Side) != 1 {
		t.Fatalf("expected one at-least-one-strict side constraint, got %d", len(p.Side))
	}
	if p.ArityOf("plus") != 2 {
		t.Fatalf("ArityOf(plus) = %d, want 2", p.ArityOf("plus"))
	}
}

func TestNewPlainFailsOnUndeclaredSymbol(t *testing.T) {
	ctx := proofctx.New()
	ctr := term.NewCounter()
	alpha := rule.NewAlphabet() // empty: nothing declared
	_, rules := plusRules(ctr)

	_, err := NewPlain(ctx, alpha, rules)
	if err == nil {
		t.Fatalf("expected malformed-input error for undeclared symbols")
	}
	if !proofctx.IsKind(err, proofctx.KindMalformed) {
		t.Fatalf("expected KindMalformed, got %v", err)
	}
}
