package rule

import (
	"testing"

	"github.com/gitrdm/afsmterm/internal/term"
	"github.com/gitrdm/afsmterm/internal/typesys"
)

func nat() typesys.Type { return typesys.NewDataType("Nat") }

func TestValidRulePlusZero(t *testing.T) {
	ctr := term.NewCounter()
	natArrow := typesys.NewArrow(nat(), nat())
	plus := term.NewConst("plus", typesys.NewArrow(nat(), natArrow))
	zero := term.NewConst("0", nat())
	y := term.NewMetaApp(term.NewVar(ctr.Fresh(), nat(), false), nil, nat())

	// left: plus(0, Y)   right: Y
	left := term.NewApp(term.NewApp(plus, zero, natArrow), y, nat())
	r := NewRule(left, y)

	if !r.Valid() {
		t.Fatalf("expected valid rule, got invalid: %s", r.Reason())
	}
}

func TestInvalidRuleNotHeadedByConstant(t *testing.T) {
	ctr := term.NewCounter()
	f := term.NewVar(ctr.Fresh(), typesys.NewArrow(nat(), nat()), false)
	x := term.NewVar(ctr.Fresh(), nat(), false)
	left := term.NewApp(f, x, nat())
	r := NewRule(left, x)

	if r.Valid() {
		t.Fatalf("expected invalid rule (no constant head)")
	}
	if r.Reason() == "" {
		t.Fatalf("expected a non-empty reason string")
	}
}

func TestInvalidRuleRightIntroducesMetavar(t *testing.T) {
	ctr := term.NewCounter()
	c := term.NewConst("c", nat())
	left := c
	rightMeta := term.NewVar(ctr.Fresh(), nat(), false)
	right := term.NewMetaApp(rightMeta, nil, nat())

	r := NewRule(left, right)
	if r.Valid() {
		t.Fatalf("expected invalid rule: right-hand meta-variable not in left")
	}
}

func TestValidRuleEmptyRHSMetavarsNonEmptyLHS(t *testing.T) {
	// A rule with empty rhs-free-metavars but non-empty lhs-free-metavars
	// is valid (spec.md §8 boundary behavior).
	ctr := term.NewCounter()
	zVar := term.NewVar(ctr.Fresh(), typesys.NewArrow(nat(), nat()), false)
	x := term.NewVar(ctr.Fresh(), nat(), true)
	meta := term.NewMetaApp(zVar, []term.MetaTerm{x}, nat())
	head := term.NewConst("f", typesys.NewArrow(nat(), nat()))
	fLeft := term.NewApp(head, meta, nat())
	zero := term.NewConst("0", nat())

	r := NewRule(fLeft, zero)
	if !r.Valid() {
		t.Fatalf("expected valid rule, got: %s", r.Reason())
	}
}
