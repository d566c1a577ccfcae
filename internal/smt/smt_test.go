package smt

import (
	"testing"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/poly"
	"github.com/gitrdm/afsmterm/internal/proofctx"
)

func TestEncodeConstantConstraint(t *testing.T) {
	ctx := proofctx.New()
	b := NewBlaster(ctx, 4)
	f, err := b.Encode(Constraint{L: poly.NewInt(3), R: poly.NewInt(2), Strict: false})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	simplified := formula.Simplify(f, ctx.Vars)
	if _, ok := simplified.(formula.Top); !ok {
		t.Fatalf("Encode(3>=2) simplified to %v, want Top", simplified)
	}
}

func TestEncodeConstantConstraintFalse(t *testing.T) {
	ctx := proofctx.New()
	b := NewBlaster(ctx, 4)
	f, err := b.Encode(Constraint{L: poly.NewInt(1), R: poly.NewInt(3), Strict: false})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	simplified := formula.Simplify(f, ctx.Vars)
	if _, ok := simplified.(formula.Bottom); !ok {
		t.Fatalf("Encode(1>=3) simplified to %v, want Bottom", simplified)
	}
}

func TestEncodeUnknownPlusConstant(t *testing.T) {
	ctx := proofctx.New()
	b := NewBlaster(ctx, 4)
	a := poly.NewUnknown(ctx.PolyVars.Fresh(), 0, 3)
	l := poly.NewSum(a, poly.NewInt(1))
	f, err := b.Encode(Constraint{L: l, R: poly.NewInt(1), Strict: false})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if f == nil {
		t.Fatalf("Encode() returned nil formula")
	}
}

func TestEncodeRejectsVariable(t *testing.T) {
	ctx := proofctx.New()
	b := NewBlaster(ctx, 4)
	_, err := b.Encode(Constraint{L: poly.NewVariable(0), R: poly.NewInt(0), Strict: false})
	if err == nil {
		t.Fatalf("expected NotBitBlastable error for a free variable")
	}
	if _, ok := err.(*NotBitBlastable); !ok {
		t.Fatalf("expected *NotBitBlastable, got %T", err)
	}
}

func TestPreprocessDropsGroundTrueConstraint(t *testing.T) {
	cs := []Constraint{{L: poly.NewInt(5), R: poly.NewInt(2), Strict: false}}
	remaining, decided := Preprocess(cs)
	if decided {
		t.Fatalf("a ground-true constraint should not mark the batch decided-false")
	}
	if len(remaining) != 0 {
		t.Fatalf("expected the ground-true constraint to be dropped, got %d remaining", len(remaining))
	}
}

func TestPreprocessDetectsGroundFalseConstraint(t *testing.T) {
	cs := []Constraint{{L: poly.NewInt(1), R: poly.NewInt(5), Strict: false}}
	_, decided := Preprocess(cs)
	if !decided {
		t.Fatalf("a ground-false constraint should mark the batch unsatisfiable")
	}
}

func TestPreprocessTightensUnknownBound(t *testing.T) {
	u := poly.NewUnknown(0, 0, 10)
	cs := []Constraint{{L: poly.NewInt(3), R: u, Strict: false}}
	Preprocess(cs)
	if u.Max != 3 {
		t.Fatalf("u.Max = %d, want 3 after obvious_propagate tightening", u.Max)
	}
}
