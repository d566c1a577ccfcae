package formula

import "testing"

func TestSimplifyEmptyAndIsTop(t *testing.T) {
	reg := NewRegistry()
	got := Simplify(MkAnd(), reg)
	if got.Kind() != KindTop {
		t.Fatalf("Simplify(empty And) = %v, want Top", got)
	}
}

func TestSimplifyEmptyOrIsBottom(t *testing.T) {
	reg := NewRegistry()
	got := Simplify(MkOr(), reg)
	if got.Kind() != KindBottom {
		t.Fatalf("Simplify(empty Or) = %v, want Bottom", got)
	}
}

func TestSimplifySingletonCollapses(t *testing.T) {
	reg := NewRegistry()
	x := reg.Fresh("x")
	got := Simplify(MkAnd(Pos(x)), reg)
	if got.Kind() != KindAtom {
		t.Fatalf("Simplify(singleton And) = %v, want Atom", got)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	reg := NewRegistry()
	x, y := reg.Fresh("x"), reg.Fresh("y")
	phi := MkAnd(MkOr(Pos(x), Pos(x)), MkNot(MkNot(Pos(y))), Top{})

	once := Simplify(phi, reg)
	twice := Simplify(once, reg)

	if once.String(reg) != twice.String(reg) {
		t.Fatalf("Simplify not idempotent: %s vs %s", once.String(reg), twice.String(reg))
	}
}

func TestSimplifyPropagatesForcedAtom(t *testing.T) {
	reg := NewRegistry()
	x := reg.Fresh("x")
	reg.SetValuation(x, False)

	phi := MkOr(Pos(x), Pos(reg.Fresh("y")))
	got := Simplify(phi, reg)
	if got.Kind() != KindAtom {
		t.Fatalf("expected forced-false disjunct dropped, got %v", got.String(reg))
	}
}

func TestSimplifyDeMorgan(t *testing.T) {
	reg := NewRegistry()
	x, y := reg.Fresh("x"), reg.Fresh("y")
	phi := MkNot(MkAnd(Pos(x), Pos(y)))
	got := Simplify(phi, reg)
	or, ok := got.(*Or)
	if !ok || len(or.Children) != 2 {
		t.Fatalf("expected De Morgan to produce an Or of 2, got %v", got.String(reg))
	}
}

func TestToCNFEquisatisfiable(t *testing.T) {
	reg := NewRegistry()
	x, y := reg.Fresh("x"), reg.Fresh("y")
	phi := Simplify(MkAnd(Pos(x), MkOr(Pos(y), Pos(x))), reg)

	cnf := ToCNF(phi, reg, true)
	if len(cnf.Clauses) == 0 {
		t.Fatalf("expected non-empty CNF clause list")
	}
}

func TestLitRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, 7} {
		for _, neg := range []bool{false, true} {
			lit := Lit(v, neg)
			if PosVar(lit) != v {
				t.Fatalf("PosVar(Lit(%d,%v)) = %d, want %d", v, neg, PosVar(lit), v)
			}
			if IsNegated(lit) != neg {
				t.Fatalf("IsNegated(Lit(%d,%v)) = %v, want %v", v, neg, IsNegated(lit), neg)
			}
		}
	}
}
