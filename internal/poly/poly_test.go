package poly

import "testing"

func TestSimplifyDropsZeroInSum(t *testing.T) {
	p := NewSum(NewVariable(0), NewInt(0))
	got := Simplify(p)
	if got.String() != "x0" {
		t.Fatalf("Simplify() = %s, want x0", got.String())
	}
}

func TestSimplifyZeroFactorCollapsesProduct(t *testing.T) {
	p := NewProduct(NewInt(0), NewVariable(0))
	got := Simplify(p)
	if got.String() != "0" {
		t.Fatalf("Simplify() = %s, want 0", got.String())
	}
}

func TestSimplifyDistributesProductOverSum(t *testing.T) {
	p := NewProduct(NewVariable(0), NewSum(NewVariable(1), NewInt(1)))
	got := Simplify(p)
	if got.Kind() != KindSum {
		t.Fatalf("expected Sum after distribution, got %s (%s)", got.String(), kindName(got.Kind()))
	}
}

func TestSimplifyCollapsesSingletonMax(t *testing.T) {
	p := NewMax(NewVariable(2))
	got := Simplify(p)
	if got.Kind() != KindVariable {
		t.Fatalf("expected Variable, got %s", got.String())
	}
}

func TestSimplifyDedupesMaxArgs(t *testing.T) {
	p := NewMax(NewVariable(0), NewVariable(0), NewInt(3))
	got := Simplify(p)
	m, ok := got.(*Max)
	if !ok || len(m.Args) != 2 {
		t.Fatalf("expected deduped Max with 2 args, got %s", got.String())
	}
}

func TestComparIsTotalOrder(t *testing.T) {
	a := NewVariable(1)
	b := NewVariable(2)
	c := NewInt(5)

	if Compare(a, b) != -Compare(b, a) {
		t.Fatalf("Compare not antisymmetric")
	}
	// transitivity smoke check on variant-tag ordering
	if !(Compare(c, a) < 0 && Compare(a, b) < 0 && Compare(c, b) < 0) {
		t.Fatalf("Compare not transitive across variants")
	}
}

func TestSimplifyPreservesDenotation(t *testing.T) {
	p := NewProduct(NewSum(NewVariable(0), NewInt(2)), NewVariable(1))
	simplified := Simplify(p)

	env := &Env{Unknowns: map[int]int{}, Variables: map[int]int{0: 3, 1: 4}}
	want := Eval(p, env)
	got := Eval(simplified, env)
	if got != want {
		t.Fatalf("Eval(Simplify(p)) = %d, want Eval(p) = %d", got, want)
	}
}

func kindName(k Kind) string {
	switch k {
	case KindInt:
		return "Int"
	case KindUnknown:
		return "Unknown"
	case KindVariable:
		return "Variable"
	case KindFunctional:
		return "Functional"
	case KindSum:
		return "Sum"
	case KindProduct:
		return "Product"
	case KindMax:
		return "Max"
	default:
		return "?"
	}
}
