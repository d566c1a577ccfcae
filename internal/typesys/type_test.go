package typesys

import "testing"

func nat() Type  { return NewDataType("Nat") }
func list(t Type) Type { return NewDataType("List", t) }

func TestCopyIsIndependent(t *testing.T) {
	tau := NewArrow(nat(), list(NewTypeVar(3)))
	cp := tau.Copy()

	if !cp.Equals(tau) {
		t.Fatalf("copy not equal to original: %s vs %s", cp, tau)
	}

	// Mutate the copy via Substitute and check the original is untouched.
	cp.Substitute(Subst{3: nat()})
	if tau.Equals(cp) {
		t.Fatalf("copy shares substructure with original")
	}
}

func TestEqualsStructural(t *testing.T) {
	a := NewArrow(nat(), nat())
	b := NewArrow(nat(), nat())
	if !a.Equals(b) {
		t.Fatalf("expected structurally equal arrows to compare equal")
	}

	c := NewArrow(nat(), list(nat()))
	if a.Equals(c) {
		t.Fatalf("expected different arrows to compare unequal")
	}
}

func TestCollapseReplacesDataTypes(t *testing.T) {
	tau := NewArrow(list(nat()), nat())
	collapsed := tau.Collapse()

	want := NewArrow(NewDataType(BaseType), NewDataType(BaseType))
	if !collapsed.Equals(want) {
		t.Fatalf("Collapse() = %s, want %s", collapsed, want)
	}
}

func TestSubstituteDestructive(t *testing.T) {
	v := NewTypeVar(0)
	tau := NewArrow(v, nat())
	theta := Subst{0: list(nat())}

	result := tau.Substitute(theta)
	want := NewArrow(list(nat()), nat())
	if !result.Equals(want) {
		t.Fatalf("Substitute() = %s, want %s", result, want)
	}
}

func TestInstantiateSolvesSubst(t *testing.T) {
	// self = a0 -> Nat, target = List(Nat) -> Nat
	self := NewArrow(NewTypeVar(0), nat())
	target := NewArrow(list(nat()), nat())

	theta := NewSubst()
	if err := Instantiate(self, target, theta); err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}
	if !theta[0].Equals(list(nat())) {
		t.Fatalf("theta[0] = %s, want %s", theta[0], list(nat()))
	}
}

func TestInstantiateConstructorMismatch(t *testing.T) {
	self := nat()
	target := list(nat())
	if err := Instantiate(self, target, NewSubst()); err == nil {
		t.Fatalf("expected constructor mismatch error, got nil")
	}
}

func TestInstantiateInconsistentBinding(t *testing.T) {
	self := NewArrow(NewTypeVar(0), NewTypeVar(0))
	target := NewArrow(nat(), list(nat()))
	if err := Instantiate(self, target, NewSubst()); err == nil {
		t.Fatalf("expected inconsistent-binding error, got nil")
	}
}

func TestVarsOrderOfOccurrence(t *testing.T) {
	tau := NewArrow(NewTypeVar(2), NewArrow(NewTypeVar(1), NewTypeVar(2)))
	vars := tau.Vars()
	want := []int{2, 1}
	if len(vars) != len(want) {
		t.Fatalf("Vars() = %v, want %v", vars, want)
	}
	for i := range want {
		if vars[i] != want[i] {
			t.Fatalf("Vars() = %v, want %v", vars, want)
		}
	}
}

func TestShortStringAssignsStableNames(t *testing.T) {
	naming := NewNaming()
	tau := NewArrow(NewTypeVar(5), NewTypeVar(5))
	s := tau.ShortString(naming)
	if s != "a->a" {
		t.Fatalf("ShortString() = %q, want %q", s, "a->a")
	}
}
