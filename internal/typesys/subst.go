package typesys

import "fmt"

// Subst maps type variable indices to their replacement types. Application
// of a Subst is recursive (via Type.Substitute) and idempotent once the
// map has been saturated by the caller -- the map itself is never chased
// transitively by Substitute.
type Subst map[int]Type

// NewSubst creates an empty type substitution.
func NewSubst() Subst { return Subst{} }

// Extend binds idx to t in place, returning the receiver for chaining.
func (s Subst) Extend(idx int, t Type) Subst {
	s[idx] = t
	return s
}

// Instantiate extends theta in place so that self.Substitute(theta) (in a
// structural sense, without mutating self) would equal target, failing on
// constructor mismatch, arity mismatch, or an occurs-check violation.
// It mirrors the source's Type::instantiate: a partial match against an
// existing binding in theta must agree with target exactly.
func Instantiate(self, target Type, theta Subst) error {
	switch s := self.(type) {
	case *TypeVar:
		if existing, ok := theta[s.Index]; ok {
			if !existing.Equals(target) {
				return fmt.Errorf("typesys: inconsistent instantiation of type variable a%d: %s vs %s", s.Index, existing, target)
			}
			return nil
		}
		if occurs(s.Index, target) {
			return fmt.Errorf("typesys: occurs check failed instantiating a%d with %s", s.Index, target)
		}
		theta[s.Index] = target
		return nil

	case *DataType:
		t, ok := target.(*DataType)
		if !ok || t.Constructor != s.Constructor || len(t.Children) != len(s.Children) {
			return fmt.Errorf("typesys: cannot instantiate %s with %s: constructor/arity mismatch", s, target)
		}
		for i := range s.Children {
			if err := Instantiate(s.Children[i], t.Children[i], theta); err != nil {
				return err
			}
		}
		return nil

	case *Arrow:
		t, ok := target.(*Arrow)
		if !ok {
			return fmt.Errorf("typesys: cannot instantiate arrow %s with non-arrow %s", s, target)
		}
		if err := Instantiate(s.Left, t.Left, theta); err != nil {
			return err
		}
		return Instantiate(s.Right, t.Right, theta)

	default:
		return fmt.Errorf("typesys: unknown type variant %T", self)
	}
}

// occurs reports whether typevar idx occurs anywhere within t. Since type
// substitutions in this system are built incrementally from instantiation
// (never by unifying two variables against each other), a variable-only
// target cannot introduce a genuine cycle; the check still guards against
// a malformed theta being reused across proof attempts.
func occurs(idx int, t Type) bool {
	for _, v := range t.Vars() {
		if v == idx {
			return true
		}
	}
	return false
}
