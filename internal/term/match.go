package term

import (
	"github.com/gitrdm/afsmterm/internal/typesys"
)

// Instantiate tries to find (theta, gamma) such that self, after applying
// theta to its types and gamma to its free variables, equals t exactly.
// self must be a pattern (see IsPattern): every meta-application's
// argument list is pairwise-distinct bound variables. bound tracks the
// set of variables currently bound by an enclosing abstraction of self,
// by index.
//
// Matching rules per variant:
//   - Const matches another Const of the same name and (after type-
//     instantiation) the same type.
//   - A bound Var matches only its bound partner in t (tracked via ren).
//     A free Var acts as a linear placeholder: if gamma(x) is unset, t
//     must not reference any variable currently in `bound`; otherwise
//     gamma(x) must equal t structurally.
//   - App matches componentwise.
//   - Abs matches another Abs, extending the renaming over the shared
//     binder.
//   - MetaApp Z[x1..xn] matches any t whose free variables lie within
//     {x1..xn}; gamma(Z) becomes t abstracted over x1..xn. Non-left-
//     linear rules (Z occurring more than once) require the new image to
//     equal the existing one structurally.
func Instantiate(self, t MetaTerm, theta typesys.Subst, gamma Subst, ren map[int]int, bound map[int]bool) bool {
	switch s := self.(type) {
	case *Const:
		o, ok := t.(*Const)
		if !ok || o.Name != s.Name {
			return false
		}
		return typesys.Instantiate(s.Typ, o.Typ, theta) == nil

	case *Var:
		if s.Bound {
			o, ok := t.(*Var)
			if !ok || !o.Bound {
				return false
			}
			if mapped, has := ren[s.Index]; has {
				return mapped == o.Index
			}
			return s.Index == o.Index
		}
		if existing, ok := gamma[s.Index]; ok {
			return existing.Equals(t, map[int]int{})
		}
		for _, fv := range t.FreeVar(true) {
			if bound[fv] {
				return false
			}
		}
		gamma[s.Index] = t
		return true

	case *App:
		o, ok := t.(*App)
		if !ok {
			return false
		}
		return Instantiate(s.Fun, o.Fun, theta, gamma, ren, bound) &&
			Instantiate(s.Arg, o.Arg, theta, gamma, ren, bound)

	case *Abs:
		o, ok := t.(*Abs)
		if !ok {
			return false
		}
		ren[s.Head.Index] = o.Head.Index
		bound[s.Head.Index] = true
		defer func() {
			delete(ren, s.Head.Index)
			delete(bound, s.Head.Index)
		}()
		return Instantiate(s.Body, o.Body, theta, gamma, ren, bound)

	case *MetaApp:
		argVars := make([]*Var, len(s.Args))
		for i, a := range s.Args {
			v, ok := a.(*Var)
			if !ok || !v.Bound {
				return false
			}
			argVars[i] = v
		}
		allowed := map[int]bool{}
		for _, v := range argVars {
			allowed[v.Index] = true
		}
		for _, fv := range t.FreeVar(true) {
			if !allowed[fv] {
				// fv may still be allowed if it is a variable bound
				// outside self's scope that happens to also be free in
				// t but not one of the pattern's own bound variables --
				// per the pattern discipline this is disallowed.
				return false
			}
		}
		image := abstractOver(t, argVars)
		if existing, ok := gamma[s.Meta.Index]; ok {
			return existing.Equals(image, map[int]int{})
		}
		gamma[s.Meta.Index] = image
		return true

	default:
		return false
	}
}

// abstractOver builds lambda vars[0]...vars[n-1].t, used to build the
// meta-variable image during pattern matching.
func abstractOver(t MetaTerm, vars []*Var) MetaTerm {
	result := t
	for i := len(vars) - 1; i >= 0; i-- {
		result = NewAbs(vars[i], result)
	}
	return result
}

// Match is a convenience wrapper around Instantiate for top-level
// matching of a closed pattern against a closed term.
func Match(pattern, t MetaTerm) (typesys.Subst, Subst, bool) {
	theta := typesys.NewSubst()
	gamma := NewSubst()
	ok := Instantiate(pattern, t, theta, gamma, map[int]int{}, map[int]bool{})
	return theta, gamma, ok
}
