package term

import "github.com/gitrdm/afsmterm/internal/typesys"

// Subst maps free-variable and meta-variable indices to their replacement
// terms (gamma in the spec). Application via ApplySubst is capture-
// avoiding by construction: every Copy performed while substituting under
// a binder alpha-renames that binder first, so a replacement term's free
// variables can never be captured.
type Subst map[int]MetaTerm

// NewSubst creates an empty substitution.
func NewSubst() Subst { return Subst{} }

// ApplySubst replaces every free occurrence of a variable or meta-
// variable bound by gamma with its image, producing a fresh alpha-renamed
// copy of the image at each substitution site.
func ApplySubst(t MetaTerm, gamma Subst, ctr *Counter) MetaTerm {
	switch n := t.(type) {
	case *Const:
		return n
	case *Var:
		if n.Bound {
			return n
		}
		if repl, ok := gamma[n.Index]; ok {
			return repl.Copy(ctr)
		}
		return n
	case *Abs:
		fresh := &Var{Index: ctr.Fresh(), Typ: n.Head.Typ, Bound: true}
		body := renameCopy(n.Body, n.Head.Index, fresh.Index, ctr)
		return &Abs{Head: fresh, Body: ApplySubst(body, gamma, ctr), Typ: n.Typ}
	case *App:
		return &App{Fun: ApplySubst(n.Fun, gamma, ctr), Arg: ApplySubst(n.Arg, gamma, ctr), Typ: n.Typ}
	case *MetaApp:
		if repl, ok := gamma[n.Meta.Index]; ok {
			// repl is expected to be a lambda-abstracted image over
			// len(n.Args) bound variables (built during matching); beta-
			// reduce it against the (already-substituted) arguments.
			args := make([]MetaTerm, len(n.Args))
			for i, a := range n.Args {
				args[i] = ApplySubst(a, gamma, ctr)
			}
			return betaReduceN(repl.Copy(ctr), args, ctr)
		}
		args := make([]MetaTerm, len(n.Args))
		for i, a := range n.Args {
			args[i] = ApplySubst(a, gamma, ctr)
		}
		return &MetaApp{Meta: n.Meta, Args: args, Typ: n.Typ}
	default:
		return t
	}
}

// betaReduceN applies `fun` (expected to be a chain of abstractions) to
// args in order, beta-reducing one abstraction per argument.
func betaReduceN(fun MetaTerm, args []MetaTerm, ctr *Counter) MetaTerm {
	result := fun
	for _, arg := range args {
		abs, ok := result.(*Abs)
		if !ok {
			// Fewer binders than arguments: re-apply normally.
			result = &App{Fun: result, Arg: arg, Typ: resultType(result.Type())}
			continue
		}
		result = ApplySubst(abs.Body, Subst{abs.Head.Index: arg}, ctr)
	}
	return result
}

func resultType(t typesys.Type) typesys.Type {
	if a, ok := t.(*typesys.Arrow); ok {
		return a.Right
	}
	return t
}

// FreeVarClosed reports whether applying gamma to t keeps its free
// variables within (t.FreeVar(true) \ dom(gamma)) union the free
// variables of every image in gamma -- the invariant from spec.md's
// testable properties.
func FreeVarClosed(t MetaTerm, gamma Subst) bool {
	after := ApplySubst(t, gamma, NewCounter())
	afterFree := map[int]bool{}
	for _, v := range after.FreeVar(true) {
		afterFree[v] = true
	}

	allowed := map[int]bool{}
	for _, v := range t.FreeVar(true) {
		if _, bound := gamma[v]; !bound {
			allowed[v] = true
		}
	}
	for _, img := range gamma {
		for _, v := range img.FreeVar(true) {
			allowed[v] = true
		}
	}
	for v := range afterFree {
		if !allowed[v] {
			return false
		}
	}
	return true
}
