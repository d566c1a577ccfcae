// Package term implements the typed meta-term algebra: constants, (free
// and bound) variables, abstractions, applications and meta-applications,
// together with positions, free-variable sets, structural equality up to
// bound-variable renaming, and capture-avoiding substitution.
package term

import (
	"fmt"
	"strings"

	"github.com/gitrdm/afsmterm/internal/typesys"
)

// Kind discriminates the five MetaTerm variants.
type Kind int

const (
	KindConst Kind = iota
	KindVar
	KindAbs
	KindApp
	KindMetaApp
)

// MetaTerm is the common interface for every term variant. Each subterm
// carries a computed type consistent with its parent; copying renames
// bound variables to fresh indices (an "alpha-fresh copy"), which is what
// makes substitution capture-avoiding by construction.
type MetaTerm interface {
	Kind() Kind
	// Type returns the (shared, not copied) type of this term.
	Type() typesys.Type
	// Copy produces an alpha-fresh deep copy: every bound variable
	// introduced within is replaced by a fresh one, using ctr to mint
	// fresh indices.
	Copy(ctr *Counter) MetaTerm
	// Equals checks structural equality up to bound-variable renaming,
	// tracked by ren (a map from this term's bound-variable indices to
	// other's).
	Equals(other MetaTerm, ren map[int]int) bool
	// String renders the term.
	String() string
	// FreeVar returns the free (meta-)variable indices of the term. When
	// includeMetavars is false, meta-variables are omitted.
	FreeVar(includeMetavars bool) []int
	// FreeTypeVar returns the free type-variable indices occurring in the
	// term's types.
	FreeTypeVar() []int
	// ApplySubst applies a type substitution to every type annotation
	// within the term, destructively.
	ApplySubst(theta typesys.Subst) MetaTerm
	// At returns the subterm at the given position, or nil if the
	// position does not exist. Positions use '1'/'2' for
	// application/abstraction children and '0'+i for meta-argument i.
	At(pos string) MetaTerm
}

// Counter mints process-unique, monotonically increasing integers for
// fresh term variables and meta-variables. A Counter belongs to exactly
// one proof attempt (see proofctx.Context) and must not be shared across
// concurrent attempts.
type Counter struct{ next int }

// NewCounter creates a counter starting at 0.
func NewCounter() *Counter { return &Counter{} }

// Fresh returns the next unused index.
func (c *Counter) Fresh() int {
	idx := c.next
	c.next++
	return idx
}

// Const is a named constant, e.g. a function symbol occurrence. The same
// name may appear with different instance types (a polymorphic symbol
// instantiated differently at different occurrences).
type Const struct {
	Name string
	Typ  typesys.Type
}

func NewConst(name string, typ typesys.Type) *Const { return &Const{Name: name, Typ: typ} }

func (c *Const) Kind() Kind           { return KindConst }
func (c *Const) Type() typesys.Type   { return c.Typ }
func (c *Const) Copy(ctr *Counter) MetaTerm { return &Const{Name: c.Name, Typ: c.Typ.Copy()} }
func (c *Const) String() string       { return c.Name }

func (c *Const) Equals(other MetaTerm, ren map[int]int) bool {
	o, ok := other.(*Const)
	return ok && o.Name == c.Name && o.Typ.Equals(c.Typ)
}

func (c *Const) FreeVar(includeMetavars bool) []int { return nil }
func (c *Const) FreeTypeVar() []int                 { return c.Typ.Vars() }

func (c *Const) ApplySubst(theta typesys.Subst) MetaTerm {
	c.Typ = c.Typ.Substitute(theta)
	return c
}

func (c *Const) At(pos string) MetaTerm {
	if pos == "" {
		return c
	}
	return nil
}

// Var is a logic variable, free or bound, identified by a process-unique
// integer minted from a Counter.
type Var struct {
	Index int
	Typ   typesys.Type
	Bound bool
}

func NewVar(index int, typ typesys.Type, bound bool) *Var {
	return &Var{Index: index, Typ: typ, Bound: bound}
}

func (v *Var) Kind() Kind         { return KindVar }
func (v *Var) Type() typesys.Type { return v.Typ }

func (v *Var) Copy(ctr *Counter) MetaTerm {
	// A free Copy never needs to rename: only the binder that introduces
	// a bound variable mints a fresh index for it (see Abs.Copy); plain
	// references to that index are rewritten via the ren map threaded by
	// the binder. A bare Var.Copy (e.g. copying a free variable, or a
	// bound variable outside of an enclosing Abs.Copy) simply clones the
	// type.
	return &Var{Index: v.Index, Typ: v.Typ.Copy(), Bound: v.Bound}
}

func (v *Var) String() string { return fmt.Sprintf("x%d", v.Index) }

func (v *Var) Equals(other MetaTerm, ren map[int]int) bool {
	o, ok := other.(*Var)
	if !ok {
		return false
	}
	if v.Bound != o.Bound {
		return false
	}
	if v.Bound {
		mapped, has := ren[v.Index]
		if has {
			return mapped == o.Index
		}
		return v.Index == o.Index
	}
	return v.Index == o.Index
}

func (v *Var) FreeVar(includeMetavars bool) []int {
	if v.Bound {
		return nil
	}
	return []int{v.Index}
}

func (v *Var) FreeTypeVar() []int { return v.Typ.Vars() }

func (v *Var) ApplySubst(theta typesys.Subst) MetaTerm {
	v.Typ = v.Typ.Substitute(theta)
	return v
}

func (v *Var) At(pos string) MetaTerm {
	if pos == "" {
		return v
	}
	return nil
}

// Abs is a lambda abstraction binding Head in Body.
type Abs struct {
	Head *Var
	Body MetaTerm
	Typ  typesys.Type
}

// NewAbs builds lambda Head.Body; Typ is Head.Typ -> Body.Type().
func NewAbs(head *Var, body MetaTerm) *Abs {
	return &Abs{Head: head, Body: body, Typ: typesys.NewArrow(head.Typ.Copy(), body.Type().Copy())}
}

func (a *Abs) Kind() Kind         { return KindAbs }
func (a *Abs) Type() typesys.Type { return a.Typ }

func (a *Abs) Copy(ctr *Counter) MetaTerm {
	freshIdx := ctr.Fresh()
	fresh := &Var{Index: freshIdx, Typ: a.Head.Typ.Copy(), Bound: true}
	body := renameCopy(a.Body, a.Head.Index, freshIdx, ctr)
	return &Abs{Head: fresh, Body: body, Typ: a.Typ.Copy()}
}

// renameCopy performs an alpha-fresh copy of t, additionally renaming any
// occurrence of the bound variable `from` into `to` as it recurses under
// the same binder (shadowing by an inner Abs of the same original index
// stops the rename at that point).
func renameCopy(t MetaTerm, from, to int, ctr *Counter) MetaTerm {
	switch n := t.(type) {
	case *Const:
		return n.Copy(ctr)
	case *Var:
		if n.Bound && n.Index == from {
			return &Var{Index: to, Typ: n.Typ.Copy(), Bound: true}
		}
		return n.Copy(ctr)
	case *Abs:
		if n.Head.Index == from {
			// shadowed: copy normally (fresh-renames this binder too)
			return n.Copy(ctr)
		}
		freshIdx := ctr.Fresh()
		fresh := &Var{Index: freshIdx, Typ: n.Head.Typ.Copy(), Bound: true}
		body := renameCopy(n.Body, from, to, ctr)
		body = renameCopy(body, n.Head.Index, freshIdx, ctr)
		return &Abs{Head: fresh, Body: body, Typ: n.Typ.Copy()}
	case *App:
		return &App{Fun: renameCopy(n.Fun, from, to, ctr), Arg: renameCopy(n.Arg, from, to, ctr), Typ: n.Typ.Copy()}
	case *MetaApp:
		args := make([]MetaTerm, len(n.Args))
		for i, a := range n.Args {
			args[i] = renameCopy(a, from, to, ctr)
		}
		return &MetaApp{Meta: n.Meta, Args: args, Typ: n.Typ.Copy()}
	default:
		return t.Copy(ctr)
	}
}

func (a *Abs) String() string {
	return fmt.Sprintf("\\%s.%s", a.Head.String(), a.Body.String())
}

func (a *Abs) Equals(other MetaTerm, ren map[int]int) bool {
	o, ok := other.(*Abs)
	if !ok {
		return false
	}
	prev, had := ren[a.Head.Index]
	ren[a.Head.Index] = o.Head.Index
	eq := a.Body.Equals(o.Body, ren)
	if had {
		ren[a.Head.Index] = prev
	} else {
		delete(ren, a.Head.Index)
	}
	return eq
}

func (a *Abs) FreeVar(includeMetavars bool) []int { return a.Body.FreeVar(includeMetavars) }
func (a *Abs) FreeTypeVar() []int                 { return unionVars(a.Head.Typ.Vars(), a.Body.FreeTypeVar()) }

func (a *Abs) ApplySubst(theta typesys.Subst) MetaTerm {
	a.Head.Typ = a.Head.Typ.Substitute(theta)
	a.Body = a.Body.ApplySubst(theta)
	a.Typ = a.Typ.Substitute(theta)
	return a
}

func (a *Abs) At(pos string) MetaTerm {
	if pos == "" {
		return a
	}
	if pos[0] == '2' {
		return a.Body.At(pos[1:])
	}
	return nil
}

// App is a binary application s*t.
type App struct {
	Fun, Arg MetaTerm
	Typ      typesys.Type
}

// NewApp builds s*t; Typ must be the output type of Fun's arrow type.
func NewApp(fun, arg MetaTerm, typ typesys.Type) *App {
	return &App{Fun: fun, Arg: arg, Typ: typ}
}

func (a *App) Kind() Kind         { return KindApp }
func (a *App) Type() typesys.Type { return a.Typ }

func (a *App) Copy(ctr *Counter) MetaTerm {
	return &App{Fun: a.Fun.Copy(ctr), Arg: a.Arg.Copy(ctr), Typ: a.Typ.Copy()}
}

func (a *App) String() string { return fmt.Sprintf("%s*%s", paren(a.Fun), paren(a.Arg)) }

func paren(t MetaTerm) string {
	if t.Kind() == KindAbs {
		return "(" + t.String() + ")"
	}
	return t.String()
}

func (a *App) Equals(other MetaTerm, ren map[int]int) bool {
	o, ok := other.(*App)
	return ok && a.Fun.Equals(o.Fun, ren) && a.Arg.Equals(o.Arg, ren)
}

func (a *App) FreeVar(includeMetavars bool) []int {
	return unionVars(a.Fun.FreeVar(includeMetavars), a.Arg.FreeVar(includeMetavars))
}

func (a *App) FreeTypeVar() []int { return unionVars(a.Fun.FreeTypeVar(), a.Arg.FreeTypeVar()) }

func (a *App) ApplySubst(theta typesys.Subst) MetaTerm {
	a.Fun = a.Fun.ApplySubst(theta)
	a.Arg = a.Arg.ApplySubst(theta)
	a.Typ = a.Typ.Substitute(theta)
	return a
}

func (a *App) At(pos string) MetaTerm {
	if pos == "" {
		return a
	}
	switch pos[0] {
	case '1':
		return a.Fun.At(pos[1:])
	case '2':
		return a.Arg.At(pos[1:])
	default:
		return nil
	}
}

// Split returns the left spine of an application: the term at the bottom
// of the spine (any variant) and the list of arguments it was applied
// to, outermost last.
func Split(t MetaTerm) (head MetaTerm, args []MetaTerm) {
	for {
		a, ok := t.(*App)
		if !ok {
			return t, args
		}
		args = append([]MetaTerm{a.Arg}, args...)
		t = a.Fun
	}
}

// QueryHead returns the head of t's left spine (see Split). It is never
// nil; it may be any variant (e.g. a bare abstraction or meta-app), so
// callers check its type.
func QueryHead(t MetaTerm) MetaTerm {
	head, _ := Split(t)
	return head
}

// MetaApp is Z[t1,...,tn]: a meta-variable Z applied to n argument terms.
// n = 0 denotes a plain meta-variable.
type MetaApp struct {
	Meta *Var // a free variable used as the meta-variable's identity
	Args []MetaTerm
	Typ  typesys.Type
}

func NewMetaApp(meta *Var, args []MetaTerm, typ typesys.Type) *MetaApp {
	return &MetaApp{Meta: meta, Args: args, Typ: typ}
}

func (m *MetaApp) Kind() Kind         { return KindMetaApp }
func (m *MetaApp) Type() typesys.Type { return m.Typ }

func (m *MetaApp) Copy(ctr *Counter) MetaTerm {
	args := make([]MetaTerm, len(m.Args))
	for i, a := range m.Args {
		args[i] = a.Copy(ctr)
	}
	meta := m.Meta.Copy(ctr).(*Var)
	return &MetaApp{Meta: meta, Args: args, Typ: m.Typ.Copy()}
}

func (m *MetaApp) String() string {
	if len(m.Args) == 0 {
		return fmt.Sprintf("Z%d", m.Meta.Index)
	}
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("Z%d[%s]", m.Meta.Index, strings.Join(parts, ","))
}

func (m *MetaApp) Equals(other MetaTerm, ren map[int]int) bool {
	o, ok := other.(*MetaApp)
	if !ok || m.Meta.Index != o.Meta.Index || len(m.Args) != len(o.Args) {
		return false
	}
	for i := range m.Args {
		if !m.Args[i].Equals(o.Args[i], ren) {
			return false
		}
	}
	return true
}

func (m *MetaApp) FreeVar(includeMetavars bool) []int {
	var out []int
	if includeMetavars {
		out = append(out, m.Meta.Index)
	}
	for _, a := range m.Args {
		out = unionVars(out, a.FreeVar(includeMetavars))
	}
	return out
}

func (m *MetaApp) FreeTypeVar() []int {
	out := m.Typ.Vars()
	for _, a := range m.Args {
		out = unionVars(out, a.FreeTypeVar())
	}
	return out
}

func (m *MetaApp) ApplySubst(theta typesys.Subst) MetaTerm {
	m.Meta.Typ = m.Meta.Typ.Substitute(theta)
	for i, a := range m.Args {
		m.Args[i] = a.ApplySubst(theta)
	}
	m.Typ = m.Typ.Substitute(theta)
	return m
}

func (m *MetaApp) At(pos string) MetaTerm {
	if pos == "" {
		return m
	}
	if len(pos) >= 1 && pos[0] == '0' {
		// '0' followed by the 1-based argument index, e.g. "01", "02".
		if len(pos) < 2 {
			return nil
		}
		idx := int(pos[1] - '0')
		if idx < 1 || idx > len(m.Args) {
			return nil
		}
		return m.Args[idx-1].At(pos[2:])
	}
	return nil
}

// IsPattern reports whether t is a pattern: every meta-application's
// arguments are pairwise distinct bound variables.
func IsPattern(t MetaTerm) bool {
	switch n := t.(type) {
	case *Const, *Var:
		return true
	case *Abs:
		return IsPattern(n.Body)
	case *App:
		return IsPattern(n.Fun) && IsPattern(n.Arg)
	case *MetaApp:
		seen := map[int]bool{}
		for _, a := range n.Args {
			v, ok := a.(*Var)
			if !ok || !v.Bound || seen[v.Index] {
				return false
			}
			seen[v.Index] = true
		}
		return true
	default:
		return false
	}
}

func unionVars(a, b []int) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(a)+len(b))
	for _, x := range a {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	for _, x := range b {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
