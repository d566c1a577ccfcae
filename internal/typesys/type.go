// Package typesys implements the polymorphic type system shared by every
// term, rule and constraint in the engine: type variables, named data
// types and curried arrow types, together with unification-style
// instantiation and substitution.
package typesys

import (
	"fmt"
	"strings"
)

// Kind discriminates the three Type variants without a type assertion.
type Kind int

const (
	// KindVar marks a type variable.
	KindVar Kind = iota
	// KindData marks a named data type applied to zero or more children.
	KindData
	// KindArrow marks a composed (curried) function type.
	KindArrow
)

// Type is the common interface implemented by TypeVar, DataType and Arrow.
// Types are value-owned by their holder: Copy produces a structure sharing
// no mutable state with the original, and Substitute mutates the receiver
// in place (the caller must discard the old reference afterwards, exactly
// like the rest of the term algebra).
type Type interface {
	// Kind reports which concrete variant this value is.
	Kind() Kind
	// Copy returns a deep copy sharing no substructure with the receiver.
	Copy() Type
	// Equals reports structural equality.
	Equals(other Type) bool
	// String renders the type using each type variable's formal index.
	String() string
	// ShortString renders the type using the given naming table, assigning
	// short names to type variables as they are first encountered.
	ShortString(naming *Naming) string
	// Collapse replaces every data type by the canonical base type `o`,
	// preserving arrow structure, and returns a new Type.
	Collapse() Type
	// Substitute applies theta to the receiver destructively and returns
	// the (possibly reallocated) result.
	Substitute(theta Subst) Type
	// Vars returns the type variable indices occurring in the type, in
	// order of first occurrence, with duplicates removed.
	Vars() []int
}

// Naming assigns short, stable display names ("a", "b", ...) to type
// variable indices the first time each is encountered.
type Naming struct {
	names map[int]string
	next  int
}

// NewNaming creates an empty naming table.
func NewNaming() *Naming {
	return &Naming{names: make(map[int]string)}
}

// NameFor returns the short name for a type variable index, allocating a
// fresh one if this is the first time the index is seen.
func (n *Naming) NameFor(idx int) string {
	if name, ok := n.names[idx]; ok {
		return name
	}
	name := shortName(n.next)
	n.next++
	n.names[idx] = name
	return name
}

func shortName(i int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return string(letters[i])
	}
	return fmt.Sprintf("%s%d", string(letters[i%len(letters)]), i/len(letters))
}

// BaseType is the canonical collapsed base type name used by Collapse.
const BaseType = "o"

// TypeVar is a type variable, identified by a process-unique integer drawn
// from proofctx's counter.
type TypeVar struct {
	Index int
}

// NewTypeVar wraps an index as a type variable.
func NewTypeVar(index int) *TypeVar { return &TypeVar{Index: index} }

func (v *TypeVar) Kind() Kind { return KindVar }

func (v *TypeVar) Copy() Type { return &TypeVar{Index: v.Index} }

func (v *TypeVar) Equals(other Type) bool {
	o, ok := other.(*TypeVar)
	return ok && o.Index == v.Index
}

func (v *TypeVar) String() string { return fmt.Sprintf("a%d", v.Index) }

func (v *TypeVar) ShortString(naming *Naming) string { return naming.NameFor(v.Index) }

func (v *TypeVar) Collapse() Type { return &TypeVar{Index: v.Index} }

func (v *TypeVar) Substitute(theta Subst) Type {
	if repl, ok := theta[v.Index]; ok {
		return repl.Copy()
	}
	return v
}

func (v *TypeVar) Vars() []int { return []int{v.Index} }

// DataType is a named constructor applied to zero or more argument types,
// e.g. List(Nat) or the nullary Nat.
type DataType struct {
	Constructor string
	Children    []Type
}

// NewDataType builds a data type from a constructor name and children.
func NewDataType(constructor string, children ...Type) *DataType {
	return &DataType{Constructor: constructor, Children: children}
}

func (d *DataType) Kind() Kind { return KindData }

func (d *DataType) Copy() Type {
	children := make([]Type, len(d.Children))
	for i, c := range d.Children {
		children[i] = c.Copy()
	}
	return &DataType{Constructor: d.Constructor, Children: children}
}

func (d *DataType) Equals(other Type) bool {
	o, ok := other.(*DataType)
	if !ok || o.Constructor != d.Constructor || len(o.Children) != len(d.Children) {
		return false
	}
	for i := range d.Children {
		if !d.Children[i].Equals(o.Children[i]) {
			return false
		}
	}
	return true
}

func (d *DataType) String() string {
	if len(d.Children) == 0 {
		return d.Constructor
	}
	parts := make([]string, len(d.Children))
	for i, c := range d.Children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s(%s)", d.Constructor, strings.Join(parts, ","))
}

func (d *DataType) ShortString(naming *Naming) string {
	if len(d.Children) == 0 {
		return d.Constructor
	}
	parts := make([]string, len(d.Children))
	for i, c := range d.Children {
		parts[i] = c.ShortString(naming)
	}
	return fmt.Sprintf("%s(%s)", d.Constructor, strings.Join(parts, ","))
}

func (d *DataType) Collapse() Type { return &DataType{Constructor: BaseType} }

func (d *DataType) Substitute(theta Subst) Type {
	for i, c := range d.Children {
		d.Children[i] = c.Substitute(theta)
	}
	return d
}

func (d *DataType) Vars() []int {
	var out []int
	seen := map[int]bool{}
	for _, c := range d.Children {
		for _, idx := range c.Vars() {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	return out
}

// Arrow is a composed (right-associative, curried) function type
// Left -> Right.
type Arrow struct {
	Left, Right Type
}

// NewArrow builds tau1 -> tau2.
func NewArrow(left, right Type) *Arrow { return &Arrow{Left: left, Right: right} }

// Curry builds a right-associative arrow from argument types to a result
// type: Curry([a,b], c) = a -> (b -> c).
func Curry(args []Type, result Type) Type {
	out := result
	for i := len(args) - 1; i >= 0; i-- {
		out = NewArrow(args[i], out)
	}
	return out
}

// Uncurry splits an arrow into its argument types (left to right) and
// final result type.
func Uncurry(t Type) (args []Type, result Type) {
	for {
		a, ok := t.(*Arrow)
		if !ok {
			return args, t
		}
		args = append(args, a.Left)
		t = a.Right
	}
}

func (a *Arrow) Kind() Kind { return KindArrow }

func (a *Arrow) Copy() Type { return &Arrow{Left: a.Left.Copy(), Right: a.Right.Copy()} }

func (a *Arrow) Equals(other Type) bool {
	o, ok := other.(*Arrow)
	return ok && a.Left.Equals(o.Left) && a.Right.Equals(o.Right)
}

func (a *Arrow) String() string {
	left := a.Left.String()
	if a.Left.Kind() == KindArrow {
		left = "(" + left + ")"
	}
	return fmt.Sprintf("%s->%s", left, a.Right.String())
}

func (a *Arrow) ShortString(naming *Naming) string {
	left := a.Left.ShortString(naming)
	if a.Left.Kind() == KindArrow {
		left = "(" + left + ")"
	}
	return fmt.Sprintf("%s->%s", left, a.Right.ShortString(naming))
}

func (a *Arrow) Collapse() Type { return &Arrow{Left: a.Left.Collapse(), Right: a.Right.Collapse()} }

func (a *Arrow) Substitute(theta Subst) Type {
	a.Left = a.Left.Substitute(theta)
	a.Right = a.Right.Substitute(theta)
	return a
}

func (a *Arrow) Vars() []int {
	seen := map[int]bool{}
	var out []int
	for _, idx := range a.Left.Vars() {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	for _, idx := range a.Right.Vars() {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	return out
}

// IsBase reports whether t has no arrow structure (a data type or type
// variable used at base/output position).
func IsBase(t Type) bool { return t.Kind() != KindArrow }
