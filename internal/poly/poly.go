// Package poly implements weakly-monotonic polynomial expressions over
// the naturals: integer literals, unknowns to be solved, variables
// ranging over N, functionals applied to polynomial-valued functions, and
// n-ary sums, products and maxima.
package poly

import (
	"fmt"
	"strings"
)

// Kind discriminates the Polynomial variants. The numeric order of these
// constants doubles as the variant-tag used by Compare's total order.
type Kind int

const (
	KindInt Kind = iota
	KindUnknown
	KindVariable
	KindFunctional
	KindSum
	KindProduct
	KindMax
)

// Polynomial is the common interface for every expression-tree variant.
type Polynomial interface {
	Kind() Kind
	String() string
}

// Int is an integer literal.
type Int struct{ Value int }

func NewInt(v int) *Int       { return &Int{Value: v} }
func (i *Int) Kind() Kind     { return KindInt }
func (i *Int) String() string { return fmt.Sprintf("%d", i.Value) }

// Unknown is an aI to be solved by the SMT layer, ranging over [Min,Max].
type Unknown struct {
	Index    int
	Min, Max int
}

func NewUnknown(index, min, max int) *Unknown { return &Unknown{Index: index, Min: min, Max: max} }
func (u *Unknown) Kind() Kind                 { return KindUnknown }
func (u *Unknown) String() string             { return fmt.Sprintf("a%d", u.Index) }

// Variable is an xJ ranging over N (an interpretation argument).
type Variable struct{ Index int }

func NewVariable(index int) *Variable { return &Variable{Index: index} }
func (v *Variable) Kind() Kind        { return KindVariable }
func (v *Variable) String() string    { return fmt.Sprintf("x%d", v.Index) }

// Func is a polynomial-valued function lambda y1...yp.Body, the argument
// shape a Functional applies its sub-polynomials through.
type Func struct {
	Params []int // bound-variable indices, fresh per functional occurrence
	Body   Polynomial
}

func NewFunc(params []int, body Polynomial) *Func { return &Func{Params: params, Body: body} }

func (f *Func) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = fmt.Sprintf("y%d", p)
	}
	return fmt.Sprintf("\\%s.%s", strings.Join(names, ","), f.Body.String())
}

// Functional is Fk(q1,...,qm): a symbolic higher-order subexpression,
// each qi itself a Func.
type Functional struct {
	Index int
	Args  []*Func
}

func NewFunctional(index int, args ...*Func) *Functional {
	return &Functional{Index: index, Args: args}
}

func (f *Functional) Kind() Kind { return KindFunctional }

func (f *Functional) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("F%d(%s)", f.Index, strings.Join(parts, ","))
}

// Sum is an n-ary sum.
type Sum struct{ Terms []Polynomial }

func NewSum(terms ...Polynomial) *Sum { return &Sum{Terms: terms} }
func (s *Sum) Kind() Kind             { return KindSum }

func (s *Sum) String() string {
	parts := make([]string, len(s.Terms))
	for i, t := range s.Terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, "+") + ")"
}

// Product is an n-ary product.
type Product struct{ Factors []Polynomial }

func NewProduct(factors ...Polynomial) *Product { return &Product{Factors: factors} }
func (p *Product) Kind() Kind                   { return KindProduct }

func (p *Product) String() string {
	parts := make([]string, len(p.Factors))
	for i, f := range p.Factors {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, "*") + ")"
}

// Max is an n-ary maximum.
type Max struct{ Args []Polynomial }

func NewMax(args ...Polynomial) *Max { return &Max{Args: args} }
func (m *Max) Kind() Kind            { return KindMax }

func (m *Max) String() string {
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		parts[i] = a.String()
	}
	return "max(" + strings.Join(parts, ",") + ")"
}
