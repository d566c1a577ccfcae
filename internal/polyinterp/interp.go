// Package polyinterp chooses parametric polynomial interpretations for an
// ordering problem's alphabet and turns each orient-requirement into an
// arithmetic constraint over those interpretations (C7).
package polyinterp

import (
	"github.com/gitrdm/afsmterm/internal/order"
	"github.com/gitrdm/afsmterm/internal/poly"
	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/term"
	"github.com/gitrdm/afsmterm/internal/typesys"
)

// ArgKind classifies an interpreted symbol's argument position.
type ArgKind int

const (
	ArgBase ArgKind = iota
	ArgSecondOrder
	ArgHigherOrder
)

// Interpretation is the parametric polynomial assigned to one symbol:
// J(f)(y1,...,yn) = a0 + sum_i a_i*y_i [+ a_ij*y_i*y_j for base pairs
// when products are enabled] + one bare functional F_k(λy.y) per
// non-base (second- or higher-order) argument. That functional term does
// not depend on the argument and carries no coefficient; the a_i of a
// non-base position is an unknown fixed to 0.
type Interpretation struct {
	Symbol   string
	ArgKinds []ArgKind
	Const    *poly.Unknown   // a0
	Coeff    []*poly.Unknown // a_i per base argument position
	Extra    []poly.Polynomial
}

// Apply instantiates the interpretation at argument polynomials args,
// substituting each y_i for args[i] in Const/Coeff/Extra's structure.
func (in *Interpretation) Apply(args []poly.Polynomial) poly.Polynomial {
	terms := []poly.Polynomial{in.Const}
	for i, c := range in.Coeff {
		if i < len(args) {
			terms = append(terms, poly.NewProduct(c, args[i]))
		}
	}
	terms = append(terms, in.Extra...)
	return poly.Simplify(poly.NewSum(terms...))
}

// Monomorphic guards C7's applicability: the polynomial method only
// applies when no subterm's declared type carries a free type variable
// anywhere in the requirement set.
func Monomorphic(reqs []*order.Requirement) bool {
	for _, r := range reqs {
		if len(r.Left.FreeTypeVar()) > 0 || len(r.Right.FreeTypeVar()) > 0 {
			return false
		}
	}
	return true
}

// Synthesize builds one Interpretation per symbol in alpha that occurs in
// problem, classifying argument positions from the symbol's declared
// type and allocating fresh unknowns via ctx.PolyVars. withProducts
// enables the base-type product term a_ij*y_i*y_j (disabled on the
// driver's first polynomial attempt per spec.md §4.8).
func Synthesize(ctx *proofctx.Context, alpha *rule.Alphabet, problem *order.Problem, withProducts bool) (map[string]*Interpretation, error) {
	out := map[string]*Interpretation{}
	for _, name := range problem.SortedNames() {
		typ, ok := alpha.Lookup(name)
		if !ok {
			return nil, proofctx.Malformed("symbol %q has no declared type", name)
		}
		args, _ := typesys.Uncurry(typ)
		n := problem.ArityOf(name)
		if n > len(args) {
			n = len(args)
		}
		args = args[:n]

		in := &Interpretation{Symbol: name}
		in.Const = poly.NewUnknown(ctx.PolyVars.Fresh(), 0, 2)
		for i, a := range args {
			kind := classify(a)
			in.ArgKinds = append(in.ArgKinds, kind)
			switch kind {
			case ArgBase:
				coeff := poly.NewUnknown(ctx.PolyVars.Fresh(), 0, 2)
				in.Coeff = append(in.Coeff, coeff)
				filterVar := problem.FilteredVariable(name, i+1)
				_ = filterVar // FilterConstraints builds the matching side constraint; nothing is enforced here
			case ArgSecondOrder, ArgHigherOrder:
				in.Coeff = append(in.Coeff, poly.NewUnknown(ctx.PolyVars.Fresh(), 0, 0))
				fIdx := ctx.PolyVars.Fresh()
				y := poly.NewVariable(ctx.PolyVars.Fresh())
				in.Extra = append(in.Extra, poly.NewFunctional(fIdx, poly.NewFunc([]int{y.Index}, y)))
			}
		}
		if withProducts {
			for i := range args {
				if in.ArgKinds[i] != ArgBase {
					continue
				}
				for j := i + 1; j < len(args); j++ {
					if in.ArgKinds[j] != ArgBase {
						continue
					}
					coeff := poly.NewUnknown(ctx.PolyVars.Fresh(), 0, 1)
					in.Extra = append(in.Extra, poly.NewProduct(coeff, poly.NewVariable(i), poly.NewVariable(j)))
				}
			}
		}
		out[name] = in
	}
	return out, nil
}

func classify(t typesys.Type) ArgKind {
	args, result := typesys.Uncurry(t)
	if len(args) == 0 {
		return ArgBase
	}
	if typesys.IsBase(result) {
		for _, a := range args {
			if !typesys.IsBase(a) {
				return ArgHigherOrder
			}
		}
		return ArgSecondOrder
	}
	return ArgHigherOrder
}

// Interpret evaluates term t symbolically under interpretations, mapping
// each free variable to a fresh poly.Variable keyed by its term.Var
// index, and each meta-application Z[..] to a poly.Functional keyed by
// Z's index.
func Interpret(t term.MetaTerm, interps map[string]*Interpretation) poly.Polynomial {
	switch n := t.(type) {
	case *term.Const:
		in, ok := interps[n.Name]
		if !ok {
			return poly.NewInt(0)
		}
		return in.Apply(nil)
	case *term.Var:
		return poly.NewVariable(n.Index)
	case *term.MetaApp:
		args := make([]*poly.Func, len(n.Args))
		for i, a := range n.Args {
			v, ok := a.(*term.Var)
			idx := i
			if ok {
				idx = v.Index
			}
			args[i] = poly.NewFunc([]int{idx}, Interpret(a, interps))
		}
		return poly.NewFunctional(n.Meta.Index, args...)
	case *term.Abs:
		return Interpret(n.Body, interps)
	case *term.App:
		head, spineArgs := term.Split(n)
		c, ok := head.(*term.Const)
		if !ok {
			return poly.NewInt(0)
		}
		in, ok := interps[c.Name]
		if !ok {
			return poly.NewInt(0)
		}
		argPolys := make([]poly.Polynomial, len(spineArgs))
		for i, a := range spineArgs {
			argPolys[i] = Interpret(a, interps)
		}
		return in.Apply(argPolys)
	default:
		return poly.NewInt(0)
	}
}
