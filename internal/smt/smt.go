// Package smt reduces ground polynomial constraints over bounded
// unknowns to propositional logic (C9): it is the "SMT-over-N" layer
// sitting between the polynomial/HORPO constraint generators and the
// SAT solver, and only accepts constraints that no longer mention a
// poly.Variable or poly.Functional -- the caller (internal/driver) is
// responsible for having already discharged those via
// internal/polyinterp's simplification pass or internal/horpo's
// recursive comparison.
package smt

import (
	"fmt"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/poly"
	"github.com/gitrdm/afsmterm/internal/proofctx"
)

// MaxBits caps the bit width bit-blasting ever allocates for one
// unknown, matching bitblaster.h's MAXBITS. An extra overflow bit is
// always appended, so the effective width is MaxBits+1.
const MaxBits = 8

// Constraint is one ground arithmetic fact to encode: L >= R, or,
// when Strict is true, L > R.
type Constraint struct {
	L, R   poly.Polynomial
	Strict bool
}

// NotBitBlastable is returned by BitBlast when a constraint still
// contains a poly.Variable or poly.Functional after simplification --
// those must be discharged structurally (RemoveDuplicates, SplitMax,
// AbsolutePositiveness, or HORPO's recursive comparison) before reaching
// this layer, exactly as bitblaster.h documents.
type NotBitBlastable struct{ Poly poly.Polynomial }

func (e *NotBitBlastable) Error() string {
	return fmt.Sprintf("smt: %s is not ground (contains a variable or functional)", e.Poly.String())
}

// Blaster bit-blasts a batch of Constraints into one propositional
// formula, allocating one fresh propositional variable per bit of every
// distinct Unknown it encounters, reusing the same bits across every
// constraint in the batch (an Unknown's value must agree across all of
// them).
type Blaster struct {
	ctx   *proofctx.Context
	bits  int
	cache map[int][]formula.Formula
}

// NewBlaster creates a Blaster with the given per-unknown bit width
// (including its sign/overflow bit); callers should pick bits so that
// 2^bits-1 comfortably exceeds every Unknown's Max, and never more than
// MaxBits+1.
func NewBlaster(ctx *proofctx.Context, bits int) *Blaster {
	if bits > MaxBits+1 {
		bits = MaxBits + 1
	}
	return &Blaster{ctx: ctx, bits: bits, cache: map[int][]formula.Formula{}}
}

// Encode bit-blasts a single constraint into a propositional formula
// equivalent to it holding, or returns *NotBitBlastable if the
// constraint is not ground.
func (b *Blaster) Encode(c Constraint) (formula.Formula, error) {
	lBits, err := b.value(c.L)
	if err != nil {
		return nil, err
	}
	rBits, err := b.value(c.R)
	if err != nil {
		return nil, err
	}
	return compare(lBits, rBits, c.Strict), nil
}

// EncodeAll bit-blasts every constraint and conjoins the results.
func (b *Blaster) EncodeAll(cs []Constraint) (formula.Formula, error) {
	var clauses []formula.Formula
	for _, c := range cs {
		f, err := b.Encode(c)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, f)
	}
	return formula.MkAnd(clauses...), nil
}

// value returns p's bit vector (LSB first, length b.bits), recursing
// through Sum/Product and allocating fresh bits for each distinct
// Unknown the first time it is seen.
func (b *Blaster) value(p poly.Polynomial) ([]formula.Formula, error) {
	switch n := p.(type) {
	case *poly.Int:
		return constBits(n.Value, b.bits), nil
	case *poly.Unknown:
		if bits, ok := b.cache[n.Index]; ok {
			return bits, nil
		}
		bits := make([]formula.Formula, b.bits)
		for i := range bits {
			bits[i] = formula.Pos(b.ctx.Vars.Fresh(fmt.Sprintf("bit:a%d:%d", n.Index, i)))
		}
		b.cache[n.Index] = bits
		return bits, nil
	case *poly.Sum:
		acc := constBits(0, b.bits)
		for _, t := range n.Terms {
			tb, err := b.value(t)
			if err != nil {
				return nil, err
			}
			acc = add(acc, tb, b.bits)
		}
		return acc, nil
	case *poly.Product:
		acc := constBits(1, b.bits)
		for _, f := range n.Factors {
			if lit, ok := f.(*poly.Int); ok {
				acc = shiftMul(acc, lit.Value, b.bits)
				continue
			}
			fb, err := b.value(f)
			if err != nil {
				return nil, err
			}
			acc = multiply(acc, fb, b.bits)
		}
		return acc, nil
	default:
		return nil, &NotBitBlastable{Poly: p}
	}
}

func constBits(v, width int) []formula.Formula {
	bits := make([]formula.Formula, width)
	for i := range bits {
		if v&(1<<uint(i)) != 0 {
			bits[i] = formula.Top{}
		} else {
			bits[i] = formula.Bottom{}
		}
	}
	return bits
}

// add performs a ripple-carry addition of a and b, truncating the result
// to width bits (the overflow bit callers reserve in b.bits absorbs one
// level of carry, which is sufficient for the small bounded unknowns
// this engine's interpretations use).
func add(a, b []formula.Formula, width int) []formula.Formula {
	out := make([]formula.Formula, width)
	var carry formula.Formula = formula.Bottom{}
	for i := 0; i < width; i++ {
		ai, bi := bitAt(a, i), bitAt(b, i)
		sum, cout := fullAdder(ai, bi, carry)
		out[i] = sum
		carry = cout
	}
	return out
}

func bitAt(bits []formula.Formula, i int) formula.Formula {
	if i < len(bits) {
		return bits[i]
	}
	return formula.Bottom{}
}

func fullAdder(a, b, cin formula.Formula) (sum, cout formula.Formula) {
	sum = xor(xor(a, b), cin)
	cout = formula.MkOr(
		formula.MkAnd(a, b),
		formula.MkAnd(cin, formula.MkOr(a, b)),
	)
	return sum, cout
}

func xor(a, b formula.Formula) formula.Formula {
	return formula.MkOr(
		formula.MkAnd(a, formula.MkNot(b)),
		formula.MkAnd(formula.MkNot(a), b),
	)
}

// shiftMul multiplies bit vector x by the non-negative integer constant
// k via shift-and-add (double-and-add on k's binary expansion).
func shiftMul(x []formula.Formula, k, width int) []formula.Formula {
	acc := constBits(0, width)
	shifted := append([]formula.Formula{}, x...)
	for k > 0 {
		if k&1 != 0 {
			acc = add(acc, shifted, width)
		}
		shifted = shiftLeft(shifted, width)
		k >>= 1
	}
	return acc
}

func shiftLeft(x []formula.Formula, width int) []formula.Formula {
	out := make([]formula.Formula, width)
	out[0] = formula.Bottom{}
	for i := 1; i < width; i++ {
		out[i] = x[i-1]
	}
	return out
}

// multiply performs shift-and-add multiplication of two bit vectors,
// used only when neither factor of a poly.Product reduced to a literal
// constant (an unknown-times-unknown product, which this engine's
// interpretations only introduce for the optional base-type product
// term).
func multiply(a, b []formula.Formula, width int) []formula.Formula {
	acc := constBits(0, width)
	for i := 0; i < width; i++ {
		if _, isBottom := a[i].(formula.Bottom); isBottom {
			continue
		}
		partial := make([]formula.Formula, width)
		for j := range partial {
			partial[j] = formula.Bottom{}
		}
		for j := 0; j+i < width; j++ {
			partial[j+i] = formula.MkAnd(a[i], b[j])
		}
		acc = add(acc, partial, width)
	}
	return acc
}

// compare builds the MSB-first recursive bit comparator: L >= R (or,
// when strict, L > R).
func compare(l, r []formula.Formula, strict bool) formula.Formula {
	return cmpBits(l, r, len(l)-1, strict)
}

func cmpBits(a, b []formula.Formula, i int, strict bool) formula.Formula {
	if i < 0 {
		if strict {
			return formula.Bottom{}
		}
		return formula.Top{}
	}
	ai, bi := a[i], b[i]
	gt := formula.MkAnd(ai, formula.MkNot(bi))
	eq := formula.MkOr(formula.MkAnd(ai, bi), formula.MkAnd(formula.MkNot(ai), formula.MkNot(bi)))
	rest := cmpBits(a, b, i-1, strict)
	return formula.MkOr(gt, formula.MkAnd(eq, rest))
}
