// Package sat wires the engine's CNF output to a SAT solver (C10): an
// embedded solver for the common case, and an external-process solver
// speaking the DIMACS file contract for when the caller wants to swap in
// a different backend without recompiling.
package sat

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/crillab/gophersat/solver"

	"github.com/gitrdm/afsmterm/internal/formula"
)

// Result is the outcome of one solve attempt.
type Result struct {
	Sat   bool
	Model *bitset.BitSet // Model.Test(i) is the valuation of Registry variable i, only meaningful when Sat
}

// Solver abstracts over an embedded or external SAT backend.
type Solver interface {
	Solve(cnf *formula.CNFResult, nbVars int) (Result, error)
}

// Embedded runs github.com/crillab/gophersat's solver in-process.
type Embedded struct{}

// Solve feeds cnf's clauses to gophersat directly, translating between
// this package's Registry-index-based literal convention
// (formula.Lit/PosVar) and gophersat's own 1-based DIMACS literals --
// which happen to already agree, since formula.Lit(v,false) = v+1 is
// exactly the 1-based positive literal gophersat expects.
func (Embedded) Solve(cnf *formula.CNFResult, nbVars int) (Result, error) {
	clauses := make([][]int, 0, len(cnf.Clauses)+1)
	for _, c := range cnf.Clauses {
		clauses = append(clauses, []int(c))
	}
	clauses = append(clauses, []int{cnf.Top})

	pb, err := solver.ParseSlice(clauses)
	if err != nil {
		return Result{}, fmt.Errorf("sat: building problem from clauses: %w", err)
	}
	s := solver.New(pb)
	if s.Solve() != solver.Sat {
		return Result{Sat: false}, nil
	}
	model, err := s.Model()
	if err != nil {
		return Result{}, fmt.Errorf("sat: retrieving model: %w", err)
	}
	out := bitset.New(uint(nbVars))
	for i := 0; i < nbVars && i < len(model); i++ {
		if model[i] {
			out.Set(uint(i))
		}
	}
	return Result{Sat: true, Model: out}, nil
}

// ApplyModel commits a solved Result's valuations back onto reg, so the
// caller can read off StrictVar/ArgFiltered/precedence decisions through
// the Registry as spec.md §5 describes.
func ApplyModel(reg *formula.Registry, res Result) {
	if !res.Sat {
		return
	}
	for i := uint(0); i < res.Model.Len(); i++ {
		if res.Model.Test(i) {
			reg.SetValuation(int(i), formula.True)
		} else {
			reg.SetValuation(int(i), formula.False)
		}
	}
}
