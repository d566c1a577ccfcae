package horpo

import (
	"fmt"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/order"
	"github.com/gitrdm/afsmterm/internal/proofctx"
)

// Justify reconstructs, for every requirement the solved model strictly
// oriented, which relation fired at each step of its constraint-list
// proof and renders the result as a numbered subproof tree through ctx's
// output-region machinery -- mirroring horpojustifier.cpp's own walk from
// a requirement's top ">" constraint down through whichever disjunct the
// model actually satisfied. Must be called after the solver has filled in
// ctx.Vars' valuations (internal/driver does this right after
// sat.ApplyModel).
func (h *Horpo) Justify(ctx *proofctx.Context, problem *order.Problem) {
	region := ctx.BeginRegion()
	wrote := false
	for _, req := range problem.Requirements {
		if ctx.Vars.Valuation(req.StrictVar) != formula.True {
			continue
		}
		idx, ok := h.index[constraintKey(req.Left, req.Right, relGreater, false, nil, 0)]
		if !ok {
			continue
		}
		region.Write(fmt.Sprintf("%s > %s", req.Left.String(), req.Right.String()))
		h.writeSubproof(region, ctx, h.list[idx], 1, "  ")
		wrote = true
	}
	if wrote {
		region.Commit()
	} else {
		region.Discard()
	}
}

// writeSubproof finds the first branch of c whose gates (and, if present,
// child) the model actually satisfied, prints its label, and recurses
// into the delegated sub-constraint if there is one. A constraint with no
// fired branch (none was recorded, as for a comparison decided outright
// or an exhausted restriction budget, or none had its gates and child
// satisfied by the model) is printed as a single line naming its two
// sides and relation.
func (h *Horpo) writeSubproof(region *proofctx.Region, ctx *proofctx.Context, c *constraint, depth int, indent string) {
	for _, b := range c.branches {
		if !branchFired(ctx, b) {
			continue
		}
		region.Write(fmt.Sprintf("%s%d. %s [%s]", indent, depth, b.label, c.rel))
		if b.child >= 0 {
			if next, ok := h.byVar[b.child]; ok {
				h.writeSubproof(region, ctx, next, depth+1, indent+"  ")
			}
		}
		return
	}
	region.Write(fmt.Sprintf("%s%d. %s %s %s [%s]", indent, depth, c.left.String(), c.rel, c.right.String(), c.rel))
}

func branchFired(ctx *proofctx.Context, b branch) bool {
	for _, g := range b.gates {
		if ctx.Vars.Valuation(g) != formula.True {
			return false
		}
	}
	if b.child >= 0 && ctx.Vars.Valuation(b.child) != formula.True {
		return false
	}
	return true
}
