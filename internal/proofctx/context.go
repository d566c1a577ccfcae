// Package proofctx owns the state a single proof attempt needs: the
// propositional Vars registry, the term-variable and polynomial-variable
// counters, and the output-region transaction stack. Exactly one Context
// is live per attempt; it is never shared between concurrently running
// attempts (the core is single-threaded cooperative, per spec.md §5).
package proofctx

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/term"
	"github.com/gitrdm/afsmterm/internal/typesys"
)

// Context bundles every piece of state spec.md §5/§9 calls out as
// "process-wide" into one value passed explicitly through the call
// graph, replacing the teacher's (and the original C++ source's) ambient
// globals.
type Context struct {
	Vars *formula.Registry

	TypeVars *TypeVarCounter
	TermVars *term.Counter
	PolyVars *PolyVarCounter

	Log *logrus.Logger

	regions     []*Region
	finalOutput []string
}

// TypeVarCounter mints process-unique type-variable indices.
type TypeVarCounter struct{ next int }

// Fresh mints and returns the next type variable.
func (c *TypeVarCounter) Fresh() *typesys.TypeVar {
	idx := c.next
	c.next++
	return typesys.NewTypeVar(idx)
}

// PolyVarCounter mints process-unique polynomial-unknown/variable
// indices; the running counter is shared across both uses because the
// spec treats them as one "running polynomial-variable counter."
type PolyVarCounter struct{ next int }

// Fresh mints and returns the next polynomial-variable index.
func (c *PolyVarCounter) Fresh() int {
	idx := c.next
	c.next++
	return idx
}

// New creates a fresh Context for a single, independent proof attempt.
func New() *Context {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return &Context{
		Vars:     formula.NewRegistry(),
		TypeVars: &TypeVarCounter{},
		TermVars: term.NewCounter(),
		PolyVars: &PolyVarCounter{},
		Log:      log,
	}
}

// Reset reverts the Context to a state suitable for a new, independent
// proof attempt: variable valuations revert to Unknown (indices 0/1 stay
// reserved for the forced-false/forced-true atoms, per spec.md §5), and
// any open output regions are discarded.
func (c *Context) Reset() {
	c.Vars.ResetValuations()
	c.regions = nil
}

// Region is a transactional slice of the output buffer: "save buffer,
// optionally abort method, restore buffer," per spec.md §7/§9. Regions
// nest; Commit appends the region's lines onto its parent (or the root
// buffer), Discard drops them.
type Region struct {
	ctx    *Context
	parent *Region
	lines  []string
	closed bool
}

// BeginRegion opens a new output-region transaction on top of the current
// one (or the root buffer, if none is open).
func (c *Context) BeginRegion() *Region {
	var parent *Region
	if len(c.regions) > 0 {
		parent = c.regions[len(c.regions)-1]
	}
	r := &Region{ctx: c, parent: parent}
	c.regions = append(c.regions, r)
	return r
}

// Write appends a line to the region's buffer.
func (r *Region) Write(line string) {
	r.lines = append(r.lines, line)
}

// Commit merges this region's buffered lines into its parent (or the
// Context's final output, if this was the outermost region) and pops it
// off the region stack.
func (r *Region) Commit() {
	r.pop()
	if r.parent != nil {
		r.parent.lines = append(r.parent.lines, r.lines...)
	} else {
		r.ctx.finalOutput = append(r.ctx.finalOutput, r.lines...)
	}
	r.closed = true
}

// Discard drops this region's buffered lines entirely -- used when a
// method aborts (spec.md §7: "on abort, the buffer is discarded so only
// successful justifications reach the final output").
func (r *Region) Discard() {
	r.pop()
	r.closed = true
}

func (r *Region) pop() {
	if r.closed {
		return
	}
	stack := r.ctx.regions
	if len(stack) > 0 && stack[len(stack)-1] == r {
		r.ctx.regions = stack[:len(stack)-1]
	}
}

// FinalOutput returns the committed output lines joined with newlines.
func (c *Context) FinalOutput() string { return strings.Join(c.finalOutput, "\n") }
