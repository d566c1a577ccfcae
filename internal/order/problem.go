// Package order builds the ordering problem (C6) that ties a rule set
// (and, for the dependency-pair variant, a set of dependency pairs) to a
// collection of orient-requirements plus the argument-filtering variables
// each symbol may use.
package order

import (
	"sort"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/term"
)

// UnfilteredMode is the discriminant controlling what an unfiltered
// argument position demands of an interpretation/ordering.
type UnfilteredMode int

const (
	// ModeUnfilterable: application itself may not be filtered away.
	ModeUnfilterable UnfilteredMode = iota
	// ModeSubtermSteps: unfiltered arguments require subterm-step
	// justification.
	ModeSubtermSteps
	// ModeStrongMonotonic: unfiltered arguments require strong (strict)
	// monotonicity.
	ModeStrongMonotonic
)

// Requirement pairs a rule's two sides with the proposition that, when
// true, demands Left > Right (strict); otherwise Left >= Right (weak).
type Requirement struct {
	Left, Right term.MetaTerm
	StrictVar   int // a formula.Registry index; Unknown valuation until solved
	FromDP      bool
}

// Problem is the C6 ordering problem: the effective alphabet, observed
// arities, filterability, the requirement set, and side constraints.
type Problem struct {
	Alphabet *rule.Alphabet

	arity       map[string]int
	filterable  map[string]bool
	argFiltered map[string][]int // one formula.Registry index per argument position

	Requirements []*Requirement
	Side         []formula.Formula

	Unfiltered UnfilteredMode
}

// ArityOf returns the effective (minimum observed) arity of symbol name.
func (p *Problem) ArityOf(name string) int { return p.arity[name] }

// Filterable reports whether symbol name's arguments may be filtered.
func (p *Problem) Filterable(name string) bool { return p.filterable[name] }

// FilteredVariable returns the propositional variable for "argument i of
// f is filtered away" (1-based i), or a sentinel forced value when f is
// not filterable at all: forced-false (argument i can never be filtered)
// when the symbol is unfilterable.
func (p *Problem) FilteredVariable(f string, i int) int {
	vars, ok := p.argFiltered[f]
	if !ok || i < 1 || i > len(vars) {
		return formula.ForcedFalse
	}
	return vars[i-1]
}

// NewPlain builds a PlainOrdering: every rule becomes a strict-or-weak
// requirement, at least one of which must be strict; nothing is
// filterable.
func NewPlain(ctx *proofctx.Context, alpha *rule.Alphabet, rules []*rule.Rule) (*Problem, error) {
	p := &Problem{
		Alphabet:    alpha,
		arity:       map[string]int{},
		filterable:  map[string]bool{},
		argFiltered: map[string][]int{},
	}
	if err := p.computeArities(alpha, rules); err != nil {
		return nil, err
	}

	var atLeastOneStrict []formula.Formula
	for _, r := range rules {
		req := &Requirement{
			Left:      r.Left,
			Right:     r.Right,
			StrictVar: ctx.Vars.Fresh("strict:" + headName(r.Left)),
		}
		p.Requirements = append(p.Requirements, req)
		atLeastOneStrict = append(atLeastOneStrict, formula.Pos(req.StrictVar))
	}
	if len(atLeastOneStrict) > 0 {
		p.Side = append(p.Side, formula.MkOr(atLeastOneStrict...))
	}
	return p, nil
}

// DPCollapsing vs DPTagging controls the filterability regime a
// DPOrdering uses.
type DPRegime int

const (
	DPTagging DPRegime = iota
	DPCollapsing
)

// NewDP builds a DPOrdering: requirements for dependency pairs
// (strict-or-weak), rules get weak-only requirements, and filterability
// follows regime.
func NewDP(ctx *proofctx.Context, alpha *rule.Alphabet, rules, dps []*rule.Rule, regime DPRegime) (*Problem, error) {
	p := &Problem{
		Alphabet:    alpha,
		arity:       map[string]int{},
		filterable:  map[string]bool{},
		argFiltered: map[string][]int{},
		Unfiltered:  ModeSubtermSteps,
	}
	if err := p.computeArities(alpha, append(append([]*rule.Rule{}, rules...), dps...)); err != nil {
		return nil, err
	}

	var atLeastOneStrict []formula.Formula
	for _, dp := range dps {
		req := &Requirement{
			Left:      dp.Left,
			Right:     dp.Right,
			StrictVar: ctx.Vars.Fresh("dp-strict:" + headName(dp.Left)),
			FromDP:    true,
		}
		p.Requirements = append(p.Requirements, req)
		atLeastOneStrict = append(atLeastOneStrict, formula.Pos(req.StrictVar))
	}
	for _, r := range rules {
		req := &Requirement{
			Left:      r.Left,
			Right:     r.Right,
			StrictVar: formula.ForcedFalse, // rules are always weak-only in a DP problem
		}
		p.Requirements = append(p.Requirements, req)
	}
	if len(atLeastOneStrict) > 0 {
		p.Side = append(p.Side, formula.MkOr(atLeastOneStrict...))
	}

	if regime == DPCollapsing {
		p.applyArgumentFunctionShortcut(ctx, rules, dps)
	}
	for name := range p.arity {
		p.filterable[name] = true
	}
	return p, nil
}

// applyArgumentFunctionShortcut records the head symbol of every rule and
// DP side as a root-occurring candidate. It does not check whether a
// candidate also occurs below the root, creates no `#argfun-f#` symbol
// and rewrites no side: the problem is left unchanged.
func (p *Problem) applyArgumentFunctionShortcut(ctx *proofctx.Context, rules, dps []*rule.Rule) {
	rootOnly := map[string]bool{}
	seenAnywhere := map[string]bool{}
	mark := func(t term.MetaTerm, isRoot bool) {
		head := term.QueryHead(t)
		c, ok := head.(*term.Const)
		if !ok {
			return
		}
		seenAnywhere[c.Name] = true
		if isRoot {
			if _, seen := rootOnly[c.Name]; !seen {
				rootOnly[c.Name] = true
			}
		}
	}
	walk := func(t term.MetaTerm) {
		mark(t, true)
	}
	for _, r := range rules {
		walk(r.Left)
		walk(r.Right)
	}
	for _, dp := range dps {
		walk(dp.Left)
		walk(dp.Right)
	}
	// Only roots are visited, so seenAnywhere holds the same names as
	// rootOnly; neither set is used further.
	_ = seenAnywhere
}

func (p *Problem) computeArities(alpha *rule.Alphabet, rs []*rule.Rule) error {
	observed := map[string]int{}
	for _, r := range rs {
		if err := observeArities(r.Left, observed); err != nil {
			return err
		}
		if err := observeArities(r.Right, observed); err != nil {
			return err
		}
	}
	for name, n := range observed {
		if _, ok := alpha.Lookup(name); !ok {
			return proofctxMalformed(name)
		}
		if cur, ok := p.arity[name]; !ok || n < cur {
			p.arity[name] = n
		}
	}
	return nil
}

func observeArities(t term.MetaTerm, observed map[string]int) error {
	head, args := term.Split(t)
	if c, ok := head.(*term.Const); ok {
		n := len(args)
		if cur, ok := observed[c.Name]; !ok || n < cur {
			observed[c.Name] = n
		}
	}
	switch n := t.(type) {
	case *term.Abs:
		return observeArities(n.Body, observed)
	case *term.App:
		// Recurse into the spine's head and arguments, not into n.Fun: a
		// partial application f(a) inside f(a,b) is not a use of f at arity 1.
		if _, ok := head.(*term.Const); !ok {
			if err := observeArities(head, observed); err != nil {
				return err
			}
		}
		for _, a := range args {
			if err := observeArities(a, observed); err != nil {
				return err
			}
		}
		return nil
	case *term.MetaApp:
		for _, a := range n.Args {
			if err := observeArities(a, observed); err != nil {
				return err
			}
		}
	}
	return nil
}

func headName(t term.MetaTerm) string {
	head := term.QueryHead(t)
	if c, ok := head.(*term.Const); ok {
		return c.Name
	}
	return "?"
}

func proofctxMalformed(name string) error {
	return proofctx.Malformed("symbol %q has no declared type in the alphabet", name)
}

// SortedNames returns the arity map's keys sorted, for deterministic
// iteration by downstream components (C7/C8).
func (p *Problem) SortedNames() []string {
	names := make([]string, 0, len(p.arity))
	for n := range p.arity {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EnsureArgFiltered allocates (once) the per-argument filtering
// propositions for symbol f of the given arity.
func (p *Problem) EnsureArgFiltered(ctx *proofctx.Context, f string, arity int) {
	if _, ok := p.argFiltered[f]; ok {
		return
	}
	vars := make([]int, arity)
	for i := range vars {
		vars[i] = ctx.Vars.Fresh("argfiltered:" + f)
	}
	p.argFiltered[f] = vars
}
