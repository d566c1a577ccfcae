// Package driver implements the proof-search loop (C11): repeated
// polynomial-interpretation and HORPO attempts with rule removal, plus
// the two non-termination detectors that let a failed proof search
// report NO instead of MAYBE.
package driver

import (
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/term"
)

// ObviousLoop mirrors nonterminator.cpp's obvious_loop, scoped to the
// single-step case: it reports whether some rule's right-hand side
// already contains, as a subterm, an instance of that very rule's
// left-hand side. A rewrite step immediately followed by a match of the
// same rule against the newly created redex is the simplest concrete
// witness of non-termination a search can produce without actually
// running a (possibly unbounded) reduction sequence.
func ObviousLoop(rules []*rule.Rule) (*rule.Rule, bool) {
	for _, r := range rules {
		for _, sub := range subterms(r.Right) {
			if _, _, ok := term.Match(r.Left, sub); ok {
				return r, true
			}
		}
	}
	return nil, false
}

// subterms collects every subterm of t (t included), following
// App (both Fun and Arg), Abs and MetaApp structure.
func subterms(t term.MetaTerm) []term.MetaTerm {
	out := []term.MetaTerm{t}
	switch n := t.(type) {
	case *term.Abs:
		out = append(out, subterms(n.Body)...)
	case *term.App:
		out = append(out, subterms(n.Fun)...)
		out = append(out, subterms(n.Arg)...)
	case *term.MetaApp:
		for _, a := range n.Args {
			out = append(out, subterms(a)...)
		}
	}
	return out
}
