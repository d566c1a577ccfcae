package driver

import (
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/typesys"
)

// SelfApplicableType reports whether the alphabet declares a symbol
// whose type makes a term of type `A -> B` applicable to an argument of
// type `A -> B` itself, i.e. some data type D occurs as both the domain
// and the co-domain of one of D's own constructor arguments. This is
// the necessary type-level precondition nonterminator.cpp's
// untyped-lambda-calculus-embedding check builds on: without a symbol at
// such a "self-applicable" type, no term can encode the omega-combinator
// `\x.x x x` and the embedding check can never fire, so looking for this
// precondition first is a cheap way to skip the embedding search
// entirely on simply-typed systems (the common case).
func SelfApplicableType(alpha *rule.Alphabet) bool {
	for _, name := range alpha.Names() {
		typ, ok := alpha.Lookup(name)
		if !ok {
			continue
		}
		if hasSelfApplicableArrow(typ) {
			return true
		}
	}
	return false
}

func hasSelfApplicableArrow(t typesys.Type) bool {
	args, out := typesys.Uncurry(t)
	for _, arg := range args {
		a, ok := arg.(*typesys.Arrow)
		if ok && a.Left.Equals(out) && a.Right.Equals(out) {
			return true
		}
	}
	return false
}

// UntypedEmbedding reports whether the alphabet declares a symbol at a
// self-applicable type (see SelfApplicableType) AND some valid rule is
// an obvious loop (see ObviousLoop). It does not check that the looping
// rule's head is declared at the self-applicable type, nor how the
// right-hand side uses the left-hand side's meta-variables.
func UntypedEmbedding(alpha *rule.Alphabet, rules []*rule.Rule) bool {
	if !SelfApplicableType(alpha) {
		return false
	}
	for _, r := range rules {
		if !r.Valid() {
			continue
		}
		if _, loops := ObviousLoop([]*rule.Rule{r}); loops {
			return true
		}
	}
	return false
}
