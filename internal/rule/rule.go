package rule

import (
	"github.com/gitrdm/afsmterm/internal/term"
)

// Rule is a rewrite rule (Left, Right): a pair of meta-terms. Validity is
// checked once (via Validate) and cached, together with a reason string
// describing the first invariant that failed.
//
// A rule is valid iff:
//   - Left is headed by a constant (term.QueryHead(Left) is a *term.Const).
//   - Left is a pattern (term.IsPattern(Left)).
//   - Left and Right have the same type.
//   - Both sides are closed: every free (non-meta) variable of Left and
//     Right must itself be universally quantified, i.e. Left and Right
//     contain no free term.Var at all (only meta-variables may be free).
//   - Every type variable occurring in Right also occurs in Left.
//   - Every meta-variable occurring in Right also occurs in Left.
type Rule struct {
	Left, Right MetaTerm

	validated bool
	valid     bool
	reason    string
}

// MetaTerm re-exports term.MetaTerm so callers of this package need not
// import internal/term merely to spell the rule's field types.
type MetaTerm = term.MetaTerm

// NewRule builds an unvalidated rule; call Validate (or Valid) before
// relying on Reason.
func NewRule(left, right MetaTerm) *Rule {
	return &Rule{Left: left, Right: right}
}

// Validate runs (and caches) the validity check described above.
func (r *Rule) Validate() bool {
	if r.validated {
		return r.valid
	}
	r.validated = true

	head := term.QueryHead(r.Left)
	if _, ok := head.(*term.Const); !ok {
		r.reason = "left-hand side is not headed by a constant"
		return false
	}
	if !term.IsPattern(r.Left) {
		r.reason = "left-hand side is not a pattern"
		return false
	}
	if !r.Left.Type().Equals(r.Right.Type()) {
		r.reason = "left-hand side and right-hand side have different types"
		return false
	}
	if len(r.Left.FreeVar(false)) != 0 || len(r.Right.FreeVar(false)) != 0 {
		r.reason = "rule is not closed in its ordinary (non-meta) free variables"
		return false
	}
	leftTypeVars := toSet(r.Left.FreeTypeVar())
	for _, tv := range r.Right.FreeTypeVar() {
		if !leftTypeVars[tv] {
			r.reason = "a type variable of the right-hand side does not occur in the left-hand side"
			return false
		}
	}
	leftMeta := toSet(r.Left.FreeVar(true))
	for _, mv := range r.Right.FreeVar(true) {
		if !leftMeta[mv] {
			r.reason = "a meta-variable of the right-hand side does not occur in the left-hand side"
			return false
		}
	}

	r.valid = true
	r.reason = ""
	return true
}

// Valid reports the cached validity, validating first if necessary.
func (r *Rule) Valid() bool { return r.Validate() }

// Reason returns the invariant-violation message for an invalid rule, or
// the empty string for a valid one.
func (r *Rule) Reason() string {
	r.Validate()
	return r.reason
}

func toSet(xs []int) map[int]bool {
	m := make(map[int]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}
