// Package input declares the contracts spec.md §6 assigns to the
// engine's two peripheral collaborators: the concrete input-file parser
// and the output/justification formatter's driving interface. Neither
// is specified beyond its interface -- the core (typesys/term/rule
// through driver) assumes it is handed an already-parsed, mutually
// consistent (Alphabet, []*rule.Rule) snapshot, and a caller's choice
// of Justifier decides how a completed proof attempt's narration is
// delivered.
package input

import (
	"io"

	"github.com/gitrdm/afsmterm/internal/rule"
)

// Parser turns an AFSM source file into the (Alphabet, []*Rule)
// snapshot the core operates on. The core places exactly one
// requirement on the result: every rule's free-variable indices and
// every constant name it mentions must already be consistent with the
// returned Alphabet -- Parse is responsible for that consistency, not
// the core.
type Parser interface {
	Parse(r io.Reader) (*rule.Alphabet, []*rule.Rule, error)
}

// Justifier receives the tag-bracketed intermediate representation a
// completed proof attempt accumulated (internal/proofctx.Context's
// FinalOutput) and is responsible for delivering it -- to a terminal,
// a file, a web response -- in whatever final form the caller needs.
// internal/render.Render is the formatting half of this contract; a
// Justifier wraps it with an I/O destination.
type Justifier interface {
	Justify(doc string) error
}
