package input

import (
	"fmt"
	"io"

	"github.com/gitrdm/afsmterm/internal/render"
)

// WriterJustifier is the concrete Justifier cmd/afsmterm uses: it runs
// the accumulated tag-bracketed document through render.Render with a
// fixed set of Options and writes the result to W.
type WriterJustifier struct {
	W       io.Writer
	Options render.Options
}

func (j WriterJustifier) Justify(doc string) error {
	_, err := fmt.Fprintln(j.W, render.Render(doc, j.Options))
	return err
}
