package sat

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/proofctx"
)

// External runs a DIMACS-speaking SAT solver binary as a subprocess,
// per spec.md §6's external-solver contract: the CNF is written to the
// process's stdin in DIMACS format, and its stdout is parsed for a
// "s SATISFIABLE"/"s UNSATISFIABLE" line followed (if satisfiable) by
// one or more "v ..." lines of signed literals terminated by 0.
//
// Process spawning has no idiomatic third-party replacement in this
// codebase's dependency pack -- os/exec is the correct tool for this
// concern regardless of domain, so External is one of the few places
// this module reaches for the standard library by design.
type External struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

// Solve writes cnf as DIMACS to the external process and parses its
// result, returning a *proofctx.Error of KindSolverTimeout if the
// process does not finish within e.Timeout.
func (e External) Solve(cnf *formula.CNFResult, nbVars int) (Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.Timeout)
	defer cancel()

	var stdin bytes.Buffer
	WriteDIMACS(&stdin, cnf, nbVars)

	cmd := exec.CommandContext(ctx, e.Path, e.Args...)
	cmd.Stdin = &stdin
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return Result{}, proofctx.Timeout("external sat solver %q exceeded its wall-clock budget", e.Path)
	}
	// A DIMACS solver conventionally exits nonzero on UNSAT; only a
	// genuine launch failure (binary missing, permissions) is fatal here.
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return Result{}, fmt.Errorf("sat: launching external solver %q: %w", e.Path, err)
		}
	}
	return ParseDIMACSOutput(stdout.String(), nbVars)
}

// WriteDIMACS renders cnf in DIMACS CNF format: a "p cnf" header giving
// the variable and clause counts, followed by one line of
// space-separated signed literals (terminated by 0) per clause.
func WriteDIMACS(w *bytes.Buffer, cnf *formula.CNFResult, nbVars int) {
	fmt.Fprintf(w, "p cnf %d %d\n", nbVars, len(cnf.Clauses)+1)
	writeClause(w, formula.Clause{cnf.Top})
	for _, c := range cnf.Clauses {
		writeClause(w, c)
	}
}

func writeClause(w *bytes.Buffer, c formula.Clause) {
	parts := make([]string, 0, len(c)+1)
	for _, lit := range c {
		parts = append(parts, strconv.Itoa(lit))
	}
	parts = append(parts, "0")
	w.WriteString(strings.Join(parts, " "))
	w.WriteString("\n")
}

// ParseDIMACSOutput reads a solver's textual result: the "s SATISFIABLE"
// / "s UNSATISFIABLE" status line and, when satisfiable, the "v ..."
// literal lines giving the model.
func ParseDIMACSOutput(out string, nbVars int) (Result, error) {
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	sat := false
	model := bitset.New(uint(nbVars))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "s SATISFIABLE"):
			sat = true
		case strings.HasPrefix(line, "s UNSATISFIABLE"):
			return Result{Sat: false}, nil
		case strings.HasPrefix(line, "v "):
			for _, tok := range strings.Fields(line)[1:] {
				lit, err := strconv.Atoi(tok)
				if err != nil || lit == 0 {
					continue
				}
				v := formula.PosVar(lit)
				if v >= 0 && v < nbVars && lit > 0 {
					model.Set(uint(v))
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("sat: reading external solver output: %w", err)
	}
	if !sat {
		return Result{Sat: false}, nil
	}
	return Result{Sat: true, Model: model}, nil
}
