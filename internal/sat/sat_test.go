package sat

import (
	"bytes"
	"testing"

	"github.com/gitrdm/afsmterm/internal/formula"
	"github.com/gitrdm/afsmterm/internal/proofctx"
)

func TestEmbeddedSolvesSatisfiableFormula(t *testing.T) {
	ctx := proofctx.New()
	x := ctx.Vars.Fresh("x")
	phi := formula.Pos(x)
	simplified := formula.Simplify(phi, ctx.Vars)
	cnf := formula.ToCNF(simplified, ctx.Vars, false)

	res, err := (Embedded{}).Solve(cnf, ctx.Vars.Len())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !res.Sat {
		t.Fatalf("expected x to be satisfiable")
	}
	if !res.Model.Test(uint(x)) {
		t.Fatalf("expected model[x] = true")
	}
}

func TestEmbeddedRejectsUnsatisfiableFormula(t *testing.T) {
	ctx := proofctx.New()
	x := ctx.Vars.Fresh("x")
	phi := formula.MkAnd(formula.Pos(x), formula.Neg(x))
	simplified := formula.Simplify(phi, ctx.Vars)
	cnf := formula.ToCNF(simplified, ctx.Vars, false)

	res, err := (Embedded{}).Solve(cnf, ctx.Vars.Len())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Sat {
		t.Fatalf("expected x /\\ -x to be unsatisfiable")
	}
}

func TestWriteDIMACSHeader(t *testing.T) {
	ctx := proofctx.New()
	x := ctx.Vars.Fresh("x")
	phi := formula.Simplify(formula.Pos(x), ctx.Vars)
	cnf := formula.ToCNF(phi, ctx.Vars, false)

	var buf bytes.Buffer
	WriteDIMACS(&buf, cnf, ctx.Vars.Len())
	if got := buf.String(); got == "" || got[0] != 'p' {
		t.Fatalf("WriteDIMACS() did not start with the p-cnf header: %q", got)
	}
}

func TestParseDIMACSOutputSatisfiable(t *testing.T) {
	out := "c comment\ns SATISFIABLE\nv 1 -2 0\n"
	res, err := ParseDIMACSOutput(out, 2)
	if err != nil {
		t.Fatalf("ParseDIMACSOutput() error = %v", err)
	}
	if !res.Sat || !res.Model.Test(0) || res.Model.Test(1) {
		t.Fatalf("ParseDIMACSOutput() = %+v, want Sat with model [true,false]", res)
	}
}

func TestParseDIMACSOutputUnsatisfiable(t *testing.T) {
	res, err := ParseDIMACSOutput("s UNSATISFIABLE\n", 2)
	if err != nil {
		t.Fatalf("ParseDIMACSOutput() error = %v", err)
	}
	if res.Sat {
		t.Fatalf("expected Sat = false")
	}
}
