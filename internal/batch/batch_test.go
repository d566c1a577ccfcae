package batch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gitrdm/afsmterm/internal/input"
	"github.com/gitrdm/afsmterm/internal/sat"
)

func mustParse(t *testing.T, src string) Job {
	t.Helper()
	alpha, rules, err := (input.DefaultParser{}).Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return Job{Alpha: alpha, Rules: rules}
}

func TestRunProvesEachJobIndependently(t *testing.T) {
	plus := mustParse(t, "0 : Nat\ns : Nat -> Nat\nplus : Nat -> Nat -> Nat\n\nplus(0, y) -> y\nplus(s(x), y) -> s(plus(x, y))\n")
	plus.Name = "plus"
	loop := mustParse(t, "a : Nat\nf : Nat -> Nat\n\nf(x) -> f(x)\n")
	loop.Name = "loop"

	pool := NewPool(4)
	defer pool.Shutdown()

	results := Run(context.Background(), pool, sat.Embedded{}, []Job{plus, loop})
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}

	if byName["plus"].Err != nil {
		t.Fatalf("plus job error = %v", byName["plus"].Err)
	}
	if byName["loop"].Err != nil {
		t.Fatalf("loop job error = %v", byName["loop"].Err)
	}
	if byName["plus"].Ctx == byName["loop"].Ctx {
		t.Fatalf("Run() reused a single proofctx.Context across jobs, want one per job")
	}
}

func TestRunHandlesEmptyJobList(t *testing.T) {
	pool := NewPool(2)
	defer pool.Shutdown()

	if got := Run(context.Background(), pool, sat.Embedded{}, nil); len(got) != 0 {
		t.Fatalf("Run() = %v, want empty", got)
	}
}

func TestPoolScalesWithinBounds(t *testing.T) {
	pool := NewDynamicPoolWithConfig(4, 1, DynamicConfig{
		ScaleCheckInterval: 5 * time.Millisecond,
		ScaleCooldown:      5 * time.Millisecond,
	})
	defer pool.Shutdown()

	if got := pool.GetMaxWorkers(); got != 4 {
		t.Fatalf("GetMaxWorkers() = %d, want 4", got)
	}
	if got := pool.GetWorkerCount(); got < 1 || got > 4 {
		t.Fatalf("GetWorkerCount() = %d, want between 1 and 4", got)
	}
}
