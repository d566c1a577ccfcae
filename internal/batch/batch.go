package batch

import (
	"context"

	"github.com/gitrdm/afsmterm/internal/driver"
	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/rule"
)

// Job is one independent proof attempt: its own alphabet, its own rule
// set, and the name (typically a file path) it should be reported
// under.
type Job struct {
	Name  string
	Alpha *rule.Alphabet
	Rules []*rule.Rule
}

// Result is the outcome of one Job, paired back with its Name since
// jobs complete in submission order only when the pool has exactly one
// worker.
type Result struct {
	Name    string
	Verdict driver.Verdict
	Ctx     *proofctx.Context
	Err     error
}

// Run submits every job to pool, each with its own freshly constructed
// proofctx.Context, and returns one Result per job once all have
// completed. This is the only place jobs' proof attempts share
// anything: the Pool's scheduling, never a proofctx.Context, satisfies
// spec.md §5's constraint that two attempts never interleave on the
// same process state.
func Run(ctx context.Context, pool *Pool, solver driver.Solver, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	done := make(chan struct{}, len(jobs))

	for i, job := range jobs {
		i, job := i, job
		err := pool.Submit(ctx, func() {
			defer func() { done <- struct{}{} }()
			pctx := proofctx.New()
			verdict, err := driver.Prove(pctx, job.Alpha, job.Rules, solver)
			results[i] = Result{Name: job.Name, Verdict: verdict, Ctx: pctx, Err: err}
		})
		if err != nil {
			results[i] = Result{Name: job.Name, Err: err}
			done <- struct{}{}
		}
	}

	for range jobs {
		<-done
	}
	return results
}
