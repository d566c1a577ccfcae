// Command afsmterm is the termination-proof engine's CLI: it reads one
// or more AFSM input files, runs the rule-removal loop over each, and
// prints YES/NO/MAYBE with a rendered justification, per spec.md §6's
// external-interfaces contract.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/afsmterm/internal/batch"
	"github.com/gitrdm/afsmterm/internal/driver"
	"github.com/gitrdm/afsmterm/internal/input"
	"github.com/gitrdm/afsmterm/internal/proofctx"
	"github.com/gitrdm/afsmterm/internal/render"
	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/sat"
)

type options struct {
	verbose  bool
	debug    bool
	html     bool
	color    bool
	utf8     bool
	external string
	timeout  time.Duration
	workers  int
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "afsmterm <input-file> [input-file...]",
		Short: "Prove or refute termination of a higher-order rewriting system (AFSM)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return run(args[0], opts, cmd.OutOrStdout())
			}
			return runBatch(args, opts, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	flags := root.Flags()
	flags.BoolVar(&opts.verbose, "verbose", false, "include extra commentary in the proof narration")
	flags.BoolVar(&opts.debug, "debug", false, "imply --verbose and also dump intermediate formulas")
	flags.BoolVar(&opts.html, "html", false, "render output as HTML instead of plain text")
	flags.BoolVar(&opts.color, "color", false, "use ANSI colour in plain-text output")
	flags.BoolVar(&opts.utf8, "utf8", false, "use UTF-8 symbols instead of ASCII fallbacks")
	flags.StringVar(&opts.external, "sat-solver", "", "path to an external DIMACS SAT solver binary (default: embedded solver)")
	flags.DurationVar(&opts.timeout, "sat-timeout", 10*time.Second, "wall-clock budget for the external SAT solver")
	flags.IntVar(&opts.workers, "workers", 0, "max concurrent proof attempts when given more than one input file (default: number of CPUs)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses path with input.DefaultParser, proves or refutes
// termination of the resulting system, and justifies the result to out.
// The exit code is 0 for every one of YES/NO/MAYBE, per spec.md §6 --
// only a parse (malformed-input) or I/O error is a nonzero exit; an
// error from the proof attempt itself is logged and the verdict is
// still printed.
func run(path string, opts *options, out io.Writer) error {
	if opts.debug {
		opts.verbose = true
	}

	ctx := proofctx.New()
	if opts.debug {
		ctx.Log.SetLevel(logrus.DebugLevel)
	} else if opts.verbose {
		ctx.Log.SetLevel(logrus.InfoLevel)
	}

	alpha, rules, err := parseFile(path)
	if err != nil {
		return err
	}

	verdict, err := driver.Prove(ctx, alpha, rules, solverFor(opts))
	if err != nil {
		ctx.LogInternal("proof attempt failed: %v", err)
	}

	doc := "<header>" + verdict.String() + "</header>" + ctx.FinalOutput()
	return justifierFor(opts, out).Justify(doc)
}

// runBatch proves each of paths independently and concurrently, each
// under its own proofctx.Context, via internal/batch.Pool -- see that
// package's doc comment for why spec.md §5's single-process-state
// constraint still holds here (the pool schedules whole attempts, it
// never shares a Context between them).
func runBatch(paths []string, opts *options, out io.Writer) error {
	var jobs []batch.Job
	for _, path := range paths {
		alpha, rules, err := parseFile(path)
		if err != nil {
			return err
		}
		jobs = append(jobs, batch.Job{Name: path, Alpha: alpha, Rules: rules})
	}

	pool := batch.NewPool(opts.workers)
	defer pool.Shutdown()

	results := batch.Run(context.Background(), pool, solverFor(opts), jobs)

	justifier := justifierFor(opts, out)
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("afsmterm: %s: %w", r.Name, r.Err)
		}
		doc := "<header>" + r.Name + ": " + r.Verdict.String() + "</header>" + r.Ctx.FinalOutput()
		if err := justifier.Justify(doc); err != nil {
			return err
		}
	}
	return nil
}

func parseFile(path string) (*rule.Alphabet, []*rule.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("afsmterm: %w", err)
	}
	defer f.Close()

	alpha, rules, err := (input.DefaultParser{}).Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("afsmterm: malformed input: %w", err)
	}
	return alpha, rules, nil
}

func solverFor(opts *options) driver.Solver {
	if opts.external != "" {
		return sat.External{Path: opts.external, Timeout: opts.timeout}
	}
	return sat.Embedded{}
}

func justifierFor(opts *options, out io.Writer) input.WriterJustifier {
	return input.WriterJustifier{
		W: out,
		Options: render.Options{
			HTML:  opts.html,
			UTF8:  opts.utf8,
			Color: opts.color,
		},
	}
}
