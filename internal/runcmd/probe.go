package runcmd

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProbeResult pairs one candidate argv with its probe outcome.
type ProbeResult struct {
	Argv   []string
	Result Result
	Err    error
}

// ProbeConcurrently runs `argv[i] --version`-style probes for every
// candidate in parallel and returns them in input order. Used by compiler
// detection (project()) to probe several candidate binary names (cc, gcc,
// clang, ...) without paying their combined latency serially; the
// synchronous, single-threaded evaluation model only begins
// once this probing phase has returned.
func ProbeConcurrently(ctx context.Context, r Runner, candidates [][]string, opts Options) []ProbeResult {
	results := make([]ProbeResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, argv := range candidates {
		i, argv := i, argv
		g.Go(func() error {
			res, err := r.Run(gctx, argv, opts)
			results[i] = ProbeResult{Argv: argv, Result: res, Err: err}
			return nil // individual probe failures are not fatal to the group
		})
	}
	_ = g.Wait()
	return results
}
