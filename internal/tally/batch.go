package tally

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"
)

// Options controls a batch tally.
type Options struct {
	Challenge int
	Jobs      int
	Strict    bool
}

// FileResult is the scan outcome for one input file.
type FileResult struct {
	Result
	Err error
}

// Report is the outcome of a batch tally.
type Report struct {
	Counts []int
	Files  []FileResult
}

// Failed returns the files that could not be scanned.
func (r Report) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Run scans every path and tallies the winners in input order. Up to
// opts.Jobs files are read concurrently; aggregation is always sequential.
func Run(ctx context.Context, paths []string, opts Options) (Report, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	mapper := iter.Mapper[string, FileResult]{MaxGoroutines: jobs}
	files := mapper.Map(paths, func(path *string) FileResult {
		if err := ctx.Err(); err != nil {
			return FileResult{Result: Result{Path: *path, Winner: -1}, Err: err}
		}
		res, err := ScanFile(*path, opts.Challenge)
		return FileResult{Result: res, Err: err}
	})
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	agg := NewAggregator()
	for _, f := range files {
		if f.Err != nil {
			if opts.Strict {
				return Report{Files: files}, fmt.Errorf("failed to scan %s: %w", f.Path, f.Err)
			}
			continue
		}
		if f.HasWinner {
			agg.Record(f.Winner)
		}
	}
	return Report{Counts: agg.Snapshot(), Files: files}, nil
}
