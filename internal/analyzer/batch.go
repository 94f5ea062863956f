package analyzer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of analyzing one batch input.
type Result struct {
	Index  int
	Input  string
	Record Record
	Err    error
}

// AnalyzeBatch analyzes hex packets concurrently with at most workers goroutines.
//
// Results come back in input order. A packet that fails to decode only sets Err on its own
// Result. The returned error is non-nil only when ctx is done before every input was
// analyzed; the unprocessed inputs then carry ctx.Err().
func (a *Analyzer) AnalyzeBatch(ctx context.Context, inputs []string, workers int) ([]Result, error) {
	results := make([]Result, len(inputs))
	for i, in := range inputs {
		results[i] = Result{Index: i, Input: in}
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			rec, err := a.AnalyzeHex(inputs[i])
			if err != nil {
				a.logger.Warn("batch item failed", "index", i, "err", err)
				results[i].Err = err
				return nil
			}
			results[i].Record = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("analyzing batch: %w", err)
	}

	if err := ctx.Err(); err != nil {
		for i := range results {
			if results[i].Err == nil && results[i].Record.MessageType == "" {
				results[i].Err = err
			}
		}
		return results, fmt.Errorf("analyzing batch: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	a.logger.Info("batch analyzed", "total", len(results), "failed", failed, "workers", workers)

	return results, nil
}
