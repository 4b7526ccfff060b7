package scenario

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/adaptsim/internal/seir"
)

// Result is one scenario run of a batch.
type Result struct {
	Name    string
	Output  *seir.Output
	Elapsed time.Duration
}

// RunBatch simulates the named scenarios concurrently. Results keep the
// order of names; the first failure in that order is returned.
func (b *Builder) RunBatch(ctx context.Context, names []string, p *seir.Params, logger *slog.Logger) ([]Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, name := range names {
		if _, err := Lookup(name); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()

			start := time.Now()
			out, err := b.Run(ctx, name, p)
			results[idx] = Result{Name: name, Output: out, Elapsed: time.Since(start)}
			errs[idx] = err
			if err == nil {
				logger.Debug("scenario finished", "name", name, "rows", out.Len(), "elapsed", results[idx].Elapsed)
			}
		}(i, name)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
