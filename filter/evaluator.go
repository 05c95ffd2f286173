package filter

import (
	"context"
	"runtime"

	"github.com/s0up4200/bucketeer/bitbucket"
	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*Evaluator)

// WithWorkers sets the number of chunks evaluated at once
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the minimum chunk size for concurrent evaluation
func WithBatchSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// Evaluator applies compiled filters to repository lists
type Evaluator struct {
	workerCount int
	batchSize   int
}

// NewEvaluator creates a new evaluator
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate returns the repositories matching filter, in input order. The
// first evaluation error aborts the run.
func (e *Evaluator) Evaluate(ctx context.Context, filter CompiledFilter, repos []bitbucket.Repository) ([]bitbucket.Repository, error) {
	if len(repos) == 0 {
		return []bitbucket.Repository{}, nil
	}

	// For small lists, don't bother with concurrency
	if len(repos) < e.batchSize {
		return evaluateChunk(filter, repos)
	}

	return e.evaluateConcurrent(ctx, filter, repos)
}

func evaluateChunk(filter CompiledFilter, repos []bitbucket.Repository) ([]bitbucket.Repository, error) {
	matches := make([]bitbucket.Repository, 0, len(repos))
	for _, repo := range repos {
		ok, err := filter.Evaluate(repo)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, repo)
		}
	}
	return matches, nil
}

// evaluateConcurrent splits repos into chunks and evaluates them in parallel
func (e *Evaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, repos []bitbucket.Repository) ([]bitbucket.Repository, error) {
	chunkSize := max(len(repos)/e.workerCount, e.batchSize)
	numChunks := (len(repos) + chunkSize - 1) / chunkSize
	results := make([][]bitbucket.Repository, numChunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range numChunks {
		chunk := repos[i*chunkSize : min((i+1)*chunkSize, len(repos))]

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			matches, err := evaluateChunk(filter, chunk)
			if err != nil {
				return err
			}
			results[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}

	all := make([]bitbucket.Repository, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
