package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/prairielab/credence/internal/model"
	"github.com/prairielab/credence/internal/store"
)

// Scorer scores a single creator. Implemented by pipeline.Pipeline.
type Scorer interface {
	ScoreCreator(ctx context.Context, creatorID string, asOf time.Time) (*model.ScoreResult, error)
}

// ScoreJob scores one creator
type ScoreJob struct {
	CreatorID string
	AsOf      time.Time
	Scorer    Scorer
	Limiter   *rate.Limiter // nil disables throttling
}

// Execute runs the job. The creator's result is all-or-nothing: an error
// yields no partial result.
func (j *ScoreJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx); err != nil {
			return &ScoreOutcome{CreatorID: j.CreatorID, Error: err}
		}
	}
	result, err := j.Scorer.ScoreCreator(ctx, j.CreatorID, j.AsOf)
	if err != nil {
		return &ScoreOutcome{CreatorID: j.CreatorID, Error: err}
	}
	return &ScoreOutcome{CreatorID: j.CreatorID, Result: result}
}

// ScoreOutcome is the per-creator outcome of a batch run
type ScoreOutcome struct {
	CreatorID string
	Result    *model.ScoreResult
	Error     error
}

// Err returns the job error, if any
func (o *ScoreOutcome) Err() error {
	return o.Error
}

// BatchProcessor scores many creators concurrently. Per-creator errors are
// collected, never propagated across the batch.
type BatchProcessor struct {
	scorer  Scorer
	workers int
	limiter *rate.Limiter
	results store.Store // nil skips result retention
}

// NewBatchProcessor creates a batch processor. creatorsPerSecond <= 0
// disables throttling; resultStore may be nil.
func NewBatchProcessor(scorer Scorer, workers int, creatorsPerSecond float64, resultStore store.Store) *BatchProcessor {
	var limiter *rate.Limiter
	if creatorsPerSecond > 0 {
		burst := int(creatorsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(creatorsPerSecond), burst)
	}
	return &BatchProcessor{
		scorer:  scorer,
		workers: workers,
		limiter: limiter,
		results: resultStore,
	}
}

// Process scores every listed creator at asOf and returns one outcome per
// creator. Successful results are also written to the result store.
func (b *BatchProcessor) Process(ctx context.Context, creatorIDs []string, asOf time.Time) []*ScoreOutcome {
	if len(creatorIDs) == 0 {
		return []*ScoreOutcome{}
	}

	pool := NewPool(b.workers, len(creatorIDs))
	pool.Start()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, id := range creatorIDs {
		pool.Submit(&ScoreJob{
			CreatorID: id,
			AsOf:      asOf,
			Scorer:    b.scorer,
			Limiter:   b.limiter,
		})
	}

	results := pool.Wait()
	close(done)

	outcomes := make([]*ScoreOutcome, 0, len(results))
	for _, result := range results {
		outcome := result.(*ScoreOutcome)
		if outcome.Error == nil && b.results != nil {
			b.results.Put(outcome.CreatorID, outcome.Result)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
