package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prairielab/credence/internal/model"
	"github.com/prairielab/credence/internal/store"
)

// mockScorer scores instantly and fails IDs listed in failing
type mockScorer struct {
	mu      sync.Mutex
	calls   int
	failing map[string]bool
	delay   time.Duration
}

func (m *mockScorer) ScoreCreator(ctx context.Context, creatorID string, asOf time.Time) (*model.ScoreResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.failing[creatorID] {
		return nil, fmt.Errorf("creator %s: bad records", creatorID)
	}
	return &model.ScoreResult{
		CreatorID:    creatorID,
		Verification: model.Verification{Confidence: 0.5, Level: model.LevelMedium},
		ComputedAt:   asOf,
	}, nil
}

func (m *mockScorer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func creatorIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strings.Repeat(fmt.Sprintf("%02x", i+1), 32)
	}
	return ids
}

func TestProcess_AllSucceed(t *testing.T) {
	scorer := &mockScorer{}
	results := store.NewMemoryStore(time.Minute)
	processor := NewBatchProcessor(scorer, 4, 0, results)

	ids := creatorIDs(20)
	outcomes := processor.Process(context.Background(), ids, time.Now())

	if len(outcomes) != len(ids) {
		t.Fatalf("expected %d outcomes, got %d", len(ids), len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Error != nil {
			t.Errorf("creator %s: unexpected error %v", outcome.CreatorID, outcome.Error)
		}
	}
	if scorer.callCount() != len(ids) {
		t.Errorf("expected %d scorer calls, got %d", len(ids), scorer.callCount())
	}
	if results.Len() != len(ids) {
		t.Errorf("expected %d stored results, got %d", len(ids), results.Len())
	}
}

func TestProcess_FailuresIsolated(t *testing.T) {
	ids := creatorIDs(10)
	scorer := &mockScorer{failing: map[string]bool{ids[3]: true, ids[7]: true}}
	results := store.NewMemoryStore(time.Minute)
	processor := NewBatchProcessor(scorer, 4, 0, results)

	outcomes := processor.Process(context.Background(), ids, time.Now())

	var failed, succeeded int
	for _, outcome := range outcomes {
		if outcome.Error != nil {
			failed++
			if outcome.Result != nil {
				t.Errorf("creator %s: failed outcome must carry no result", outcome.CreatorID)
			}
		} else {
			succeeded++
		}
	}
	if failed != 2 || succeeded != 8 {
		t.Errorf("expected 2 failed / 8 succeeded, got %d / %d", failed, succeeded)
	}
	if results.Len() != 8 {
		t.Errorf("failed creators must not reach the store, got %d entries", results.Len())
	}
	if _, ok := results.Get(ids[3]); ok {
		t.Error("failed creator found in store")
	}
}

func TestProcess_EmptyBatch(t *testing.T) {
	processor := NewBatchProcessor(&mockScorer{}, 4, 0, nil)
	outcomes := processor.Process(context.Background(), nil, time.Now())
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestProcess_NilStoreAllowed(t *testing.T) {
	processor := NewBatchProcessor(&mockScorer{}, 2, 0, nil)
	outcomes := processor.Process(context.Background(), creatorIDs(5), time.Now())
	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes, got %d", len(outcomes))
	}
}

func TestProcess_ContextCancellation(t *testing.T) {
	scorer := &mockScorer{delay: 50 * time.Millisecond}
	processor := NewBatchProcessor(scorer, 2, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	outcomes := processor.Process(ctx, creatorIDs(50), time.Now())
	// The run stops early: most queued creators never execute.
	if len(outcomes) >= 50 {
		t.Errorf("expected a truncated run, got %d outcomes", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Error != nil && !errors.Is(outcome.Error, context.Canceled) {
			t.Errorf("unexpected error kind: %v", outcome.Error)
		}
	}
}

func TestProcess_Throttled(t *testing.T) {
	scorer := &mockScorer{}
	processor := NewBatchProcessor(scorer, 4, 100, nil)

	start := time.Now()
	outcomes := processor.Process(context.Background(), creatorIDs(10), time.Now())
	elapsed := time.Since(start)

	if len(outcomes) != 10 {
		t.Fatalf("expected 10 outcomes, got %d", len(outcomes))
	}
	// Burst capacity covers the whole batch, so the run stays fast.
	if elapsed > 2*time.Second {
		t.Errorf("throttled run took too long: %v", elapsed)
	}
}

func TestScoreJob_Execute(t *testing.T) {
	scorer := &mockScorer{failing: map[string]bool{"bad": true}}

	job := &ScoreJob{CreatorID: "good", AsOf: time.Now(), Scorer: scorer}
	outcome := job.Execute(context.Background()).(*ScoreOutcome)
	if outcome.Err() != nil {
		t.Fatalf("unexpected error: %v", outcome.Err())
	}
	if outcome.Result == nil || outcome.Result.CreatorID != "good" {
		t.Errorf("unexpected result: %+v", outcome.Result)
	}

	job = &ScoreJob{CreatorID: "bad", AsOf: time.Now(), Scorer: scorer}
	outcome = job.Execute(context.Background()).(*ScoreOutcome)
	if outcome.Err() == nil {
		t.Fatal("expected error")
	}
	if outcome.Result != nil {
		t.Error("failed job must carry no result")
	}
}
