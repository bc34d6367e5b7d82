package pipeline

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/prairielab/credence/internal/model"
)

// BuildAuditReport aggregates a batch run's results into the audit summary:
// confidence-level distribution, mean confidence, and per-state rollups.
// Failed creators appear in Errors and nowhere else.
func BuildAuditReport(results []*model.ScoreResult, creatorErrors []model.CreatorError, asOf, startedAt time.Time) *model.AuditReport {
	report := &model.AuditReport{
		RunID:     uuid.NewString(),
		AsOf:      asOf,
		StartedAt: startedAt,
		Creators:  len(results) + len(creatorErrors),
		Succeeded: len(results),
		Failed:    len(creatorErrors),
		Levels:    make(map[string]int),
		States:    make(map[string]*model.StateAggregate),
		Errors:    creatorErrors,
	}

	var confidenceSum float64
	for _, result := range results {
		report.Levels[string(result.Verification.Level)]++
		confidenceSum += result.Verification.Confidence

		state := string(result.State)
		if state == "" {
			state = string(model.StateUndetermined)
		}
		agg := report.States[state]
		if agg == nil {
			agg = &model.StateAggregate{Levels: make(map[string]int)}
			report.States[state] = agg
		}
		agg.Creators++
		agg.MeanConfidence += result.Verification.Confidence
		agg.MeanFootprint += result.Metrics.FootprintScore
		agg.Levels[string(result.Verification.Level)]++
	}

	if len(results) > 0 {
		report.MeanScore = confidenceSum / float64(len(results))
	}
	for _, agg := range report.States {
		agg.MeanConfidence /= float64(agg.Creators)
		agg.MeanFootprint /= float64(agg.Creators)
	}
	return report
}

// SortResults orders results by creator ID for stable rendering
func SortResults(results []*model.ScoreResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatorID < results[j].CreatorID
	})
}
