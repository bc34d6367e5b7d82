// Package pipeline wires the loader, validator, and scoring engines into
// per-creator computations and dataset-wide audits.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/prairielab/credence/internal/metrics"
	"github.com/prairielab/credence/internal/model"
	"github.com/prairielab/credence/internal/validate"
	"github.com/prairielab/credence/internal/verify"
)

// GrowthWindow is the lookback for growth-rate computation
const GrowthWindow = 30 * 24 * time.Hour

// Pipeline scores creators from a loaded dataset. Each creator's computation
// reads only that creator's records and writes only its own result, so the
// caller may run many concurrently.
type Pipeline struct {
	dataset  *Dataset
	verifier *verify.Engine
	metrics  *metrics.Engine
	config   *model.Config
}

// New creates a pipeline over a loaded dataset
func New(cfg *model.Config, dataset *Dataset) *Pipeline {
	return &Pipeline{
		dataset:  dataset,
		verifier: verify.NewEngine(cfg.Verification),
		metrics:  metrics.NewEngine(cfg.Platforms),
		config:   cfg,
	}
}

// Open loads and validates the dataset in cfg.Data.Dir and returns a
// pipeline over it. Validation errors are fatal; warnings are returned for
// the caller to surface.
func Open(cfg *model.Config) (*Pipeline, []validate.Issue, error) {
	dataset, err := LoadDataset(cfg.Data.Dir)
	if err != nil {
		return nil, nil, err
	}

	v := validate.New()
	var issues []validate.Issue
	issues = append(issues, v.Creators(dataset.Creators)...)
	for _, id := range dataset.CreatorIDs() {
		issues = append(issues, v.Evidence(dataset.Evidence[id])...)
		issues = append(issues, v.Snapshots(dataset.Snapshots[id])...)
	}
	var business []model.BusinessRecord
	for _, id := range dataset.CreatorIDs() {
		if rec := dataset.Business[id]; rec != nil {
			business = append(business, *rec)
		}
	}
	issues = append(issues, v.Business(business)...)

	if validate.HasErrors(issues) {
		return nil, issues, fmt.Errorf("dataset failed schema validation (%d issues)", len(issues))
	}
	return New(cfg, dataset), issues, nil
}

// Dataset returns the loaded dataset
func (p *Pipeline) Dataset() *Dataset {
	return p.dataset
}

// ScoreCreator runs both engines for one creator at the evaluation instant
// asOf and merges their outputs. All-or-nothing: any engine error yields no
// partial result, and an error here never poisons other creators.
func (p *Pipeline) ScoreCreator(ctx context.Context, creatorID string, asOf time.Time) (*model.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	creator := p.dataset.Creator(creatorID)
	if creator == nil {
		return nil, fmt.Errorf("creator %s not found in dataset", creatorID)
	}

	verification, err := p.verifier.Score(p.dataset.Evidence[creatorID], asOf)
	if err != nil {
		return nil, fmt.Errorf("verify creator %s: %w", creatorID, err)
	}

	current, prior := splitByWindow(p.dataset.Snapshots[creatorID], asOf)
	var business *model.BusinessRecord
	if rec := p.dataset.Business[creatorID]; rec != nil {
		business = rec
	}
	metricsResult, err := p.metrics.Compute(current, business, prior)
	if err != nil {
		return nil, fmt.Errorf("metrics for creator %s: %w", creatorID, err)
	}

	return &model.ScoreResult{
		CreatorID:    creatorID,
		State:        creator.State,
		Region:       creator.Region,
		Verification: verification,
		Metrics:      metricsResult,
		ComputedAt:   asOf,
	}, nil
}

// splitByWindow partitions snapshots into the current view (everything
// observed by asOf) and the prior view used for growth (everything observed
// by asOf minus the growth window)
func splitByWindow(snapshots []model.PlatformSnapshot, asOf time.Time) (current, prior []model.PlatformSnapshot) {
	cutoff := asOf.Add(-GrowthWindow)
	for _, snap := range snapshots {
		at := snap.Date.Time()
		if at.After(asOf) {
			continue
		}
		current = append(current, snap)
		if !at.After(cutoff) {
			prior = append(prior, snap)
		}
	}
	return current, prior
}

// CreatorIDs lists creator IDs in dataset order
func (d *Dataset) CreatorIDs() []string {
	ids := make([]string, len(d.Creators))
	for i, c := range d.Creators {
		ids[i] = c.ID
	}
	return ids
}
