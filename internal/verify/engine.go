// Package verify combines weighted evidence signals into a bounded
// verification confidence score with a replayable audit breakdown.
package verify

import (
	"fmt"
	"time"

	"github.com/prairielab/credence/internal/model"
)

// Band is the expected weight range for a signal tier. It is advisory: a
// declared weight outside the band is flagged, never clamped. Default fills
// in when an evidence item carries no explicit weight.
type Band struct {
	Min     float64
	Max     float64
	Default float64
}

// Canonical tier bands from the verification methodology
var tierBands = map[model.SignalTier]Band{
	model.TierHigh:   {Min: 0.8, Max: 1.0, Default: 0.9},
	model.TierMedium: {Min: 0.5, Max: 0.7, Default: 0.6},
	model.TierLow:    {Min: 0.2, Max: 0.4, Default: 0.3},
}

// BandFor returns the canonical weight band for a signal tier
func BandFor(tier model.SignalTier) Band {
	return tierBands[tier]
}

// Engine scores a single creator's evidence. It is stateless and safe for
// concurrent use across creators.
type Engine struct {
	policy model.VerificationConfig
}

// NewEngine creates a verification engine with the given confidence policy
func NewEngine(policy model.VerificationConfig) *Engine {
	return &Engine{policy: policy}
}

// Score combines the evidence list into an overall confidence and level at
// the evaluation instant asOf. The input may be empty (confidence 0,
// Undetermined). Duplicate evidence IDs and out-of-bound values are fatal;
// no partial result is returned.
func (e *Engine) Score(evidence []model.Evidence, asOf time.Time) (model.Verification, error) {
	if err := checkDuplicateIDs(evidence); err != nil {
		return model.Verification{}, err
	}

	breakdown := make([]model.SignalContribution, 0, len(evidence))
	var warnings []string

	// Noisy-OR accumulation. Confidence is the running sum of marginal
	// deltas, identical to 1 - Π(1-c_i) but exact in the single-item case.
	confidence := 0.0
	remaining := 1.0
	active := 0
	certaintyGrade := false

	for _, item := range evidence {
		entry := model.SignalContribution{
			EvidenceID: item.ID,
			SignalType: item.SignalType,
		}

		if !item.Active(asOf) {
			entry.Reason = model.ReasonInvalidStatus
			if item.Status != model.StatusInvalid {
				entry.Reason = model.ReasonExpired
			}
			if item.Weight != nil {
				entry.Weight = *item.Weight
			}
			breakdown = append(breakdown, entry)
			continue
		}

		weight, advisory, err := e.resolveWeight(item)
		if err != nil {
			return model.Verification{}, err
		}
		if item.ConfidenceImpact != nil {
			if v := *item.ConfidenceImpact; v < -1 || v > 1 {
				return model.Verification{}, &model.RangeError{
					Field: "confidence_impact", ID: item.ID, Value: v, Min: -1, Max: 1,
				}
			}
		}

		delta := weight * remaining
		remaining *= 1 - weight
		confidence += delta
		active++

		if item.Status == model.StatusVerified && weight >= e.policy.CertaintyWeight {
			certaintyGrade = true
		}

		entry.Weight = weight
		entry.Contribution = delta
		entry.Included = true
		entry.Advisory = advisory
		if advisory != "" {
			warnings = append(warnings, advisory)
		}
		breakdown = append(breakdown, entry)
	}

	ceiling := e.policy.SingleSourceCap
	if certaintyGrade {
		ceiling = 1.0
	}
	if confidence > ceiling {
		confidence = ceiling
	}

	return model.Verification{
		Confidence: confidence,
		Level:      e.Level(confidence, active),
		Breakdown:  breakdown,
		Warnings:   warnings,
	}, nil
}

// Level discretizes a confidence score using the policy thresholds. A
// creator with no active evidence is Undetermined regardless of score.
func (e *Engine) Level(confidence float64, activeEvidence int) model.ConfidenceLevel {
	if activeEvidence == 0 || confidence == 0 {
		return model.LevelUndetermined
	}
	switch {
	case confidence >= e.policy.HighThreshold:
		return model.LevelHigh
	case confidence >= e.policy.MediumThreshold:
		return model.LevelMedium
	default:
		return model.LevelLow
	}
}

// resolveWeight returns the effective weight for an active item: the
// declared weight when present (hard-bound checked), otherwise the tier
// default. The returned advisory is non-empty when a declared weight falls
// outside its tier's expected band.
func (e *Engine) resolveWeight(item model.Evidence) (float64, string, error) {
	band := BandFor(item.SignalType.Tier())
	if item.Weight == nil {
		return band.Default, "", nil
	}

	w := *item.Weight
	if w < 0 || w > 1 {
		return 0, "", &model.RangeError{
			Field: "weight", ID: item.ID, Value: w, Min: 0, Max: 1,
		}
	}

	var advisory string
	if w < band.Min || w > band.Max {
		advisory = fmt.Sprintf("evidence %s: weight %.2f outside %s band [%.2f,%.2f] for signal %s",
			item.ID, w, item.SignalType.Tier(), band.Min, band.Max, item.SignalType)
	}
	return w, advisory, nil
}

func checkDuplicateIDs(evidence []model.Evidence) error {
	seen := make(map[string]bool, len(evidence))
	for _, item := range evidence {
		if seen[item.ID] {
			return &model.DataIntegrityError{Entity: "evidence", ID: item.ID}
		}
		seen[item.ID] = true
	}
	return nil
}
