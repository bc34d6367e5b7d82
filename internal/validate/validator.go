// Package validate checks dataset exports against the schema before any
// record reaches the scoring engines. PII detection is out of scope here;
// the collection tooling anonymizes upstream.
package validate

import (
	"fmt"

	"github.com/prairielab/credence/internal/model"
)

// Severity ranks a validation finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding, tied to the offending record
type Issue struct {
	Severity Severity `json:"severity"`
	Table    string   `json:"table"`
	RecordID string   `json:"record_id,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.RecordID != "" {
		return fmt.Sprintf("[%s] %s %s: %s", i.Severity, i.Table, i.RecordID, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Table, i.Message)
}

// Validator validates loaded dataset records
type Validator struct{}

// New creates a validator
func New() *Validator {
	return &Validator{}
}

// Creators validates creator rows: ID format and uniqueness, categorical
// enums, confidence bounds
func (v *Validator) Creators(creators []model.Creator) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(creators))

	for _, c := range creators {
		if !model.ValidCreatorID(c.ID) {
			issues = append(issues, Issue{SeverityError, "creators", c.ID, "creator_id is not 64-char lowercase hex"})
		}
		if seen[c.ID] {
			issues = append(issues, Issue{SeverityError, "creators", c.ID, "duplicate creator_id"})
		}
		seen[c.ID] = true

		if !c.State.Valid() {
			issues = append(issues, Issue{SeverityError, "creators", c.ID, fmt.Sprintf("unrecognized state %q", c.State)})
		}
		if c.VerificationLevel != "" && !c.VerificationLevel.Valid() {
			issues = append(issues, Issue{SeverityError, "creators", c.ID, fmt.Sprintf("unrecognized verification_level %q", c.VerificationLevel)})
		}
		if c.VerificationConfidence < 0 || c.VerificationConfidence > 1 {
			issues = append(issues, Issue{SeverityError, "creators", c.ID, fmt.Sprintf("verification_confidence %v outside [0,1]", c.VerificationConfidence)})
		}
		if c.PrimaryPlatform != "" && !c.PrimaryPlatform.Valid() {
			issues = append(issues, Issue{SeverityWarning, "creators", c.ID, fmt.Sprintf("unrecognized primary_platform %q", c.PrimaryPlatform)})
		}
		// Stored levels are advisory (the engine always recomputes), so a
		// disagreement with the stored confidence is a warning, not an error.
		if c.VerificationLevel.Valid() && c.VerificationConfidence >= 0 && c.VerificationConfidence <= 1 {
			if implied := impliedLevel(c.VerificationConfidence); c.VerificationLevel != implied {
				issues = append(issues, Issue{SeverityWarning, "creators", c.ID,
					fmt.Sprintf("verification_level %q disagrees with confidence %v (implies %s)", c.VerificationLevel, c.VerificationConfidence, implied)})
			}
		}
	}
	return issues
}

// impliedLevel discretizes a stored confidence with the default thresholds
func impliedLevel(confidence float64) model.ConfidenceLevel {
	switch {
	case confidence >= model.DefaultHighThreshold:
		return model.LevelHigh
	case confidence >= model.DefaultMediumThreshold:
		return model.LevelMedium
	case confidence > 0:
		return model.LevelLow
	default:
		return model.LevelUndetermined
	}
}

// Evidence validates evidence rows: enums and declared numeric bounds.
// Tier-band fit is the engine's advisory concern, not a schema matter.
func (v *Validator) Evidence(evidence []model.Evidence) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(evidence))

	for _, ev := range evidence {
		if ev.ID == "" {
			issues = append(issues, Issue{SeverityError, "evidence", "", "missing evidence_id"})
			continue
		}
		if seen[ev.ID] {
			issues = append(issues, Issue{SeverityError, "evidence", ev.ID, "duplicate evidence_id"})
		}
		seen[ev.ID] = true

		if !model.ValidCreatorID(ev.CreatorID) {
			issues = append(issues, Issue{SeverityError, "evidence", ev.ID, "creator_id is not 64-char lowercase hex"})
		}
		if !ev.SignalType.Valid() {
			issues = append(issues, Issue{SeverityError, "evidence", ev.ID, fmt.Sprintf("unrecognized signal_type %q", ev.SignalType)})
		}
		if !ev.Status.Valid() {
			issues = append(issues, Issue{SeverityError, "evidence", ev.ID, fmt.Sprintf("unrecognized verification_status %q", ev.Status)})
		}
		if ev.Weight != nil && (*ev.Weight < 0 || *ev.Weight > 1) {
			issues = append(issues, Issue{SeverityError, "evidence", ev.ID, fmt.Sprintf("weight %v outside [0,1]", *ev.Weight)})
		}
		if ev.ConfidenceImpact != nil && (*ev.ConfidenceImpact < -1 || *ev.ConfidenceImpact > 1) {
			issues = append(issues, Issue{SeverityError, "evidence", ev.ID, fmt.Sprintf("confidence_impact %v outside [-1,1]", *ev.ConfidenceImpact)})
		}
	}
	return issues
}

// Snapshots validates platform snapshot rows: platform enum, non-negative
// counts, (creator, platform, date) uniqueness
func (v *Validator) Snapshots(snapshots []model.PlatformSnapshot) []Issue {
	var issues []Issue
	type key struct {
		creator  string
		platform model.Platform
		date     model.Date
	}
	seen := make(map[key]bool, len(snapshots))

	for _, s := range snapshots {
		if !model.ValidCreatorID(s.CreatorID) {
			issues = append(issues, Issue{SeverityError, "metrics", s.CreatorID, "creator_id is not 64-char lowercase hex"})
		}
		if !s.Platform.Valid() {
			issues = append(issues, Issue{SeverityError, "metrics", s.CreatorID, fmt.Sprintf("unrecognized platform %q", s.Platform)})
		}
		k := key{s.CreatorID, s.Platform, s.Date}
		if seen[k] {
			issues = append(issues, Issue{SeverityError, "metrics", s.CreatorID, fmt.Sprintf("duplicate snapshot for %s on %s", s.Platform, s.Date)})
		}
		seen[k] = true

		counts := []struct {
			name  string
			value *float64
		}{
			{"followers", s.Followers},
			{"avg_likes_post", s.AvgLikesPost},
			{"avg_comments_post", s.AvgCommentsPost},
		}
		for _, c := range counts {
			if c.value != nil && *c.value < 0 {
				issues = append(issues, Issue{SeverityError, "metrics", s.CreatorID, fmt.Sprintf("negative %s", c.name)})
			}
		}
	}
	return issues
}

// Business validates business rows: one per creator, recognized pricing
// visibility
func (v *Validator) Business(records []model.BusinessRecord) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(records))

	for _, b := range records {
		if !model.ValidCreatorID(b.CreatorID) {
			issues = append(issues, Issue{SeverityError, "business", b.CreatorID, "creator_id is not 64-char lowercase hex"})
		}
		if seen[b.CreatorID] {
			issues = append(issues, Issue{SeverityError, "business", b.CreatorID, "more than one business record for creator"})
		}
		seen[b.CreatorID] = true

		if !b.PricingVisible.Valid() {
			issues = append(issues, Issue{SeverityWarning, "business", b.CreatorID, fmt.Sprintf("unrecognized pricing_visible %q", b.PricingVisible)})
		}
	}
	return issues
}

// HasErrors reports whether any issue is error severity
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
