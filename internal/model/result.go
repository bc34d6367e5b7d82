package model

import "time"

// ScoreResult is the merged output for one creator: verification confidence
// on one side, engagement/footprint/business metrics on the other. It is
// produced fresh on every computation and never persisted by the core.
type ScoreResult struct {
	CreatorID    string       `json:"creator_id"`
	State        State        `json:"state,omitempty"`
	Region       string       `json:"city_region,omitempty"`
	Verification Verification `json:"verification"`
	Metrics      Metrics      `json:"metrics"`
	ComputedAt   time.Time    `json:"computed_at"`
}

// Verification is the output of the verification engine
type Verification struct {
	Confidence float64              `json:"confidence"` // [0,1]
	Level      ConfidenceLevel      `json:"level"`
	Breakdown  []SignalContribution `json:"breakdown"` // input order, includes excluded items
	Warnings   []string             `json:"warnings,omitempty"`
}

// SignalContribution is one audit breakdown entry. Contribution is the
// marginal confidence delta the item added when combined in input order, so
// the entries replay the computation exactly.
type SignalContribution struct {
	EvidenceID   string          `json:"evidence_id"`
	SignalType   SignalType      `json:"signal_type"`
	Weight       float64         `json:"weight"`
	Contribution float64         `json:"contribution"`
	Included     bool            `json:"included"`
	Reason       ExclusionReason `json:"reason,omitempty"`
	Advisory     string          `json:"advisory,omitempty"` // tier-band mismatch note, non-fatal
}

// ExclusionReason explains why an evidence item was excluded from scoring
type ExclusionReason string

const (
	ReasonInvalidStatus ExclusionReason = "excluded_invalid"
	ReasonExpired       ExclusionReason = "excluded_expired"
)

// Metrics is the output of the metrics engine. Rates are pointers because
// "no measurable denominator" is a distinct outcome from a zero rate.
type Metrics struct {
	EngagementRate        *float64              `json:"avg_engagement_rate,omitempty"`
	EngagementByPlatform  map[Platform]float64  `json:"engagement_by_platform,omitempty"`
	FootprintScore        float64               `json:"footprint_score"`
	BusinessPresenceIndex int                   `json:"business_presence_index"` // [0,5]
	GrowthRate30d         *float64              `json:"growth_rate_30d,omitempty"`
	GrowthByPlatform      map[Platform]float64  `json:"growth_by_platform,omitempty"`
	TotalFollowers        float64               `json:"total_followers"`
	PlatformCount         int                   `json:"platform_count"`
}

// AuditReport summarizes a batch scoring run over a dataset
type AuditReport struct {
	RunID      string                     `json:"run_id"`
	AsOf       time.Time                  `json:"as_of"`
	StartedAt  time.Time                  `json:"started_at"`
	Creators   int                        `json:"creators"`
	Succeeded  int                        `json:"succeeded"`
	Failed     int                        `json:"failed"`
	Levels     map[string]int             `json:"confidence_levels"`
	MeanScore  float64                    `json:"mean_confidence"`
	States     map[string]*StateAggregate `json:"state_breakdown,omitempty"`
	Errors     []CreatorError             `json:"errors,omitempty"`
	LLMSummary string                     `json:"llm_summary,omitempty"` // narrative only, never feeds back into scores
}

// StateAggregate holds per-state aggregates for the audit summary
type StateAggregate struct {
	Creators       int            `json:"creators"`
	MeanConfidence float64        `json:"mean_confidence"`
	MeanFootprint  float64        `json:"mean_footprint"`
	Levels         map[string]int `json:"confidence_levels"`
}

// CreatorError records one creator's fatal scoring error without aborting
// the batch
type CreatorError struct {
	CreatorID string `json:"creator_id"`
	Message   string `json:"error"`
}
