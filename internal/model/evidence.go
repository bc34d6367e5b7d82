package model

import "time"

// Evidence represents a single verification signal collected for a creator.
// Records are append-only: a correction is a new Evidence row plus a status
// change on the old one, so the audit history is never rewritten.
type Evidence struct {
	ID               string             `json:"evidence_id"`
	CreatorID        string             `json:"creator_id"`
	SignalType       SignalType         `json:"signal_type"`
	Weight           *float64           `json:"weight,omitempty"`            // [0,1]; nil means "use the tier default"
	ConfidenceImpact *float64           `json:"confidence_impact,omitempty"` // [-1,1]; optional, derived when absent
	Description      string             `json:"description,omitempty"`
	CollectionDate   time.Time          `json:"collection_date"`
	Status           VerificationStatus `json:"verification_status"`
	ExpiresAt        *time.Time         `json:"expires_date,omitempty"`
}

// SignalType classifies the kind of verification signal
type SignalType string

const (
	SignalBio           SignalType = "bio"
	SignalPress         SignalType = "press"
	SignalGeotag        SignalType = "geotag"
	SignalEvent         SignalType = "event"
	SignalRegistry      SignalType = "registry"
	SignalCollaboration SignalType = "collaboration"
	SignalBusiness      SignalType = "business"
	SignalOther         SignalType = "other"
)

// Valid reports whether the signal type is one of the recognized values
func (t SignalType) Valid() bool {
	switch t {
	case SignalBio, SignalPress, SignalGeotag, SignalEvent,
		SignalRegistry, SignalCollaboration, SignalBusiness, SignalOther:
		return true
	}
	return false
}

// SignalTier groups signal types by evidentiary strength
type SignalTier int

const (
	TierLow    SignalTier = 1 // bio, event, other
	TierMedium SignalTier = 2 // geotag, collaboration
	TierHigh   SignalTier = 3 // registry, press, business
)

func (t SignalTier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return "unknown"
	}
}

// Tier returns the evidentiary tier of the signal type
func (t SignalType) Tier() SignalTier {
	switch t {
	case SignalRegistry, SignalPress, SignalBusiness:
		return TierHigh
	case SignalGeotag, SignalCollaboration:
		return TierMedium
	default:
		return TierLow
	}
}

// VerificationStatus tracks the review state of an evidence item
type VerificationStatus string

const (
	StatusVerified VerificationStatus = "Verified"
	StatusPending  VerificationStatus = "Pending"
	StatusDisputed VerificationStatus = "Disputed"
	StatusInvalid  VerificationStatus = "Invalid"
)

// Valid reports whether the status is one of the recognized values
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusVerified, StatusPending, StatusDisputed, StatusInvalid:
		return true
	}
	return false
}

// Active reports whether the evidence item participates in scoring at the
// given evaluation instant. Invalid and expired items are excluded but stay
// in the audit breakdown with a reason code.
func (e Evidence) Active(asOf time.Time) bool {
	if e.Status == StatusInvalid {
		return false
	}
	if e.ExpiresAt != nil && e.ExpiresAt.Before(asOf) {
		return false
	}
	return true
}
