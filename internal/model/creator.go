package model

import (
	"regexp"
	"time"
)

// Creator represents one anonymized creator record from the dataset exports.
// The ID is a content-addressed SHA-256 hash of handle@platform produced by
// the collection tooling; the core never reverses it.
type Creator struct {
	ID                     string          `json:"creator_id"`
	State                  State           `json:"state"`
	Region                 string          `json:"city_region,omitempty"`
	PrimaryPlatform        Platform        `json:"primary_platform,omitempty"`
	ContentTypes           []string        `json:"content_types,omitempty"`
	FirstActive            *time.Time      `json:"first_active,omitempty"`
	LastActive             *time.Time      `json:"last_active,omitempty"`
	VerificationConfidence float64         `json:"verification_confidence"`
	VerificationLevel      ConfidenceLevel `json:"verification_level"`
}

// State is the claimed geographic state of a creator
type State string

const (
	StateNebraska     State = "NE"
	StateIowa         State = "IA"
	StateUndetermined State = "Undetermined"
)

// Valid reports whether the state is one of the recognized values
func (s State) Valid() bool {
	switch s {
	case StateNebraska, StateIowa, StateUndetermined:
		return true
	}
	return false
}

// ConfidenceLevel is the discretized verification confidence bucket
type ConfidenceLevel string

const (
	LevelHigh         ConfidenceLevel = "High"
	LevelMedium       ConfidenceLevel = "Medium"
	LevelLow          ConfidenceLevel = "Low"
	LevelUndetermined ConfidenceLevel = "Undetermined"
)

// Valid reports whether the level is one of the recognized values
func (l ConfidenceLevel) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow, LevelUndetermined:
		return true
	}
	return false
}

var creatorIDPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// ValidCreatorID reports whether id is a 64-character lowercase hex string
func ValidCreatorID(id string) bool {
	return creatorIDPattern.MatchString(id)
}
