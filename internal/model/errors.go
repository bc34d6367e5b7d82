package model

import "fmt"

// DataIntegrityError reports a violated uniqueness invariant (duplicate
// evidence IDs, duplicate creator rows). Fatal to that creator's computation
// and never silently recovered.
type DataIntegrityError struct {
	Entity string // "evidence", "creator", ...
	ID     string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: duplicate %s id %q", e.Entity, e.ID)
}

// RangeError reports a value outside its declared numeric bounds. The
// engines never clamp out-of-contract inputs into range: doing so would
// silently corrupt the audit trail.
type RangeError struct {
	Field string
	ID    string // owning record id, when known
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("range: %s=%v on %q outside [%v,%v]", e.Field, e.Value, e.ID, e.Min, e.Max)
	}
	return fmt.Sprintf("range: %s=%v outside [%v,%v]", e.Field, e.Value, e.Min, e.Max)
}

// AmbiguousSnapshotError reports two snapshots sharing a (platform, date)
// key. The engine refuses to pick one.
type AmbiguousSnapshotError struct {
	Platform Platform
	Date     Date
}

func (e *AmbiguousSnapshotError) Error() string {
	return fmt.Sprintf("ambiguous snapshot: multiple rows for %s on %s", e.Platform, e.Date)
}
