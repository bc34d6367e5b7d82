// Package store holds scored results for the duration of a run, keyed by
// creator ID. The scoring engines never touch it; only the orchestration
// layer reads and writes here, which keeps the hashed-ID crosswalk and all
// shared state outside the pure scoring path.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/prairielab/credence/internal/model"
)

// Store is the keyed result boundary the batch orchestrator writes to
type Store interface {
	Put(creatorID string, result *model.ScoreResult)
	Get(creatorID string) (*model.ScoreResult, bool)
	Delete(creatorID string)
	Len() int
}

// Key derives the storage key for a creator ID. Dataset IDs are already
// content-addressed hashes; hashing again namespaces them per store version
// without assuming anything about the input format.
func Key(creatorID string) string {
	sum := sha256.Sum256([]byte(creatorID))
	return "credence:v1:" + hex.EncodeToString(sum[:])
}

// DefaultTTL bounds how long a run's results stay resident when the caller
// does not configure retention
const DefaultTTL = time.Hour
