package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/prairielab/credence/internal/model"
)

// MemoryStore is an in-memory Store with TTL eviction
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates a memory store. Results expire after ttl; a
// non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Put stores a creator's result
func (s *MemoryStore) Put(creatorID string, result *model.ScoreResult) {
	s.cache.Set(Key(creatorID), result, s.ttl)
}

// Get retrieves a creator's result
func (s *MemoryStore) Get(creatorID string) (*model.ScoreResult, bool) {
	if val, found := s.cache.Get(Key(creatorID)); found {
		return val.(*model.ScoreResult), true
	}
	return nil, false
}

// Delete removes a creator's result
func (s *MemoryStore) Delete(creatorID string) {
	s.cache.Delete(Key(creatorID))
}

// Len returns the number of resident results
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
