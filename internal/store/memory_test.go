package store

import (
	"strings"
	"testing"
	"time"

	"github.com/prairielab/credence/internal/model"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	id := strings.Repeat("ab", 32)

	if _, ok := s.Get(id); ok {
		t.Fatal("empty store returned a result")
	}

	result := &model.ScoreResult{CreatorID: id, Verification: model.Verification{Confidence: 0.8}}
	s.Put(id, result)

	got, ok := s.Get(id)
	if !ok {
		t.Fatal("stored result not found")
	}
	if got.Verification.Confidence != 0.8 {
		t.Errorf("unexpected result: %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}

	s.Delete(id)
	if _, ok := s.Get(id); ok {
		t.Error("deleted result still resident")
	}
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	id := strings.Repeat("cd", 32)

	s.Put(id, &model.ScoreResult{CreatorID: id, Verification: model.Verification{Confidence: 0.2}})
	s.Put(id, &model.ScoreResult{CreatorID: id, Verification: model.Verification{Confidence: 0.9}})

	got, ok := s.Get(id)
	if !ok || got.Verification.Confidence != 0.9 {
		t.Errorf("expected the later write to win, got %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore(20 * time.Millisecond)
	id := strings.Repeat("ef", 32)

	s.Put(id, &model.ScoreResult{CreatorID: id})
	if _, ok := s.Get(id); !ok {
		t.Fatal("fresh result not found")
	}

	time.Sleep(40 * time.Millisecond)
	if _, ok := s.Get(id); ok {
		t.Error("expired result still readable")
	}
}

func TestKey(t *testing.T) {
	id := strings.Repeat("ab", 32)
	k := Key(id)
	if !strings.HasPrefix(k, "credence:v1:") {
		t.Errorf("unexpected key prefix: %s", k)
	}
	if Key(id) != k {
		t.Error("key derivation must be deterministic")
	}
	if Key(strings.Repeat("cd", 32)) == k {
		t.Error("distinct IDs must map to distinct keys")
	}
}
