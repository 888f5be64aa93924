package layout

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore implements Store using an in-memory map.
// Intended for demos and testing; no SQLite required.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func key(doctype, layoutType string) string {
	return doctype + "\x00" + layoutType
}

func (s *MemoryStore) Get(_ context.Context, doctype, layoutType string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key(doctype, layoutType)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, doctype, layoutType)
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	if cp.Modified.IsZero() {
		cp.Modified = time.Now().UTC()
	}
	s.records[key(rec.Doctype, rec.Type)] = &cp
	return nil
}
