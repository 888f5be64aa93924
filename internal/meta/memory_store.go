package meta

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore implements Store using in-memory maps.
// Intended for demos and testing; no SQLite required.
type MemoryStore struct {
	mu       sync.RWMutex
	doctypes map[string]*DocType
	perms    map[string][]PermLevelRule
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		doctypes: make(map[string]*DocType),
		perms:    make(map[string][]PermLevelRule),
	}
}

func (s *MemoryStore) GetDocType(_ context.Context, name string) (*DocType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dt, ok := s.doctypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return dt.Clone(), nil
}

func (s *MemoryStore) PutDocType(_ context.Context, dt *DocType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctypes[dt.Name] = dt.Clone()
	return nil
}

func (s *MemoryStore) ListDocTypes(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.doctypes))
	for n := range s.doctypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) PermLevelRules(_ context.Context, doctype string) ([]PermLevelRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]PermLevelRule(nil), s.perms[doctype]...), nil
}

func (s *MemoryStore) PutPermLevelRule(_ context.Context, rule PermLevelRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.perms[rule.Doctype] {
		if r.Permlevel == rule.Permlevel {
			s.perms[rule.Doctype][i] = rule
			return nil
		}
	}
	s.perms[rule.Doctype] = append(s.perms[rule.Doctype], rule)
	return nil
}
