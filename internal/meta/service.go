package meta

import (
	"context"
)

// PermType selects which access flag a permission-level query checks.
type PermType string

const (
	PermRead  PermType = "read"
	PermWrite PermType = "write"
)

// Service is the metadata accessor used by layout resolution and list-view
// settings. It fronts the Store with a cache; the uncached path exists for
// callers that must see the stored state of record (required-fields
// computation reads uncached metadata).
type Service struct {
	store Store
	cache Cache
}

// NewService creates a Service over the given store and cache.
func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

// Meta returns doctype metadata, served from cache when possible.
func (s *Service) Meta(ctx context.Context, doctype string) (*DocType, error) {
	if dt, ok := s.cache.Get(ctx, doctype); ok {
		return dt, nil
	}
	dt, err := s.store.GetDocType(ctx, doctype)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, dt)
	return dt, nil
}

// MetaUncached returns doctype metadata directly from the store.
func (s *Service) MetaUncached(ctx context.Context, doctype string) (*DocType, error) {
	return s.store.GetDocType(ctx, doctype)
}

// Invalidate drops a doctype from the cache. Called by the event-bus
// consumer when a doctype definition changes.
func (s *Service) Invalidate(ctx context.Context, doctype string) {
	s.cache.Invalidate(ctx, doctype)
}

// Store exposes the underlying store for write paths (seeding, imports).
func (s *Service) Store() Store {
	return s.store
}

// PermLevels returns the permission levels of doctype accessible for the
// given access type. A doctype without rules of its own inherits the
// parent doctype's rules; child-table fields are governed by the parent
// form's permissions.
func (s *Service) PermLevels(ctx context.Context, doctype, parentDoctype string, ptype PermType) ([]int, error) {
	rules, err := s.store.PermLevelRules(ctx, doctype)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 && parentDoctype != "" {
		rules, err = s.store.PermLevelRules(ctx, parentDoctype)
		if err != nil {
			return nil, err
		}
	}

	var levels []int
	for _, r := range rules {
		switch ptype {
		case PermWrite:
			if r.CanWrite {
				levels = append(levels, r.Permlevel)
			}
		default:
			if r.CanRead {
				levels = append(levels, r.Permlevel)
			}
		}
	}
	return levels, nil
}
