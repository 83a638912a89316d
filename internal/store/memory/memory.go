package memory

import (
	"context"
	"sync"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
)

type record struct {
	entity  any
	version int64
}

// Store is the in-memory EntityStore. Records are kept in insertion order
// per kind so List results are stable.
type Store struct {
	mu      sync.RWMutex
	records map[store.Kind]map[common.UUID]*record
	order   map[store.Kind][]common.UUID
}

func New() *Store {
	return &Store{
		records: make(map[store.Kind]map[common.UUID]*record),
		order:   make(map[store.Kind][]common.UUID),
	}
}

func (s *Store) Get(ctx context.Context, kind store.Kind, id common.UUID) (any, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[kind][id]
	if !ok {
		return nil, 0, store.ErrNotFound(kind)
	}
	return rec.entity, rec.version, nil
}

func (s *Store) List(ctx context.Context, kind store.Kind, filter store.Filter) ([]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []any
	for _, id := range s.order[kind] {
		rec := s.records[kind][id]
		if rec == nil {
			continue
		}
		if len(filter.Tags) > 0 && !tagsOverlap(store.TagsOf(rec.entity), filter.Tags) {
			continue
		}
		if filter.Match != nil && !filter.Match(rec.entity) {
			continue
		}
		items = append(items, rec.entity)
	}
	return items, nil
}

func (s *Store) Insert(ctx context.Context, kind store.Kind, entity any) error {
	id, err := store.IDOf(kind, entity)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[kind] == nil {
		s.records[kind] = make(map[common.UUID]*record)
	}
	if _, exists := s.records[kind][id]; exists {
		return common.NewError(common.CodeConflict, string(kind)+" already exists", nil)
	}
	s.records[kind][id] = &record{entity: entity, version: 1}
	s.order[kind] = append(s.order[kind], id)
	return nil
}

func (s *Store) CASUpdate(ctx context.Context, write store.Write) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(write)
}

// CASUpdateAll validates every expected version first and applies the
// writes only if all of them still hold, so a batch commits all or nothing.
func (s *Store) CASUpdateAll(ctx context.Context, writes []store.Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, write := range writes {
		rec, ok := s.records[write.Kind][write.ID]
		if !ok {
			return store.ErrNotFound(write.Kind)
		}
		if rec.version != write.ExpectedVersion {
			return store.ErrVersionConflict(write.Kind)
		}
	}
	for _, write := range writes {
		if _, err := s.applyLocked(write); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyLocked(write store.Write) (int64, error) {
	rec, ok := s.records[write.Kind][write.ID]
	if !ok {
		return 0, store.ErrNotFound(write.Kind)
	}
	if rec.version != write.ExpectedVersion {
		return 0, store.ErrVersionConflict(write.Kind)
	}
	rec.entity = write.Entity
	rec.version++
	return rec.version, nil
}

func tagsOverlap(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
