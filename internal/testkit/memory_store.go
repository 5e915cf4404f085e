package testkit

import (
	"context"
	"sort"
	"sync"

	"gospc/domain/core"
	"gospc/domain/run"
	"gospc/ports"
)

// InMemoryRunStore implements RunStorePort with in-memory storage
type InMemoryRunStore struct {
	runs  map[core.RunID]*run.Run
	order []core.RunID
	mu    sync.RWMutex
}

func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{runs: make(map[core.RunID]*run.Run)}
}

func (s *InMemoryRunStore) SaveRun(ctx context.Context, r *run.Run) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	copied := *r
	s.runs[r.ID] = &copied
	return nil
}

func (s *InMemoryRunStore) GetRun(ctx context.Context, id core.RunID) (*run.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.runs[id]
	if !exists {
		return nil, core.NewNotFoundError("run", id.String())
	}
	copied := *r
	return &copied, nil
}

// ListRuns returns newest first
func (s *InMemoryRunStore) ListRuns(ctx context.Context, filters ports.RunFilters) ([]ports.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []ports.RunSummary
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.runs[s.order[i]]
		if filters.Kind != nil && r.Kind != *filters.Kind {
			continue
		}
		if filters.Source != "" && r.Source != filters.Source {
			continue
		}
		results = append(results, ports.RunSummary{
			ID:          r.ID,
			Kind:        r.Kind,
			Source:      r.Source,
			Fingerprint: r.Fingerprint,
			CreatedAt:   r.CreatedAt,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.Time().After(results[j].CreatedAt.Time())
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(results) {
			return nil, nil
		}
		results = results[filters.Offset:]
	}
	if filters.Limit > 0 && len(results) > filters.Limit {
		results = results[:filters.Limit]
	}
	return results, nil
}
