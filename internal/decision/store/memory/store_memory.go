package memory

import (
	"context"
	"sync"

	"certus/internal/decision/models"
	id "certus/pkg/domain"
	"certus/pkg/platform/sentinel"
)

// Store keeps decision revisions in memory for unit tests.
type Store struct {
	mu        sync.RWMutex
	revisions map[id.CycleID][]*models.Decision
}

func New() *Store {
	return &Store{revisions: make(map[id.CycleID][]*models.Decision)}
}

func (s *Store) Save(_ context.Context, decision *models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision.Revision = len(s.revisions[decision.CycleID])
	clone := *decision
	s.revisions[decision.CycleID] = append(s.revisions[decision.CycleID], &clone)
	return nil
}

func (s *Store) Latest(_ context.Context, cycleID id.CycleID) (*models.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	revisions := s.revisions[cycleID]
	if len(revisions) == 0 {
		return nil, sentinel.ErrNotFound
	}
	clone := *revisions[len(revisions)-1]
	return &clone, nil
}

// Revisions returns every stored revision for a cycle, oldest first. Test
// helper for asserting history is preserved.
func (s *Store) Revisions(cycleID id.CycleID) []*models.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Decision, 0, len(s.revisions[cycleID]))
	for _, d := range s.revisions[cycleID] {
		clone := *d
		out = append(out, &clone)
	}
	return out
}
