package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"certus/internal/profile/models"
	id "certus/pkg/domain"
	"certus/pkg/platform/sentinel"
)

// Store keeps cycles in memory for unit tests and local development.
type Store struct {
	mu     sync.RWMutex
	cycles map[id.ProfileID][]*models.Cycle
}

func New() *Store {
	return &Store{cycles: make(map[id.ProfileID][]*models.Cycle)}
}

func (s *Store) Create(_ context.Context, cycle *models.Cycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.cycles[cycle.ProfileID] {
		if existing.Open() {
			return sentinel.ErrConflict
		}
	}
	clone := *cycle
	s.cycles[cycle.ProfileID] = append(s.cycles[cycle.ProfileID], &clone)
	return nil
}

func (s *Store) Latest(_ context.Context, profileID id.ProfileID) (*models.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cycles := s.cycles[profileID]
	if len(cycles) == 0 {
		return nil, sentinel.ErrNotFound
	}
	sorted := make([]*models.Cycle, len(cycles))
	copy(sorted, cycles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OpenedAt.Before(sorted[j].OpenedAt)
	})
	clone := *sorted[len(sorted)-1]
	return &clone, nil
}

func (s *Store) Close(_ context.Context, cycleID id.CycleID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.find(cycleID)
	if !ok {
		return sentinel.ErrNotFound
	}
	cycle.State = models.CycleStateClosed
	cycle.ClosedAt = &at
	return nil
}

func (s *Store) SetDisqualification(_ context.Context, cycleID id.CycleID, flagged bool, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.find(cycleID)
	if !ok {
		return sentinel.ErrNotFound
	}
	cycle.Disqualified = flagged
	cycle.DisqualificationReason = reason
	return nil
}

func (s *Store) find(cycleID id.CycleID) (*models.Cycle, bool) {
	for _, cycles := range s.cycles {
		for _, cycle := range cycles {
			if cycle.ID == cycleID {
				return cycle, true
			}
		}
	}
	return nil, false
}
