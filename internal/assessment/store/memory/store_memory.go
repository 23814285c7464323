package memory

import (
	"context"
	"sync"

	"certus/internal/assessment"
	"certus/internal/assessment/models"
	id "certus/pkg/domain"
	"certus/pkg/platform/sentinel"
)

// Store keeps criterion scores in memory. Unit tests and local development;
// production uses the postgres store.
type Store struct {
	mu sync.RWMutex
	// cycle → pillar → code → score
	scores map[id.CycleID]map[int]map[string]models.SubCriterionScore
}

func New() *Store {
	return &Store{
		scores: make(map[id.CycleID]map[int]map[string]models.SubCriterionScore),
	}
}

func (s *Store) InitCycle(_ context.Context, cycleID id.CycleID, seeds []assessment.PillarSeed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.scores[cycleID]; exists {
		return sentinel.ErrConflict
	}
	pillars := make(map[int]map[string]models.SubCriterionScore, len(seeds))
	for _, seed := range seeds {
		rows := make(map[string]models.SubCriterionScore, len(seed.Codes))
		for _, code := range seed.Codes {
			rows[code] = models.SubCriterionScore{Code: code, Rating: models.RatingNotRated}
		}
		pillars[seed.PillarNumber] = rows
	}
	s.scores[cycleID] = pillars
	return nil
}

func (s *Store) ListScores(_ context.Context, cycleID id.CycleID) (map[int][]models.SubCriterionScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pillars, ok := s.scores[cycleID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make(map[int][]models.SubCriterionScore, len(pillars))
	for number, rows := range pillars {
		list := make([]models.SubCriterionScore, 0, len(rows))
		for _, score := range rows {
			list = append(list, score)
		}
		out[number] = list
	}
	return out, nil
}

func (s *Store) PillarScores(_ context.Context, cycleID id.CycleID, pillarNumber int) ([]models.SubCriterionScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pillars, ok := s.scores[cycleID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rows, ok := pillars[pillarNumber]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	list := make([]models.SubCriterionScore, 0, len(rows))
	for _, score := range rows {
		list = append(list, score)
	}
	return list, nil
}

func (s *Store) UpdateScore(_ context.Context, cycleID id.CycleID, pillarNumber int, score models.SubCriterionScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pillars, ok := s.scores[cycleID]
	if !ok {
		return sentinel.ErrNotFound
	}
	rows, ok := pillars[pillarNumber]
	if !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := rows[score.Code]; !ok {
		return sentinel.ErrNotFound
	}
	rows[score.Code] = score
	return nil
}
