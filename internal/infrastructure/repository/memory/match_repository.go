package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/scorecast/scorecast/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	matches := make(map[string]match.Match, len(seed))
	for _, m := range seed {
		matches[m.ID] = m
	}
	return &MatchRepository{matches: matches}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matches[m.ID]; exists {
		return duplicateError("matches_pkey")
	}
	r.matches[m.ID] = m
	return nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.ID] = m
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.matches[matchID]
	return m, exists, nil
}

func (r *MatchRepository) List(_ context.Context, status string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		if status != "" && match.NormalizeStatus(m.Status) != status {
			continue
		}
		out = append(out, m)
	}
	sortByKickoff(out)
	return out, nil
}

func (r *MatchRepository) ListByWindow(_ context.Context, from, to time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.matches {
		if m.KickoffAt.Before(from) || m.KickoffAt.After(to) {
			continue
		}
		out = append(out, m)
	}
	sortByKickoff(out)
	return out, nil
}

func (r *MatchRepository) ListByStatusBefore(_ context.Context, status string, cutoff time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.matches {
		if match.NormalizeStatus(m.Status) != status {
			continue
		}
		if m.KickoffAt.After(cutoff) {
			continue
		}
		out = append(out, m)
	}
	sortByKickoff(out)
	return out, nil
}

func (r *MatchRepository) ListUnsettledFinished(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.matches {
		if !m.IsFinished() || m.SettledAt != nil {
			continue
		}
		out = append(out, m)
	}
	sortByKickoff(out)
	return out, nil
}

func sortByKickoff(matches []match.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].KickoffAt.Equal(matches[j].KickoffAt) {
			return matches[i].KickoffAt.Before(matches[j].KickoffAt)
		}
		return matches[i].ID < matches[j].ID
	})
}
