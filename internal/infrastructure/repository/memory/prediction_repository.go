package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scorecast/scorecast/internal/domain/prediction"
)

type PredictionRepository struct {
	mu          sync.RWMutex
	predictions map[string]prediction.Prediction
	matches     *MatchRepository
}

// NewPredictionRepository stores predictions in memory. The match
// repository backs the kickoff-ordered view; a nil repository makes
// that view empty.
func NewPredictionRepository(seed []prediction.Prediction, matches *MatchRepository) *PredictionRepository {
	predictions := make(map[string]prediction.Prediction, len(seed))
	for _, p := range seed {
		predictions[p.ID] = p
	}
	return &PredictionRepository{predictions: predictions, matches: matches}
}

func (r *PredictionRepository) Create(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.predictions {
		if existing.UserID == p.UserID && existing.MatchID == p.MatchID {
			return duplicateError("predictions_user_match_key")
		}
	}
	r.predictions[p.ID] = p
	return nil
}

func (r *PredictionRepository) Update(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.predictions[p.ID] = p
	return nil
}

func (r *PredictionRepository) GetByID(_ context.Context, predictionID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.predictions[predictionID]
	return p, exists, nil
}

func (r *PredictionRepository) GetByUserAndMatch(_ context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.predictions {
		if p.UserID == userID && p.MatchID == matchID {
			return p, true, nil
		}
	}
	return prediction.Prediction{}, false, nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, p := range r.predictions {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *PredictionRepository) ListByUserOrdered(_ context.Context, userID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, p := range r.predictions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *PredictionRepository) ListFinishedByUserOrderedByKickoff(ctx context.Context, userID string) ([]prediction.WithMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.WithMatch, 0)
	if r.matches == nil {
		return out, nil
	}
	for _, p := range r.predictions {
		if p.UserID != userID {
			continue
		}
		m, exists, err := r.matches.GetByID(ctx, p.MatchID)
		if err != nil {
			return nil, err
		}
		if !exists || !m.IsFinished() || !m.HasResult() {
			continue
		}
		out = append(out, prediction.WithMatch{Prediction: p, KickoffAt: m.KickoffAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PredictionRepository) ListByUsersAndMatches(_ context.Context, userIDs, matchIDs []string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		users[id] = struct{}{}
	}
	matches := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		matches[id] = struct{}{}
	}

	out := make([]prediction.Prediction, 0)
	for _, p := range r.predictions {
		if _, ok := users[p.UserID]; !ok {
			continue
		}
		if _, ok := matches[p.MatchID]; !ok {
			continue
		}
		out = append(out, p)
	}
	sortByCreation(out)
	return out, nil
}

func sortByCreation(predictions []prediction.Prediction) {
	sort.Slice(predictions, func(i, j int) bool {
		if !predictions[i].CreatedAt.Equal(predictions[j].CreatedAt) {
			return predictions[i].CreatedAt.Before(predictions[j].CreatedAt)
		}
		return predictions[i].ID < predictions[j].ID
	})
}
