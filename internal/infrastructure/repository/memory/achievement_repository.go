package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scorecast/scorecast/internal/domain/achievement"
)

type AchievementRepository struct {
	mu      sync.RWMutex
	catalog map[string]achievement.Achievement
	grants  map[string]achievement.Grant
}

func NewAchievementRepository(catalog []achievement.Achievement) *AchievementRepository {
	byCode := make(map[string]achievement.Achievement, len(catalog))
	for _, a := range catalog {
		byCode[a.Code] = a
	}
	return &AchievementRepository{
		catalog: byCode,
		grants:  make(map[string]achievement.Grant),
	}
}

func (r *AchievementRepository) GetByCode(_ context.Context, code string) (achievement.Achievement, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.catalog[code]
	return a, exists, nil
}

func (r *AchievementRepository) ListCatalog(_ context.Context) ([]achievement.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]achievement.Achievement, 0, len(r.catalog))
	for _, a := range r.catalog {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *AchievementRepository) CreateGrant(_ context.Context, g achievement.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.grants {
		if existing.UserID == g.UserID && existing.Code == g.Code {
			return duplicateError("user_achievements_user_code_key")
		}
	}
	r.grants[g.ID] = g
	return nil
}

func (r *AchievementRepository) HasGrant(_ context.Context, userID, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.grants {
		if g.UserID == userID && g.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *AchievementRepository) ListGrantsByUser(_ context.Context, userID string) ([]achievement.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]achievement.Grant, 0)
	for _, g := range r.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AwardedAt.Equal(out[j].AwardedAt) {
			return out[i].AwardedAt.Before(out[j].AwardedAt)
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
