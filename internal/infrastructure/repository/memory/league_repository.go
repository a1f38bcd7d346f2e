package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scorecast/scorecast/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
	members map[string][]league.Membership
}

func NewLeagueRepository(seed []league.League) *LeagueRepository {
	leagues := make(map[string]league.League, len(seed))
	for _, l := range seed {
		leagues[l.ID] = l
	}
	return &LeagueRepository{
		leagues: leagues,
		members: make(map[string][]league.Membership),
	}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.leagues[l.ID]; exists {
		return duplicateError("leagues_pkey")
	}
	for _, existing := range r.leagues {
		if strings.EqualFold(existing.InviteCode, l.InviteCode) {
			return duplicateError("leagues_invite_code_key")
		}
	}
	r.leagues[l.ID] = l
	return nil
}

func (r *LeagueRepository) Update(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leagues[l.ID] = l
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, exists := r.leagues[leagueID]
	return l, exists, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, inviteCode string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.leagues {
		if strings.EqualFold(l.InviteCode, inviteCode) {
			return l, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) ListByUser(_ context.Context, userID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for leagueID, memberships := range r.members {
		for _, m := range memberships {
			if m.UserID != userID {
				continue
			}
			if l, exists := r.leagues[leagueID]; exists {
				out = append(out, l)
			}
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) ListEndedUnprocessed(_ context.Context, before time.Time) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, l := range r.leagues {
		if l.AchievementsProcessed || !l.Ended(before) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, m league.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.members[m.LeagueID] {
		if existing.UserID == m.UserID {
			return duplicateError("league_members_pkey")
		}
	}
	r.members[m.LeagueID] = append(r.members[m.LeagueID], m)
	return nil
}

func (r *LeagueRepository) IsMember(_ context.Context, leagueID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members[leagueID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memberships := r.members[leagueID]
	out := make([]league.Membership, 0, len(memberships))
	out = append(out, memberships...)
	// Owner first, then join order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsOwner() != out[j].IsOwner() {
			return out[i].IsOwner()
		}
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
