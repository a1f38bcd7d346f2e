package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scorecast/scorecast/internal/domain/league"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/domain/scoring"
	"github.com/scorecast/scorecast/internal/platform/logging"
)

// LeaderboardService ranks a league's members over the league's date
// window. Finished matches contribute their persisted points; live
// matches with a running score contribute provisional points that are
// computed on the fly and never written back.
type LeaderboardService struct {
	leagueRepo     league.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewLeaderboardService(
	leagueRepo league.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		leagueRepo:     leagueRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// Build returns the ranked leaderboard for one league. Flat-stakes
// leagues with an entry price carry prize shares on every build.
func (s *LeaderboardService) Build(ctx context.Context, leagueID string) ([]league.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.Build")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league for leaderboard: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	if len(members) == 0 {
		return []league.Entry{}, nil
	}

	matches, err := s.matchRepo.ListByWindow(ctx, l.StartDate, l.EndDate)
	if err != nil {
		return nil, fmt.Errorf("list matches in league window: %w", err)
	}

	matchByID := make(map[string]match.Match, len(matches))
	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		if !countsForLeaderboard(m) {
			continue
		}
		matchByID[m.ID] = m
		matchIDs = append(matchIDs, m.ID)
	}

	entryByUser := make(map[string]*league.Entry, len(members))
	userIDs := make([]string, 0, len(members))
	for _, member := range members {
		entryByUser[member.UserID] = &league.Entry{UserID: member.UserID}
		userIDs = append(userIDs, member.UserID)
	}

	if len(matchIDs) > 0 {
		predictions, err := s.predictionRepo.ListByUsersAndMatches(ctx, userIDs, matchIDs)
		if err != nil {
			return nil, fmt.Errorf("list predictions in league window: %w", err)
		}
		for _, p := range predictions {
			entry, ok := entryByUser[p.UserID]
			if !ok {
				continue
			}
			m := matchByID[p.MatchID]
			points, counted := predictionPoints(m, p)
			if !counted {
				continue
			}
			if m.IsFinished() && !p.IsSettled() {
				s.persistComputedPoints(ctx, p, points)
			}
			entry.PredictionCount++
			entry.Points += points
			if scoring.IsExact(points) {
				entry.ExactCount++
			}
			if scoring.IsCorrect(points) {
				entry.CorrectCount++
			}
		}
	}

	entries := make([]league.Entry, 0, len(entryByUser))
	for _, entry := range entryByUser {
		entries = append(entries, *entry)
	}
	rankEntries(entries)
	return AllocatePrizes(l, entries), nil
}

// persistComputedPoints writes points a finished match's settlement has
// not reached yet, so the stored row catches up with what the board
// showed. Failure keeps the computed value on the board.
func (s *LeaderboardService) persistComputedPoints(ctx context.Context, p prediction.Prediction, points int) {
	now := s.now().UTC()
	p.Points = &points
	p.SettledAt = &now
	p.UpdatedAt = now
	if err := s.predictionRepo.Update(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "persist leaderboard points failed",
			"prediction_id", p.ID, "user_id", p.UserID, "error", err)
	}
}

// countsForLeaderboard keeps finished matches and live matches that
// already have a running score.
func countsForLeaderboard(m match.Match) bool {
	if m.IsFinished() {
		return m.HasResult()
	}
	return match.NormalizeStatus(m.Status) == match.StatusLive && m.HasResult()
}

// predictionPoints resolves the points one prediction contributes. For
// finished matches the persisted value wins when present; live matches
// always score provisionally against the current score.
func predictionPoints(m match.Match, p prediction.Prediction) (int, bool) {
	if m.IsFinished() && p.IsSettled() {
		return p.PointsValue(), true
	}
	if !m.HasResult() {
		return 0, false
	}
	return scoring.Score(p.PredictedHome, p.PredictedAway, *m.HomeScore, *m.AwayScore), true
}

// rankEntries sorts by points descending and assigns standard
// competition ranks, so two members tied at the top both rank 1 and the
// next member ranks 3.
func rankEntries(entries []league.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	for idx := range entries {
		if idx > 0 && entries[idx].Points == entries[idx-1].Points {
			entries[idx].Rank = entries[idx-1].Rank
			continue
		}
		entries[idx].Rank = idx + 1
	}
}
