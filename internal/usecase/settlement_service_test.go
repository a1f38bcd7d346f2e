package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/scorecast/scorecast/internal/domain/achievement"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/infrastructure/repository/memory"
)

// recordingNotifier captures every notification for assertions. Safe
// for the concurrent fan-out in the league join flow.
type recordingNotifier struct {
	mu           sync.Mutex
	points       []int
	achievements []string
	joins        int
}

func (n *recordingNotifier) PointsAwarded(_ context.Context, _ string, _ string, points int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.points = append(n.points, points)
	return nil
}

func (n *recordingNotifier) AchievementEarned(_ context.Context, _ string, earned achievement.Achievement) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.achievements = append(n.achievements, earned.Code)
	return nil
}

func (n *recordingNotifier) MemberJoined(context.Context, string, string, string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.joins++
	return nil
}

func (n *recordingNotifier) pointsCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.points)
}

func (n *recordingNotifier) joinCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.joins
}

func intPtr(v int) *int {
	return &v
}

func finishedMatch(id string, home, away int, kickoff time.Time) match.Match {
	return match.Match{
		ID:        id,
		HomeTeam:  "Garuda FC",
		AwayTeam:  "Harimau United",
		KickoffAt: kickoff,
		Status:    match.StatusFinished,
		HomeScore: intPtr(home),
		AwayScore: intPtr(away),
		CreatedAt: kickoff.Add(-24 * time.Hour),
		UpdatedAt: kickoff,
	}
}

func TestSettlementService_SettleMatch_ScoresAllOutcomes(t *testing.T) {
	kickoff := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository([]match.Match{finishedMatch("m1", 2, 1, kickoff)})
	predictionRepo := memory.NewPredictionRepository([]prediction.Prediction{
		{ID: "p-exact", UserID: "u1", MatchID: "m1", PredictedHome: 2, PredictedAway: 1, CreatedAt: kickoff.Add(-time.Hour)},
		{ID: "p-outcome", UserID: "u2", MatchID: "m1", PredictedHome: 1, PredictedAway: 0, CreatedAt: kickoff.Add(-time.Hour)},
		{ID: "p-miss", UserID: "u3", MatchID: "m1", PredictedHome: 1, PredictedAway: 1, CreatedAt: kickoff.Add(-time.Hour)},
	}, matchRepo)
	notifier := &recordingNotifier{}

	svc := NewSettlementService(matchRepo, predictionRepo, nil, notifier, nil)
	summary, err := svc.SettleMatch(t.Context(), "m1")
	if err != nil {
		t.Fatalf("settle match: %v", err)
	}

	if summary.Predictions != 3 || summary.Updated != 3 || summary.Unchanged != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Notified != 3 {
		t.Fatalf("expected 3 notifications, got %d", summary.Notified)
	}

	wantPoints := map[string]int{"p-exact": 3, "p-outcome": 1, "p-miss": 0}
	for id, want := range wantPoints {
		p, _, err := predictionRepo.GetByID(t.Context(), id)
		if err != nil {
			t.Fatalf("get prediction %s: %v", id, err)
		}
		if !p.IsSettled() || p.PointsValue() != want {
			t.Fatalf("prediction %s: got points %v, want %d", id, p.Points, want)
		}
	}

	m, _, err := matchRepo.GetByID(t.Context(), "m1")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if m.SettledAt == nil {
		t.Fatalf("expected match settled timestamp to be set")
	}
}

func TestSettlementService_SettleMatch_SecondPassIsNoop(t *testing.T) {
	kickoff := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository([]match.Match{finishedMatch("m1", 2, 1, kickoff)})
	predictionRepo := memory.NewPredictionRepository([]prediction.Prediction{
		{ID: "p1", UserID: "u1", MatchID: "m1", PredictedHome: 2, PredictedAway: 1, CreatedAt: kickoff.Add(-time.Hour)},
		{ID: "p2", UserID: "u2", MatchID: "m1", PredictedHome: 0, PredictedAway: 0, CreatedAt: kickoff.Add(-time.Hour)},
	}, matchRepo)
	notifier := &recordingNotifier{}

	svc := NewSettlementService(matchRepo, predictionRepo, nil, notifier, nil)
	if _, err := svc.SettleMatch(t.Context(), "m1"); err != nil {
		t.Fatalf("first settle: %v", err)
	}

	summary, err := svc.SettleMatch(t.Context(), "m1")
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if summary.Updated != 0 || summary.Unchanged != 2 {
		t.Fatalf("expected second pass to leave everything unchanged, got %+v", summary)
	}
	if got := notifier.pointsCount(); got != 2 {
		t.Fatalf("expected 2 notifications total, got %d", got)
	}
}

func TestSettlementService_SettleMatch_CorrectionDownwardStaysSilent(t *testing.T) {
	kickoff := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	settledAt := kickoff.Add(3 * time.Hour)
	matchRepo := memory.NewMatchRepository([]match.Match{finishedMatch("m1", 0, 3, kickoff)})
	predictionRepo := memory.NewPredictionRepository([]prediction.Prediction{
		{
			ID: "p1", UserID: "u1", MatchID: "m1",
			PredictedHome: 2, PredictedAway: 1,
			Points: intPtr(3), SettledAt: &settledAt,
			CreatedAt: kickoff.Add(-time.Hour),
		},
	}, matchRepo)
	notifier := &recordingNotifier{}

	svc := NewSettlementService(matchRepo, predictionRepo, nil, notifier, nil)
	summary, err := svc.SettleMatch(t.Context(), "m1")
	if err != nil {
		t.Fatalf("settle match: %v", err)
	}

	if summary.Updated != 1 {
		t.Fatalf("expected the corrected prediction to be rewritten, got %+v", summary)
	}
	if summary.Notified != 0 || notifier.pointsCount() != 0 {
		t.Fatalf("downward correction must not notify, got %d notifications", notifier.pointsCount())
	}

	p, _, err := predictionRepo.GetByID(t.Context(), "p1")
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	if p.PointsValue() != 0 {
		t.Fatalf("expected corrected points 0, got %d", p.PointsValue())
	}
}

func TestSettlementService_SettleMatch_Preconditions(t *testing.T) {
	kickoff := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)

	live := finishedMatch("m-live", 1, 0, kickoff)
	live.Status = match.StatusLive
	noResult := match.Match{ID: "m-no-result", HomeTeam: "A", AwayTeam: "B", KickoffAt: kickoff, Status: match.StatusFinished}

	matchRepo := memory.NewMatchRepository([]match.Match{live, noResult})
	predictionRepo := memory.NewPredictionRepository(nil, matchRepo)
	svc := NewSettlementService(matchRepo, predictionRepo, nil, nil, nil)

	if _, err := svc.SettleMatch(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown match, got %v", err)
	}
	if _, err := svc.SettleMatch(t.Context(), "m-live"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for live match, got %v", err)
	}
	if _, err := svc.SettleMatch(t.Context(), "m-no-result"); !errors.Is(err, ErrResultUnavailable) {
		t.Fatalf("expected ErrResultUnavailable for missing score, got %v", err)
	}
	if _, err := svc.SettleMatch(t.Context(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
}
