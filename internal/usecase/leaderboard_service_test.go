package usecase

import (
	"testing"
	"time"

	"github.com/scorecast/scorecast/internal/domain/league"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
)

func TestRankEntries_StandardCompetition(t *testing.T) {
	entries := []league.Entry{
		{UserID: "u1", Points: 7},
		{UserID: "u2", Points: 9},
		{UserID: "u3", Points: 3},
		{UserID: "u4", Points: 7},
		{UserID: "u5", Points: 9},
		{UserID: "u6", Points: 7},
	}

	rankEntries(entries)

	wantRanks := []int{1, 1, 3, 3, 3, 6}
	for i, want := range wantRanks {
		if entries[i].Rank != want {
			t.Fatalf("entry %d (%s, %d pts): got rank %d, want %d",
				i, entries[i].UserID, entries[i].Points, entries[i].Rank, want)
		}
	}
	if entries[0].UserID != "u2" || entries[1].UserID != "u5" {
		t.Fatalf("ties must order by user id: got %s, %s", entries[0].UserID, entries[1].UserID)
	}
}

func TestLeaderboardService_Build_MixesSettledAndProvisional(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)
	kickoff := start.Add(48 * time.Hour)
	settledAt := kickoff.Add(3 * time.Hour)

	leagueRepo := memory.NewLeagueRepository([]league.League{{
		ID: "l1", Name: "Office Cup", OwnerUserID: "u1", InviteCode: "ABCD2345",
		StartDate: start, EndDate: end,
		Type: league.TypeFlatStakes, PrizeDistribution: league.PrizeWinnerTakesAll,
		EntryPrice: decimal.NewFromInt(10),
	}})
	for _, userID := range []string{"u1", "u2"} {
		if err := leagueRepo.AddMember(t.Context(), league.Membership{LeagueID: "l1", UserID: userID, Role: league.RoleMember, JoinedAt: start}); err != nil {
			t.Fatalf("add member %s: %v", userID, err)
		}
	}

	liveMatch := match.Match{
		ID: "m-live", HomeTeam: "C", AwayTeam: "D",
		KickoffAt: kickoff.Add(24 * time.Hour), Status: match.StatusLive,
		HomeScore: intPtr(1), AwayScore: intPtr(0),
	}
	outsideWindow := finishedMatch("m-out", 4, 0, start.Add(-72*time.Hour))
	matchRepo := memory.NewMatchRepository([]match.Match{
		finishedMatch("m-done", 2, 1, kickoff),
		liveMatch,
		outsideWindow,
	})

	predictionRepo := memory.NewPredictionRepository([]prediction.Prediction{
		// u1: exact on the finished match, outcome hit on the live one.
		{ID: "p1", UserID: "u1", MatchID: "m-done", PredictedHome: 2, PredictedAway: 1, Points: intPtr(3), SettledAt: &settledAt, CreatedAt: kickoff.Add(-time.Hour)},
		{ID: "p2", UserID: "u1", MatchID: "m-live", PredictedHome: 2, PredictedAway: 0, CreatedAt: kickoff.Add(-time.Hour)},
		// u2: miss on the finished match, prediction outside the window.
		{ID: "p3", UserID: "u2", MatchID: "m-done", PredictedHome: 0, PredictedAway: 0, Points: intPtr(0), SettledAt: &settledAt, CreatedAt: kickoff.Add(-time.Hour)},
		{ID: "p4", UserID: "u2", MatchID: "m-out", PredictedHome: 4, PredictedAway: 0, Points: intPtr(3), SettledAt: &settledAt, CreatedAt: start.Add(-96 * time.Hour)},
	}, matchRepo)

	svc := NewLeaderboardService(leagueRepo, matchRepo, predictionRepo, nil)
	svc.now = func() time.Time { return start.Add(72 * time.Hour) }

	entries, err := svc.Build(t.Context(), "l1")
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	top := entries[0]
	if top.UserID != "u1" || top.Points != 4 || top.Rank != 1 {
		t.Fatalf("unexpected leader: %+v", top)
	}
	if top.ExactCount != 1 || top.CorrectCount != 2 || top.PredictionCount != 2 {
		t.Fatalf("unexpected leader counts: %+v", top)
	}

	second := entries[1]
	if second.UserID != "u2" || second.Points != 0 || second.Rank != 2 {
		t.Fatalf("unexpected runner-up: %+v", second)
	}
	if second.PredictionCount != 1 {
		t.Fatalf("match outside the league window must not count: %+v", second)
	}

	// A flat-stakes league pays on every build, end date or not.
	if got := top.Prize.StringFixed(2); got != "20.00" {
		t.Fatalf("expected leader to carry the full pot, got %s", got)
	}
	if !second.Prize.IsZero() {
		t.Fatalf("expected runner-up prize 0, got %s", second.Prize)
	}

	// The provisional points on the live match must not be written back.
	stored, _, err := predictionRepo.GetByID(t.Context(), "p2")
	if err != nil {
		t.Fatalf("get live prediction: %v", err)
	}
	if stored.IsSettled() {
		t.Fatalf("live match points must stay provisional, got %d", stored.PointsValue())
	}
}

func TestLeaderboardService_Build_PersistsPointsForFinishedMatches(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	kickoff := start.Add(24 * time.Hour)

	leagueRepo := memory.NewLeagueRepository([]league.League{{
		ID: "l1", Name: "Office Cup", OwnerUserID: "u1", InviteCode: "ABCD2345",
		StartDate: start, EndDate: end,
		Type: league.TypeCustomStakes, PrizeDistribution: league.PrizeWinnerTakesAll,
	}})
	if err := leagueRepo.AddMember(t.Context(), league.Membership{LeagueID: "l1", UserID: "u1", Role: league.RoleOwner, JoinedAt: start}); err != nil {
		t.Fatalf("add member: %v", err)
	}

	matchRepo := memory.NewMatchRepository([]match.Match{finishedMatch("m1", 2, 1, kickoff)})
	// The match finished but settlement never reached this prediction.
	predictionRepo := memory.NewPredictionRepository([]prediction.Prediction{
		{ID: "p1", UserID: "u1", MatchID: "m1", PredictedHome: 2, PredictedAway: 1, CreatedAt: kickoff.Add(-time.Hour)},
	}, matchRepo)

	svc := NewLeaderboardService(leagueRepo, matchRepo, predictionRepo, nil)
	svc.now = func() time.Time { return kickoff.Add(4 * time.Hour) }

	entries, err := svc.Build(t.Context(), "l1")
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}
	if entries[0].Points != 3 {
		t.Fatalf("expected computed points 3, got %d", entries[0].Points)
	}

	stored, exists, err := predictionRepo.GetByID(t.Context(), "p1")
	if err != nil || !exists {
		t.Fatalf("get prediction: exists=%v err=%v", exists, err)
	}
	if !stored.IsSettled() || stored.PointsValue() != 3 {
		t.Fatalf("computed points for a finished match must be persisted, got %+v", stored.Points)
	}
	if stored.SettledAt == nil {
		t.Fatalf("persisted points must carry a settlement time")
	}
}

func TestLeaderboardService_Build_CustomStakesGetRanksOnly(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	kickoff := start.Add(24 * time.Hour)
	settledAt := kickoff.Add(3 * time.Hour)

	leagueRepo := memory.NewLeagueRepository([]league.League{{
		ID: "l1", Name: "Office Cup", OwnerUserID: "u1", InviteCode: "ABCD2345",
		StartDate: start, EndDate: end,
		Type: league.TypeCustomStakes, PrizeDistribution: league.PrizeWinnerTakesAll,
		EntryPrice: decimal.NewFromInt(10),
	}})
	for _, userID := range []string{"u1", "u2"} {
		if err := leagueRepo.AddMember(t.Context(), league.Membership{LeagueID: "l1", UserID: userID, Role: league.RoleMember, JoinedAt: start}); err != nil {
			t.Fatalf("add member %s: %v", userID, err)
		}
	}

	matchRepo := memory.NewMatchRepository([]match.Match{finishedMatch("m1", 2, 1, kickoff)})
	predictionRepo := memory.NewPredictionRepository([]prediction.Prediction{
		{ID: "p1", UserID: "u1", MatchID: "m1", PredictedHome: 2, PredictedAway: 1, Points: intPtr(3), SettledAt: &settledAt, CreatedAt: kickoff.Add(-time.Hour)},
		{ID: "p2", UserID: "u2", MatchID: "m1", PredictedHome: 0, PredictedAway: 2, Points: intPtr(0), SettledAt: &settledAt, CreatedAt: kickoff.Add(-time.Hour)},
	}, matchRepo)

	svc := NewLeaderboardService(leagueRepo, matchRepo, predictionRepo, nil)
	svc.now = func() time.Time { return end.Add(time.Hour) }

	entries, err := svc.Build(t.Context(), "l1")
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}

	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("expected ranks 1 and 2, got %d and %d", entries[0].Rank, entries[1].Rank)
	}
	for _, entry := range entries {
		if !entry.Prize.IsZero() {
			t.Fatalf("custom stakes league must pay no prizes, got %s for %s", entry.Prize, entry.UserID)
		}
	}
}
