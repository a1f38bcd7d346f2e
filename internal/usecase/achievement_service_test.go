package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/scorecast/scorecast/internal/domain/achievement"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/infrastructure/repository/memory"
	idgen "github.com/scorecast/scorecast/internal/platform/id"
)

// settledSequence builds one settled prediction per points value, each
// on its own finished match, kickoffs an hour apart in slot order.
func settledSequence(userID string, base time.Time, points ...int) ([]prediction.Prediction, []match.Match) {
	predictions := make([]prediction.Prediction, 0, len(points))
	matches := make([]match.Match, 0, len(points))
	for i, p := range points {
		kickoff := base.Add(time.Duration(i) * time.Hour)
		created := kickoff.Add(-30 * time.Minute)
		settled := kickoff.Add(2 * time.Hour)
		matches = append(matches, finishedMatch(fmt.Sprintf("m%d", i), 1, 0, kickoff))
		predictions = append(predictions, prediction.Prediction{
			ID:            fmt.Sprintf("%s-p%d", userID, i),
			UserID:        userID,
			MatchID:       fmt.Sprintf("m%d", i),
			PredictedHome: 1,
			PredictedAway: 0,
			Points:        intPtr(p),
			SettledAt:     &settled,
			CreatedAt:     created,
			UpdatedAt:     settled,
		})
	}
	return predictions, matches
}

func newAchievementFixture(seed []prediction.Prediction, matches []match.Match) (*AchievementService, *memory.AchievementRepository, *recordingNotifier) {
	achievementRepo := memory.NewAchievementRepository(achievement.DefaultCatalog())
	predictionRepo := memory.NewPredictionRepository(seed, memory.NewMatchRepository(matches))
	notifier := &recordingNotifier{}
	svc := NewAchievementService(achievementRepo, predictionRepo, notifier, idgen.NewRandomGenerator(), nil)
	return svc, achievementRepo, notifier
}

func mustHaveGrant(t *testing.T, repo *memory.AchievementRepository, userID, code string, want bool) {
	t.Helper()
	granted, err := repo.HasGrant(t.Context(), userID, code)
	if err != nil {
		t.Fatalf("check grant %s: %v", code, err)
	}
	if granted != want {
		t.Fatalf("grant %s for %s: got %v, want %v", code, userID, granted, want)
	}
}

func TestAchievementService_Award_IdempotentAndUnknownCodes(t *testing.T) {
	svc, repo, notifier := newAchievementFixture(nil, nil)

	granted, err := svc.Award(t.Context(), "u1", achievement.CodeExactScore)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if !granted {
		t.Fatalf("expected first award to grant")
	}

	granted, err = svc.Award(t.Context(), "u1", achievement.CodeExactScore)
	if err != nil {
		t.Fatalf("second award: %v", err)
	}
	if granted {
		t.Fatalf("expected repeat award to be a no-op")
	}

	granted, err = svc.Award(t.Context(), "u1", "NOT_A_REAL_CODE")
	if err != nil {
		t.Fatalf("unknown code must not error: %v", err)
	}
	if granted {
		t.Fatalf("unknown code must not grant")
	}

	mustHaveGrant(t, repo, "u1", achievement.CodeExactScore, true)
	if len(notifier.achievements) != 1 {
		t.Fatalf("expected exactly one achievement notification, got %d", len(notifier.achievements))
	}
}

func TestAchievementService_OnPredictionCreated_Milestones(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seed, matches := settledSequence("u1", base, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	svc, repo, _ := newAchievementFixture(seed, matches)

	if err := svc.OnPredictionCreated(t.Context(), "u1"); err != nil {
		t.Fatalf("on prediction created: %v", err)
	}

	mustHaveGrant(t, repo, "u1", achievement.CodeFirstPrediction, true)
	mustHaveGrant(t, repo, "u1", achievement.CodeMilestone10, true)
	mustHaveGrant(t, repo, "u1", achievement.CodeMilestone25, false)
}

func TestAchievementService_ExactStreakLadder(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	// Two exact runs of length 2 and 3 with misses between: the pair
	// and the triple are earned, the five-streak never is.
	seed, matches := settledSequence("u1", base, 3, 3, 0, 3, 3, 3, 0)
	svc, repo, _ := newAchievementFixture(seed, matches)

	for _, p := range seed {
		if err := svc.OnPredictionSettled(t.Context(), p); err != nil {
			t.Fatalf("on prediction settled %s: %v", p.ID, err)
		}
	}

	mustHaveGrant(t, repo, "u1", achievement.CodeExactScore, true)
	mustHaveGrant(t, repo, "u1", achievement.CodeExactStreak2, true)
	mustHaveGrant(t, repo, "u1", achievement.CodeExactStreak3, true)
	mustHaveGrant(t, repo, "u1", achievement.CodeExactStreak5, false)
	mustHaveGrant(t, repo, "u1", achievement.CodeStreak5, false)
}

func TestAchievementService_ExactStreak_LateResultSeesEarlierRun(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	// The first two matches by kickoff were exact hits, the third a
	// miss. Only the miss triggers evaluation, standing in for results
	// that settled out of kickoff order.
	seed, matches := settledSequence("u1", base, 3, 3, 0)
	svc, repo, _ := newAchievementFixture(seed, matches)

	if err := svc.OnPredictionSettled(t.Context(), seed[2]); err != nil {
		t.Fatalf("on prediction settled: %v", err)
	}

	mustHaveGrant(t, repo, "u1", achievement.CodeExactStreak2, true)
	mustHaveGrant(t, repo, "u1", achievement.CodeExactStreak3, false)
}

func TestAchievementService_Streaks_FollowKickoffOrder(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seed, matches := settledSequence("u1", base, 3, 0, 3)
	// Submission order says the exacts were consecutive; kickoff order
	// says a miss sat between them. Kickoff order wins.
	seed[0].CreatedAt = base.Add(1 * time.Minute)
	seed[2].CreatedAt = base.Add(2 * time.Minute)
	seed[1].CreatedAt = base.Add(3 * time.Minute)
	svc, repo, _ := newAchievementFixture(seed, matches)

	for _, p := range seed {
		if err := svc.OnPredictionSettled(t.Context(), p); err != nil {
			t.Fatalf("on prediction settled %s: %v", p.ID, err)
		}
	}

	mustHaveGrant(t, repo, "u1", achievement.CodeExactStreak2, false)
}

func TestAchievementService_StreakLadderSkippedOnceTopHeld(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seed, matches := settledSequence("u1", base, 1, 1, 1, 1, 1)
	svc, repo, _ := newAchievementFixture(seed, matches)

	if err := repo.CreateGrant(t.Context(), achievement.Grant{
		ID: "g-top", UserID: "u1", Code: achievement.CodeStreak20, AwardedAt: base,
	}); err != nil {
		t.Fatalf("seed top grant: %v", err)
	}

	if err := svc.OnPredictionSettled(t.Context(), seed[len(seed)-1]); err != nil {
		t.Fatalf("on prediction settled: %v", err)
	}

	mustHaveGrant(t, repo, "u1", achievement.CodeStreak5, false)
}

func TestAchievementService_PerfectWeek(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seed, matches := settledSequence("u1", base, 1, 1, 3, 1, 1, 1, 1)
	svc, repo, _ := newAchievementFixture(seed, matches)

	if err := svc.OnPredictionSettled(t.Context(), seed[len(seed)-1]); err != nil {
		t.Fatalf("on prediction settled: %v", err)
	}
	mustHaveGrant(t, repo, "u1", achievement.CodePerfectWeek, true)
}

func TestAchievementService_PerfectWeek_KickoffSpanTooWide(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seed, matches := settledSequence("u1", base, 1, 1, 1, 1, 1, 1, 1)
	// The predictions were all placed within hours of each other, but
	// the matches kicked off across a month. The window is judged on
	// kickoffs, so the run does not qualify.
	for i := range matches {
		matches[i].KickoffAt = base.Add(time.Duration(i) * 5 * 24 * time.Hour)
	}
	svc, repo, _ := newAchievementFixture(seed, matches)

	if err := svc.OnPredictionSettled(t.Context(), seed[len(seed)-1]); err != nil {
		t.Fatalf("on prediction settled: %v", err)
	}
	mustHaveGrant(t, repo, "u1", achievement.CodePerfectWeek, false)
}

func TestAchievementService_ComebackAfterThreeMisses(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seed, matches := settledSequence("u1", base, 0, 0, 0, 3)
	svc, repo, _ := newAchievementFixture(seed, matches)

	if err := svc.OnPredictionSettled(t.Context(), seed[len(seed)-1]); err != nil {
		t.Fatalf("on prediction settled: %v", err)
	}
	mustHaveGrant(t, repo, "u1", achievement.CodeComebackKing, true)
}

func TestAchievementService_AwardLeaderboardPlacement(t *testing.T) {
	svc, repo, _ := newAchievementFixture(nil, nil)

	awarded, err := svc.AwardLeaderboardPlacement(t.Context(), "u1", 1)
	if err != nil {
		t.Fatalf("award placement: %v", err)
	}
	if awarded != 4 {
		t.Fatalf("rank 1 earns every placement tier, got %d", awarded)
	}
	mustHaveGrant(t, repo, "u1", achievement.CodeLeaderboard1, true)
	mustHaveGrant(t, repo, "u1", achievement.CodeLeaderboardT50, true)

	awarded, err = svc.AwardLeaderboardPlacement(t.Context(), "u2", 7)
	if err != nil {
		t.Fatalf("award placement: %v", err)
	}
	if awarded != 2 {
		t.Fatalf("rank 7 earns top-10 and top-50, got %d", awarded)
	}
	mustHaveGrant(t, repo, "u2", achievement.CodeLeaderboardTop3, false)

	awarded, err = svc.AwardLeaderboardPlacement(t.Context(), "u1", 1)
	if err != nil {
		t.Fatalf("repeat placement: %v", err)
	}
	if awarded != 0 {
		t.Fatalf("repeat placement must grant nothing, got %d", awarded)
	}
}
