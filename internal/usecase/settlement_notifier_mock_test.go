package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scorecast/scorecast/internal/domain/achievement"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/mock"
)

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) PointsAwarded(ctx context.Context, userID, matchID string, points int) error {
	args := m.Called(ctx, userID, matchID, points)
	return args.Error(0)
}

func (m *notifierMock) AchievementEarned(ctx context.Context, userID string, earned achievement.Achievement) error {
	args := m.Called(ctx, userID, earned)
	return args.Error(0)
}

func (m *notifierMock) MemberJoined(ctx context.Context, recipientID, leagueID, joinedUserID string) error {
	args := m.Called(ctx, recipientID, leagueID, joinedUserID)
	return args.Error(0)
}

func TestSettlementService_SettleMatch_NotifiesAwardedPoints(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository([]match.Match{finishedMatch("m1", 2, 1, kickoff)})
	predictionRepo := memory.NewPredictionRepository([]prediction.Prediction{
		{ID: "p1", UserID: "u1", MatchID: "m1", PredictedHome: 2, PredictedAway: 1, CreatedAt: kickoff.Add(-time.Hour)},
	}, matchRepo)

	notifier := &notifierMock{}
	notifier.
		On("PointsAwarded", mock.Anything, "u1", "m1", 3).
		Return(nil).
		Once()

	svc := NewSettlementService(matchRepo, predictionRepo, nil, notifier, nil)
	summary, err := svc.SettleMatch(t.Context(), "m1")
	if err != nil {
		t.Fatalf("settle match: %v", err)
	}
	if summary.Notified != 1 {
		t.Fatalf("expected 1 notification, got %d", summary.Notified)
	}

	notifier.AssertExpectations(t)
}

func TestSettlementService_SettleMatch_NotifierFailureDoesNotFailSettlement(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository([]match.Match{finishedMatch("m1", 0, 2, kickoff)})
	predictionRepo := memory.NewPredictionRepository([]prediction.Prediction{
		{ID: "p1", UserID: "u1", MatchID: "m1", PredictedHome: 0, PredictedAway: 2, CreatedAt: kickoff.Add(-time.Hour)},
	}, matchRepo)

	notifier := &notifierMock{}
	notifier.
		On("PointsAwarded", mock.Anything, "u1", "m1", 3).
		Return(errors.New("notification channel down")).
		Once()

	svc := NewSettlementService(matchRepo, predictionRepo, nil, notifier, nil)
	summary, err := svc.SettleMatch(t.Context(), "m1")
	if err != nil {
		t.Fatalf("settle match: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("expected the prediction settled, got %+v", summary)
	}
	if summary.Notified != 0 {
		t.Fatalf("expected no successful notification, got %d", summary.Notified)
	}

	p, exists, err := predictionRepo.GetByID(t.Context(), "p1")
	if err != nil || !exists {
		t.Fatalf("get prediction: exists=%t err=%v", exists, err)
	}
	if p.PointsValue() != 3 {
		t.Fatalf("expected 3 points despite notifier failure, got %d", p.PointsValue())
	}

	notifier.AssertExpectations(t)
}
