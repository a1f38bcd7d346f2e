package usecase

import (
	"context"

	"github.com/scorecast/scorecast/internal/domain/achievement"
)

// Notifier pushes user-facing messages out of the settlement and league
// flows. Failures are logged by callers and never fail the calling
// operation.
type Notifier interface {
	PointsAwarded(ctx context.Context, userID, matchID string, points int) error
	AchievementEarned(ctx context.Context, userID string, earned achievement.Achievement) error
	MemberJoined(ctx context.Context, recipientID, leagueID, joinedUserID string) error
}

// NopNotifier satisfies Notifier without side effects. Used where no
// notification channel is configured and in tests.
type NopNotifier struct{}

func (NopNotifier) PointsAwarded(context.Context, string, string, int) error { return nil }

func (NopNotifier) AchievementEarned(context.Context, string, achievement.Achievement) error {
	return nil
}

func (NopNotifier) MemberJoined(context.Context, string, string, string) error { return nil }
