package notify

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/scorecast/scorecast/internal/domain/achievement"
	"github.com/scorecast/scorecast/internal/domain/notification"
	idgen "github.com/scorecast/scorecast/internal/platform/id"
	"github.com/scorecast/scorecast/internal/platform/resilience"
)

// StoreNotifier delivers notifications by writing them to the
// notification store. A breaker keeps a failing store from dragging
// settlement throughput down; dropped notifications are acceptable,
// dropped settlements are not.
type StoreNotifier struct {
	repo    notification.Repository
	idGen   idgen.Generator
	breaker *resilience.CircuitBreaker
	now     func() time.Time
}

func NewStoreNotifier(repo notification.Repository, idGen idgen.Generator) *StoreNotifier {
	breakerCfg := resilience.DefaultCircuitBreakerConfig()
	return &StoreNotifier{
		repo:    repo,
		idGen:   idGen,
		breaker: resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		now:     time.Now,
	}
}

func (n *StoreNotifier) PointsAwarded(ctx context.Context, userID, matchID string, points int) error {
	return n.deliver(ctx, notification.Notification{
		UserID: userID,
		Type:   notification.TypePointsAwarded,
		Title:  "Points awarded",
		Body:   fmt.Sprintf("You scored %d point(s) on match %s", points, matchID),
	})
}

func (n *StoreNotifier) AchievementEarned(ctx context.Context, userID string, earned achievement.Achievement) error {
	return n.deliver(ctx, notification.Notification{
		UserID: userID,
		Type:   notification.TypeAchievementEarned,
		Title:  "Achievement unlocked: " + earned.Name,
		Body:   earned.Description,
	})
}

func (n *StoreNotifier) MemberJoined(ctx context.Context, recipientID, leagueID, joinedUserID string) error {
	return n.deliver(ctx, notification.Notification{
		UserID: recipientID,
		Type:   notification.TypeLeagueMemberJoin,
		Title:  "New league member",
		Body:   fmt.Sprintf("User %s joined league %s", joinedUserID, leagueID),
	})
}

func (n *StoreNotifier) deliver(ctx context.Context, msg notification.Notification) error {
	if err := n.breaker.Allow(); err != nil {
		return crerr.Wrap(err, "notification store unavailable")
	}

	id, err := n.idGen.NewID()
	if err != nil {
		n.breaker.RecordFailure()
		return crerr.Wrap(err, "generate notification id")
	}
	msg.ID = id
	msg.CreatedAt = n.now().UTC()

	if err := n.repo.Create(ctx, msg); err != nil {
		n.breaker.RecordFailure()
		return crerr.Wrap(err, "store notification")
	}
	n.breaker.RecordSuccess()
	return nil
}
