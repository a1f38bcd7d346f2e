package league

import (
	"context"
	"time"
)

// Repository describes league persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, l League) error
	Update(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (League, bool, error)
	ListByUser(ctx context.Context, userID string) ([]League, error)
	ListEndedUnprocessed(ctx context.Context, before time.Time) ([]League, error)
	AddMember(ctx context.Context, m Membership) error
	IsMember(ctx context.Context, leagueID, userID string) (bool, error)
	ListMembers(ctx context.Context, leagueID string) ([]Membership, error)
}
