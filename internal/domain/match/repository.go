package match

import (
	"context"
	"time"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	List(ctx context.Context, status string) ([]Match, error)
	ListByWindow(ctx context.Context, from, to time.Time) ([]Match, error)
	ListByStatusBefore(ctx context.Context, status string, cutoff time.Time) ([]Match, error)
	ListUnsettledFinished(ctx context.Context) ([]Match, error)
}
