package achievement

import "context"

// Repository describes achievement catalog and grant persistence.
type Repository interface {
	GetByCode(ctx context.Context, code string) (Achievement, bool, error)
	ListCatalog(ctx context.Context) ([]Achievement, error)
	CreateGrant(ctx context.Context, g Grant) error
	HasGrant(ctx context.Context, userID, code string) (bool, error)
	ListGrantsByUser(ctx context.Context, userID string) ([]Grant, error)
}
