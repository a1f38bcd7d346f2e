package prediction

import "context"

// Repository describes prediction persistence needs from use cases.
//
// ListByUserOrdered returns the user's predictions ordered by creation
// time ascending; the milestone counts depend on that order.
//
// ListFinishedByUserOrderedByKickoff returns the user's predictions on
// finished matches that have a final score, ordered by match kickoff
// ascending. Streak, perfect-week and comeback checks read history
// through this view only.
type Repository interface {
	Create(ctx context.Context, p Prediction) error
	Update(ctx context.Context, p Prediction) error
	GetByID(ctx context.Context, predictionID string) (Prediction, bool, error)
	GetByUserAndMatch(ctx context.Context, userID, matchID string) (Prediction, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListByUserOrdered(ctx context.Context, userID string) ([]Prediction, error)
	ListFinishedByUserOrderedByKickoff(ctx context.Context, userID string) ([]WithMatch, error)
	ListByUsersAndMatches(ctx context.Context, userIDs, matchIDs []string) ([]Prediction, error)
}
