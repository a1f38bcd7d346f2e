package prediction

import "time"

// Prediction is one user's score call on one match. A user holds at most
// one prediction per match, enforced by a unique constraint in storage.
type Prediction struct {
	ID            string
	UserID        string
	MatchID       string
	PredictedHome int
	PredictedAway int
	Points        *int
	SettledAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsSettled reports whether points have ever been written for this
// prediction. Zero points is a settled miss, not an unsettled prediction.
func (p Prediction) IsSettled() bool {
	return p.Points != nil
}

// PointsValue returns the settled points, zero when unsettled.
func (p Prediction) PointsValue() int {
	if p.Points == nil {
		return 0
	}
	return *p.Points
}

// WithMatch joins a prediction with the kickoff of the match it was made
// on. Kickoff order is the canonical chronology for streak evaluation;
// creation order is not, because results can arrive out of order.
type WithMatch struct {
	Prediction
	KickoffAt time.Time
}

// Stats aggregates one user's settled prediction history.
type Stats struct {
	UserID          string
	TotalPoints     int
	TotalSettled    int
	ExactCount      int
	OutcomeCount    int
	MissCount       int
	CurrentStreak   int
	BestExactStreak int
}
