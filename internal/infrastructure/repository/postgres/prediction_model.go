package postgres

import (
	"database/sql"
	"time"

	"github.com/scorecast/scorecast/internal/domain/prediction"
)

type predictionTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	UserID        string        `db:"user_id"`
	MatchID       string        `db:"match_public_id"`
	PredictedHome int           `db:"predicted_home"`
	PredictedAway int           `db:"predicted_away"`
	Points        sql.NullInt64 `db:"points"`
	SettledAt     *time.Time    `db:"settled_at"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type predictionInsertModel struct {
	PublicID      string    `db:"public_id"`
	UserID        string    `db:"user_id"`
	MatchID       string    `db:"match_public_id"`
	PredictedHome int       `db:"predicted_home"`
	PredictedAway int       `db:"predicted_away"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type predictionWithMatchModel struct {
	predictionTableModel
	MatchKickoffAt time.Time `db:"match_kickoff_at"`
}

func (row predictionWithMatchModel) toDomain() prediction.WithMatch {
	return prediction.WithMatch{
		Prediction: row.predictionTableModel.toDomain(),
		KickoffAt:  row.MatchKickoffAt,
	}
}

func (row predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:            row.PublicID,
		UserID:        row.UserID,
		MatchID:       row.MatchID,
		PredictedHome: row.PredictedHome,
		PredictedAway: row.PredictedAway,
		Points:        nullInt64ToIntPtr(row.Points),
		SettledAt:     row.SettledAt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
