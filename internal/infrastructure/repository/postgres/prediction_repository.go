package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	qb "github.com/scorecast/scorecast/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(ctx context.Context, p prediction.Prediction) error {
	insertModel := predictionInsertModel{
		PublicID:      p.ID,
		UserID:        p.UserID,
		MatchID:       p.MatchID,
		PredictedHome: p.PredictedHome,
		PredictedAway: p.PredictedAway,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	query, args, err := qb.InsertModel("predictions", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create prediction: duplicate key value violates unique constraint: %w", err)
		}
		return fmt.Errorf("create prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) Update(ctx context.Context, p prediction.Prediction) error {
	query, args, err := qb.Update("predictions").
		Set("predicted_home", p.PredictedHome).
		Set("predicted_away", p.PredictedAway).
		Set("points", p.Points).
		Set("settled_at", p.SettledAt).
		Set("updated_at", p.UpdatedAt).
		Where(qb.Eq("public_id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update prediction query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update prediction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update prediction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update prediction: not found")
	}
	return nil
}

func (r *PredictionRepository) GetByID(ctx context.Context, predictionID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("public_id", predictionID)).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PredictionRepository) GetByUserAndMatch(ctx context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_public_id", matchID),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction by user and match query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction by user and match: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by match query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by match: %w", err)
	}
	return predictionRowsToDomain(rows), nil
}

func (r *PredictionRepository) ListByUserOrdered(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by user query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}
	return predictionRowsToDomain(rows), nil
}

func (r *PredictionRepository) ListFinishedByUserOrderedByKickoff(ctx context.Context, userID string) ([]prediction.WithMatch, error) {
	query, args, err := qb.Select("p.*", "m.kickoff_at AS match_kickoff_at").
		From("predictions p").
		Join("matches m ON m.public_id = p.match_public_id").
		Where(
			qb.Eq("p.user_id", userID),
			qb.Eq("m.status", match.StatusFinished),
			qb.Expr("m.home_score IS NOT NULL"),
			qb.Expr("m.away_score IS NOT NULL"),
		).
		OrderBy("m.kickoff_at", "p.public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list finished predictions query: %w", err)
	}

	var rows []predictionWithMatchModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list finished predictions by kickoff: %w", err)
	}
	out := make([]prediction.WithMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) ListByUsersAndMatches(ctx context.Context, userIDs, matchIDs []string) ([]prediction.Prediction, error) {
	if len(userIDs) == 0 || len(matchIDs) == 0 {
		return []prediction.Prediction{}, nil
	}

	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.In("user_id", toAnySlice(userIDs)),
			qb.In("match_public_id", toAnySlice(matchIDs)),
		).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by users and matches query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by users and matches: %w", err)
	}
	return predictionRowsToDomain(rows), nil
}

func predictionRowsToDomain(rows []predictionTableModel) []prediction.Prediction {
	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
