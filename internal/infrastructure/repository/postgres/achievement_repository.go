package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scorecast/scorecast/internal/domain/achievement"
	qb "github.com/scorecast/scorecast/internal/platform/querybuilder"
)

type AchievementRepository struct {
	db *sqlx.DB
}

func NewAchievementRepository(db *sqlx.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) GetByCode(ctx context.Context, code string) (achievement.Achievement, bool, error) {
	query, args, err := qb.Select("*").From("achievements").
		Where(qb.Eq("code", code)).
		ToSQL()
	if err != nil {
		return achievement.Achievement{}, false, fmt.Errorf("build get achievement query: %w", err)
	}

	var row achievementTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return achievement.Achievement{}, false, nil
		}
		return achievement.Achievement{}, false, fmt.Errorf("get achievement: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *AchievementRepository) ListCatalog(ctx context.Context) ([]achievement.Achievement, error) {
	query, args, err := qb.Select("*").From("achievements").
		OrderBy("code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list achievements query: %w", err)
	}

	var rows []achievementTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	out := make([]achievement.Achievement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *AchievementRepository) CreateGrant(ctx context.Context, g achievement.Grant) error {
	insertModel := grantInsertModel{
		PublicID:  g.ID,
		UserID:    g.UserID,
		Code:      g.Code,
		AwardedAt: g.AwardedAt,
	}
	query, args, err := qb.InsertModel("user_achievements", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create grant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create grant: duplicate key value violates unique constraint: %w", err)
		}
		return fmt.Errorf("create grant: %w", err)
	}
	return nil
}

func (r *AchievementRepository) HasGrant(ctx context.Context, userID, code string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("user_achievements").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("achievement_code", code),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build grant lookup query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return count > 0, nil
}

func (r *AchievementRepository) ListGrantsByUser(ctx context.Context, userID string) ([]achievement.Grant, error) {
	query, args, err := qb.Select("*").From("user_achievements").
		Where(qb.Eq("user_id", userID)).
		OrderBy("awarded_at", "achievement_code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list grants query: %w", err)
	}

	var rows []grantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}

	out := make([]achievement.Grant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
