package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/scorecast/scorecast/internal/domain/league"
	qb "github.com/scorecast/scorecast/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	percentages, err := encodeRankedPercentages(l.RankedPercentages)
	if err != nil {
		return fmt.Errorf("encode ranked percentages: %w", err)
	}
	insertModel := leagueInsertModel{
		PublicID:              l.ID,
		Name:                  l.Name,
		Description:           l.Description,
		OwnerUserID:           l.OwnerUserID,
		InviteCode:            l.InviteCode,
		Hidden:                l.Hidden,
		StartDate:             l.StartDate,
		EndDate:               l.EndDate,
		LeagueType:            l.Type,
		PrizeDistribution:     l.PrizeDistribution,
		EntryPrice:            l.EntryPrice,
		RankedPercentages:     percentages,
		AchievementsProcessed: l.AchievementsProcessed,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
	query, args, err := qb.InsertModel("leagues", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create league: duplicate key value violates unique constraint: %w", err)
		}
		return fmt.Errorf("create league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) Update(ctx context.Context, l league.League) error {
	percentages, err := encodeRankedPercentages(l.RankedPercentages)
	if err != nil {
		return fmt.Errorf("encode ranked percentages: %w", err)
	}
	query, args, err := qb.Update("leagues").
		Set("name", l.Name).
		Set("description", l.Description).
		Set("hidden", l.Hidden).
		Set("league_type", l.Type).
		Set("prize_distribution", l.PrizeDistribution).
		Set("entry_price", l.EntryPrice).
		Set("ranked_percentages", percentages).
		Set("achievements_processed", l.AchievementsProcessed).
		Set("updated_at", l.UpdatedAt).
		Where(qb.Eq("public_id", l.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update league: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update league: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update league: not found")
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", leagueID))
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, inviteCode string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("invite_code", inviteCode))
}

func (r *LeagueRepository) getOne(ctx context.Context, condition qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(condition).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}
	out, err := row.toDomain()
	if err != nil {
		return league.League{}, false, err
	}
	return out, true, nil
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	query, args, err := qb.Select("l.*").From("leagues l").
		Where(qb.Expr("l.public_id IN (SELECT league_public_id FROM league_members WHERE user_id = ?)", userID)).
		OrderBy("l.public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues by user query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}
	return leagueRowsToDomain(rows)
}

func (r *LeagueRepository) ListEndedUnprocessed(ctx context.Context, before time.Time) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("achievements_processed", false),
			qb.Expr("end_date < ?", before),
		).
		OrderBy("end_date", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ended leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ended leagues: %w", err)
	}
	return leagueRowsToDomain(rows)
}

func (r *LeagueRepository) AddMember(ctx context.Context, m league.Membership) error {
	role := m.Role
	if role == "" {
		role = league.RoleMember
	}
	insertModel := leagueMemberInsertModel{
		LeagueID: m.LeagueID,
		UserID:   m.UserID,
		Role:     role,
		JoinedAt: m.JoinedAt,
	}
	query, args, err := qb.InsertModel("league_members", insertModel, "")
	if err != nil {
		return fmt.Errorf("build add league member query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("add league member: duplicate key value violates unique constraint: %w", err)
		}
		return fmt.Errorf("add league member: %w", err)
	}
	return nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build league membership query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check league membership: %w", err)
	}
	return count > 0, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Membership, error) {
	// Owner first, then join order.
	query, args, err := qb.Select("*").From("league_members").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("(role = 'OWNER') DESC", "joined_at", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league members query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	out := make([]league.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.Membership{
			LeagueID: row.LeagueID,
			UserID:   row.UserID,
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
		})
	}
	return out, nil
}

func leagueRowsToDomain(rows []leagueTableModel) ([]league.League, error) {
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		l, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
