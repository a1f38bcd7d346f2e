package postgres

import (
	"database/sql"
	"time"

	"github.com/scorecast/scorecast/internal/domain/match"
)

type matchTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	HomeTeam  string        `db:"home_team"`
	AwayTeam  string        `db:"away_team"`
	KickoffAt time.Time     `db:"kickoff_at"`
	Status    string        `db:"status"`
	HomeScore sql.NullInt64 `db:"home_score"`
	AwayScore sql.NullInt64 `db:"away_score"`
	Stage     string        `db:"stage"`
	Venue     string        `db:"venue"`
	SettledAt *time.Time    `db:"settled_at"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID  string     `db:"public_id"`
	HomeTeam  string     `db:"home_team"`
	AwayTeam  string     `db:"away_team"`
	KickoffAt time.Time  `db:"kickoff_at"`
	Status    string     `db:"status"`
	HomeScore *int       `db:"home_score"`
	AwayScore *int       `db:"away_score"`
	Stage     string     `db:"stage"`
	Venue     string     `db:"venue"`
	SettledAt *time.Time `db:"settled_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (row matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:        row.PublicID,
		HomeTeam:  row.HomeTeam,
		AwayTeam:  row.AwayTeam,
		KickoffAt: row.KickoffAt,
		Status:    row.Status,
		HomeScore: nullInt64ToIntPtr(row.HomeScore),
		AwayScore: nullInt64ToIntPtr(row.AwayScore),
		Stage:     row.Stage,
		Venue:     row.Venue,
		SettledAt: row.SettledAt,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}
