package postgres

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/scorecast/scorecast/internal/domain/league"
	"github.com/shopspring/decimal"
)

type leagueTableModel struct {
	ID                    int64           `db:"id"`
	PublicID              string          `db:"public_id"`
	Name                  string          `db:"name"`
	Description           string          `db:"description"`
	OwnerUserID           string          `db:"owner_user_id"`
	InviteCode            string          `db:"invite_code"`
	Hidden                bool            `db:"hidden"`
	StartDate             time.Time       `db:"start_date"`
	EndDate               time.Time       `db:"end_date"`
	LeagueType            string          `db:"league_type"`
	PrizeDistribution     string          `db:"prize_distribution"`
	EntryPrice            decimal.Decimal `db:"entry_price"`
	RankedPercentages     []byte          `db:"ranked_percentages"`
	AchievementsProcessed bool            `db:"achievements_processed"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

type leagueInsertModel struct {
	PublicID              string          `db:"public_id"`
	Name                  string          `db:"name"`
	Description           string          `db:"description"`
	OwnerUserID           string          `db:"owner_user_id"`
	InviteCode            string          `db:"invite_code"`
	Hidden                bool            `db:"hidden"`
	StartDate             time.Time       `db:"start_date"`
	EndDate               time.Time       `db:"end_date"`
	LeagueType            string          `db:"league_type"`
	PrizeDistribution     string          `db:"prize_distribution"`
	EntryPrice            decimal.Decimal `db:"entry_price"`
	RankedPercentages     []byte          `db:"ranked_percentages"`
	AchievementsProcessed bool            `db:"achievements_processed"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

type leagueMemberTableModel struct {
	ID       int64     `db:"id"`
	LeagueID string    `db:"league_public_id"`
	UserID   string    `db:"user_id"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

type leagueMemberInsertModel struct {
	LeagueID string    `db:"league_public_id"`
	UserID   string    `db:"user_id"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

func (row leagueTableModel) toDomain() (league.League, error) {
	percentages, err := decodeRankedPercentages(row.RankedPercentages)
	if err != nil {
		return league.League{}, fmt.Errorf("decode ranked percentages for league %s: %w", row.PublicID, err)
	}
	return league.League{
		ID:                    row.PublicID,
		Name:                  row.Name,
		Description:           row.Description,
		OwnerUserID:           row.OwnerUserID,
		InviteCode:            row.InviteCode,
		Hidden:                row.Hidden,
		StartDate:             row.StartDate,
		EndDate:               row.EndDate,
		Type:                  row.LeagueType,
		PrizeDistribution:     row.PrizeDistribution,
		EntryPrice:            row.EntryPrice,
		RankedPercentages:     percentages,
		AchievementsProcessed: row.AchievementsProcessed,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}, nil
}

// Ranked percentages live in a jsonb column keyed by rank. Decimal
// values are stored as strings to survive the round trip exactly.
func encodeRankedPercentages(percentages map[int]decimal.Decimal) ([]byte, error) {
	if len(percentages) == 0 {
		return []byte("{}"), nil
	}
	raw := make(map[string]string, len(percentages))
	for rank, pct := range percentages {
		raw[strconv.Itoa(rank)] = pct.String()
	}
	return sonic.Marshal(raw)
}

func decodeRankedPercentages(data []byte) (map[int]decimal.Decimal, error) {
	if len(data) == 0 {
		return nil, nil
	}
	raw := make(map[string]string)
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[int]decimal.Decimal, len(raw))
	for rankText, pctText := range raw {
		rank, err := strconv.Atoi(rankText)
		if err != nil {
			return nil, fmt.Errorf("invalid rank key %q: %w", rankText, err)
		}
		pct, err := decimal.NewFromString(pctText)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage %q for rank %d: %w", pctText, rank, err)
		}
		out[rank] = pct
	}
	return out, nil
}
