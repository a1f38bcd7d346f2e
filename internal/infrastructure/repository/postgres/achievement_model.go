package postgres

import (
	"time"

	"github.com/scorecast/scorecast/internal/domain/achievement"
)

type achievementTableModel struct {
	ID          int64  `db:"id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Category    string `db:"category"`
	Rarity      string `db:"rarity"`
	Active      bool   `db:"active"`
}

type grantTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	Code      string    `db:"achievement_code"`
	AwardedAt time.Time `db:"awarded_at"`
}

type grantInsertModel struct {
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	Code      string    `db:"achievement_code"`
	AwardedAt time.Time `db:"awarded_at"`
}

func (row achievementTableModel) toDomain() achievement.Achievement {
	return achievement.Achievement{
		Code:        row.Code,
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
		Rarity:      row.Rarity,
		Active:      row.Active,
	}
}

func (row grantTableModel) toDomain() achievement.Grant {
	return achievement.Grant{
		ID:        row.PublicID,
		UserID:    row.UserID,
		Code:      row.Code,
		AwardedAt: row.AwardedAt,
	}
}
