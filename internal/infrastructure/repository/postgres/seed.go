package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scorecast/scorecast/internal/domain/achievement"
	qb "github.com/scorecast/scorecast/internal/platform/querybuilder"
)

type achievementSeedModel struct {
	Code        string `db:"code"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Category    string `db:"category"`
	Rarity      string `db:"rarity"`
	Active      bool   `db:"active"`
}

// SeedAchievementCatalog upserts the built-in achievement definitions.
// Run at startup so new codes appear without a manual migration, while
// operator edits to name or active survive restarts.
func SeedAchievementCatalog(ctx context.Context, db *sqlx.DB) error {
	for _, def := range achievement.DefaultCatalog() {
		row := achievementSeedModel{
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Rarity:      def.Rarity,
			Active:      def.Active,
		}
		query, args, err := qb.InsertModel("achievements", row, "ON CONFLICT (code) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build seed achievement query: %w", err)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed achievement %s: %w", def.Code, err)
		}
	}
	return nil
}
