package achievement

import "time"

const (
	CategoryMilestone   = "MILESTONE"
	CategoryAccuracy    = "ACCURACY"
	CategoryStreak      = "STREAK"
	CategorySpecial     = "SPECIAL"
	CategoryLeaderboard = "LEADERBOARD"
)

const (
	RarityCommon    = "COMMON"
	RarityRare      = "RARE"
	RarityEpic      = "EPIC"
	RarityLegendary = "LEGENDARY"
)

// Achievement codes. Award logic references these directly; the catalog
// row controls whether a code is active.
const (
	CodeFirstPrediction = "FIRST_PREDICTION"
	CodeMilestone10     = "MILESTONE_10"
	CodeMilestone25     = "MILESTONE_25"
	CodeMilestone50     = "MILESTONE_50"
	CodeMilestone100    = "MILESTONE_100"
	CodeMilestone250    = "MILESTONE_250"
	CodeExactScore      = "EXACT_SCORE"
	CodeExactStreak2    = "EXACT_STREAK_2"
	CodeExactStreak3    = "EXACT_STREAK_3"
	CodeExactStreak5    = "EXACT_STREAK_5"
	CodeStreak5         = "STREAK_5"
	CodeStreak10        = "STREAK_10"
	CodeStreak15        = "STREAK_15"
	CodeStreak20        = "STREAK_20"
	CodePerfectWeek     = "PERFECT_WEEK"
	CodeComebackKing    = "COMEBACK_KING"
	CodeLeaderboard1    = "LEADERBOARD_1"
	CodeLeaderboardTop3 = "LEADERBOARD_TOP_3"
	CodeLeaderboardT10  = "LEADERBOARD_TOP_10"
	CodeLeaderboardT50  = "LEADERBOARD_TOP_50"
)

// Achievement is one catalog entry users can earn.
type Achievement struct {
	Code        string
	Name        string
	Description string
	Category    string
	Rarity      string
	Active      bool
}

// Grant records that a user earned an achievement. A user earns each
// code at most once, enforced by a unique constraint in storage.
type Grant struct {
	ID        string
	UserID    string
	Code      string
	AwardedAt time.Time
}

// DefaultCatalog returns the built-in achievement set, all active. The
// migration seeds storage from the same set.
func DefaultCatalog() []Achievement {
	return []Achievement{
		{Code: CodeFirstPrediction, Name: "First Call", Description: "Submit your first prediction", Category: CategoryMilestone, Rarity: RarityCommon, Active: true},
		{Code: CodeMilestone10, Name: "Getting Started", Description: "Submit 10 predictions", Category: CategoryMilestone, Rarity: RarityCommon, Active: true},
		{Code: CodeMilestone25, Name: "Regular", Description: "Submit 25 predictions", Category: CategoryMilestone, Rarity: RarityCommon, Active: true},
		{Code: CodeMilestone50, Name: "Dedicated", Description: "Submit 50 predictions", Category: CategoryMilestone, Rarity: RarityRare, Active: true},
		{Code: CodeMilestone100, Name: "Century", Description: "Submit 100 predictions", Category: CategoryMilestone, Rarity: RarityEpic, Active: true},
		{Code: CodeMilestone250, Name: "Obsessed", Description: "Submit 250 predictions", Category: CategoryMilestone, Rarity: RarityLegendary, Active: true},
		{Code: CodeExactScore, Name: "Bullseye", Description: "Predict an exact score", Category: CategoryAccuracy, Rarity: RarityCommon, Active: true},
		{Code: CodeExactStreak2, Name: "Double Bullseye", Description: "Predict 2 exact scores in a row", Category: CategoryAccuracy, Rarity: RarityRare, Active: true},
		{Code: CodeExactStreak3, Name: "Sniper", Description: "Predict 3 exact scores in a row", Category: CategoryAccuracy, Rarity: RarityEpic, Active: true},
		{Code: CodeExactStreak5, Name: "Clairvoyant", Description: "Predict 5 exact scores in a row", Category: CategoryAccuracy, Rarity: RarityLegendary, Active: true},
		{Code: CodeStreak5, Name: "Warming Up", Description: "Score points on 5 predictions in a row", Category: CategoryStreak, Rarity: RarityCommon, Active: true},
		{Code: CodeStreak10, Name: "On Fire", Description: "Score points on 10 predictions in a row", Category: CategoryStreak, Rarity: RarityRare, Active: true},
		{Code: CodeStreak15, Name: "Unstoppable", Description: "Score points on 15 predictions in a row", Category: CategoryStreak, Rarity: RarityEpic, Active: true},
		{Code: CodeStreak20, Name: "Legendary Run", Description: "Score points on 20 predictions in a row", Category: CategoryStreak, Rarity: RarityLegendary, Active: true},
		{Code: CodePerfectWeek, Name: "Perfect Week", Description: "Score points on 7 predictions within 7 days", Category: CategorySpecial, Rarity: RarityEpic, Active: true},
		{Code: CodeComebackKing, Name: "Comeback King", Description: "Hit an exact score right after 3 misses", Category: CategorySpecial, Rarity: RarityRare, Active: true},
		{Code: CodeLeaderboard1, Name: "Champion", Description: "Finish a league in first place", Category: CategoryLeaderboard, Rarity: RarityLegendary, Active: true},
		{Code: CodeLeaderboardTop3, Name: "Podium", Description: "Finish a league in the top 3", Category: CategoryLeaderboard, Rarity: RarityEpic, Active: true},
		{Code: CodeLeaderboardT10, Name: "Contender", Description: "Finish a league in the top 10", Category: CategoryLeaderboard, Rarity: RarityRare, Active: true},
		{Code: CodeLeaderboardT50, Name: "In the Mix", Description: "Finish a league in the top 50", Category: CategoryLeaderboard, Rarity: RarityCommon, Active: true},
	}
}
