package league

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeFlatStakes   = "FLAT_STAKES"
	TypeCustomStakes = "CUSTOM_STAKES"
)

const (
	PrizeWinnerTakesAll = "WINNER_TAKES_ALL"
	PrizeRanked         = "RANKED"
)

const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// League is a private prediction pool with an entry stake and a prize
// scheme settled against the members' leaderboard.
type League struct {
	ID                    string
	Name                  string
	Description           string
	OwnerUserID           string
	InviteCode            string
	Hidden                bool
	StartDate             time.Time
	EndDate               time.Time
	Type                  string
	PrizeDistribution     string
	EntryPrice            decimal.Decimal
	RankedPercentages     map[int]decimal.Decimal
	AchievementsProcessed bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Membership ties a user to a league. The creator holds the OWNER role,
// everyone joining by invite code holds MEMBER.
type Membership struct {
	LeagueID string
	UserID   string
	Role     string
	JoinedAt time.Time
}

// IsOwner reports whether this membership belongs to the league creator.
func (m Membership) IsOwner() bool {
	return m.Role == RoleOwner
}

// Entry is one row of a league leaderboard, already ranked and, once the
// league has ended, carrying the member's prize share.
type Entry struct {
	UserID          string
	Points          int
	ExactCount      int
	CorrectCount    int
	PredictionCount int
	Rank            int
	Prize           decimal.Decimal
}

// Ended reports whether the league's scoring window is over.
func (l League) Ended(now time.Time) bool {
	return now.After(l.EndDate)
}

// Locked reports whether joining is closed. Members can join up to and
// including the start date.
func (l League) Locked(now time.Time) bool {
	return now.After(l.StartDate)
}

// TotalPot is the stake pool the prize scheme distributes.
func (l League) TotalPot(memberCount int) decimal.Decimal {
	return l.EntryPrice.Mul(decimal.NewFromInt(int64(memberCount)))
}

// ValidateConfig checks the betting configuration at creation time.
// Ranked percentages must cover rank 1 upward and sum to exactly 1.
func (l League) ValidateConfig() error {
	switch l.Type {
	case TypeFlatStakes:
		// The stake funds the pot, so a free flat-stakes league is a
		// configuration mistake.
		if !l.EntryPrice.IsPositive() {
			return fmt.Errorf("flat stakes entry price must be positive")
		}
	case TypeCustomStakes:
		if l.EntryPrice.IsNegative() {
			return fmt.Errorf("entry price must not be negative")
		}
	default:
		return fmt.Errorf("unknown league type %q", l.Type)
	}
	if !l.EndDate.After(l.StartDate) {
		return fmt.Errorf("end date must be after start date")
	}

	switch l.PrizeDistribution {
	case PrizeWinnerTakesAll:
		return nil
	case PrizeRanked:
	default:
		return fmt.Errorf("unknown prize distribution %q", l.PrizeDistribution)
	}

	if len(l.RankedPercentages) == 0 {
		return fmt.Errorf("ranked distribution requires at least one percentage")
	}
	sum := decimal.Zero
	for rank, pct := range l.RankedPercentages {
		if rank < 1 {
			return fmt.Errorf("ranked percentage for invalid rank %d", rank)
		}
		if !pct.IsPositive() {
			return fmt.Errorf("ranked percentage for rank %d must be positive", rank)
		}
		sum = sum.Add(pct)
	}
	if !sum.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("ranked percentages sum to %s, want exactly 1", sum)
	}
	return nil
}
