package notification

import "time"

const (
	TypePointsAwarded     = "POINTS_AWARDED"
	TypeAchievementEarned = "ACHIEVEMENT_EARNED"
	TypeLeagueMemberJoin  = "LEAGUE_MEMBER_JOINED"
)

// Notification is one in-app message for a user.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}
