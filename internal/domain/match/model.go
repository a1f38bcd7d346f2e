package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
)

// LiveDuration is how long a match stays LIVE after kickoff before the
// status sweep moves it to FINISHED.
const LiveDuration = 2 * time.Hour

// Match represents one scheduled fixture that users predict on.
type Match struct {
	ID        string
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Status    string
	HomeScore *int
	AwayScore *int
	Stage     string
	Venue     string
	SettledAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusScheduled, StatusLive, StatusFinished, StatusCancelled:
		return true
	default:
		return false
	}
}

// HasResult reports whether both final scores are recorded.
func (m Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

func (m Match) IsFinished() bool {
	return NormalizeStatus(m.Status) == StatusFinished
}

// ShouldGoLive reports whether a scheduled match has reached kickoff.
func (m Match) ShouldGoLive(now time.Time) bool {
	return NormalizeStatus(m.Status) == StatusScheduled && !now.Before(m.KickoffAt)
}

// ShouldFinish reports whether a live match has run past the live window.
func (m Match) ShouldFinish(now time.Time) bool {
	return NormalizeStatus(m.Status) == StatusLive && now.After(m.KickoffAt.Add(LiveDuration))
}
