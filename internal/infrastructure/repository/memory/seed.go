package memory

import (
	"time"

	"github.com/scorecast/scorecast/internal/domain/match"
)

// SeedMatches returns a small fixture list so the API is usable out of
// the box when running against the in-memory store.
func SeedMatches(now time.Time) []match.Match {
	now = now.UTC()
	kickoff := func(offset time.Duration) time.Time {
		return now.Add(offset).Truncate(time.Minute)
	}
	return []match.Match{
		{
			ID:        "m-qf-001",
			HomeTeam:  "Brazil",
			AwayTeam:  "Netherlands",
			KickoffAt: kickoff(24 * time.Hour),
			Status:    match.StatusScheduled,
			Stage:     "Quarter-final",
			Venue:     "Estadio Nacional",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "m-qf-002",
			HomeTeam:  "France",
			AwayTeam:  "Argentina",
			KickoffAt: kickoff(27 * time.Hour),
			Status:    match.StatusScheduled,
			Stage:     "Quarter-final",
			Venue:     "Stade Olympique",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "m-qf-003",
			HomeTeam:  "Spain",
			AwayTeam:  "Germany",
			KickoffAt: kickoff(48 * time.Hour),
			Status:    match.StatusScheduled,
			Stage:     "Quarter-final",
			Venue:     "Gran Estadio",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "m-qf-004",
			HomeTeam:  "England",
			AwayTeam:  "Portugal",
			KickoffAt: kickoff(51 * time.Hour),
			Status:    match.StatusScheduled,
			Stage:     "Quarter-final",
			Venue:     "Wembley",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
