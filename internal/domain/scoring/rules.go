package scoring

// Points awarded per prediction outcome. Settlement and leaderboard
// aggregation both go through Score so the two can never disagree on a
// point value for the same inputs.
const (
	PointsExact   = 3
	PointsOutcome = 1
	PointsMiss    = 0
)

type Outcome int

const (
	OutcomeHomeWin Outcome = iota
	OutcomeAwayWin
	OutcomeDraw
)

// Score maps a predicted score pair and the actual score pair to points.
func Score(predictedHome, predictedAway, actualHome, actualAway int) int {
	if predictedHome == actualHome && predictedAway == actualAway {
		return PointsExact
	}
	if ResultOutcome(predictedHome, predictedAway) == ResultOutcome(actualHome, actualAway) {
		return PointsOutcome
	}
	return PointsMiss
}

func ResultOutcome(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHomeWin
	case away > home:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

func IsExact(points int) bool {
	return points == PointsExact
}

// IsCorrect reports whether a settled prediction earned any points at all,
// exact or outcome.
func IsCorrect(points int) bool {
	return points > PointsMiss
}
