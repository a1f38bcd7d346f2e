package usecase

import (
	"github.com/scorecast/scorecast/internal/domain/league"
	"github.com/shopspring/decimal"
)

// prizeTier is one group of members tied on the same rank. A tier
// covers the rank positions its members occupy, so three members tied
// at rank 3 cover ranks 3, 4 and 5.
type prizeTier struct {
	startRank int
	entries   []int
}

// AllocatePrizes writes each member's prize share onto ranked entries.
// Only flat-stakes leagues with a positive entry price pay out; any
// other league keeps ranks only. Tied members pool the payouts of the
// rank positions they occupy and split the pool evenly, rounded to
// cents half up. Entries must already carry standard competition ranks.
func AllocatePrizes(l league.League, entries []league.Entry) []league.Entry {
	if len(entries) == 0 {
		return entries
	}
	if l.Type != league.TypeFlatStakes || !l.EntryPrice.IsPositive() {
		return entries
	}

	pot := l.TotalPot(len(entries))
	for _, tier := range groupByRank(entries) {
		tierPot := tierPayout(l, pot, tier.startRank, len(tier.entries))
		if tierPot.IsZero() {
			continue
		}
		share := tierPot.Div(decimal.NewFromInt(int64(len(tier.entries)))).Round(2)
		for _, idx := range tier.entries {
			entries[idx].Prize = share
		}
	}
	return entries
}

func groupByRank(entries []league.Entry) []prizeTier {
	var tiers []prizeTier
	for i, e := range entries {
		if len(tiers) > 0 && tiers[len(tiers)-1].startRank == e.Rank {
			last := &tiers[len(tiers)-1]
			last.entries = append(last.entries, i)
			continue
		}
		tiers = append(tiers, prizeTier{startRank: e.Rank, entries: []int{i}})
	}
	return tiers
}

// tierPayout is the slice of the pot owed to a tier covering ranks
// [startRank, startRank+size-1].
func tierPayout(l league.League, pot decimal.Decimal, startRank, size int) decimal.Decimal {
	switch l.PrizeDistribution {
	case league.PrizeWinnerTakesAll:
		if startRank == 1 {
			return pot
		}
		return decimal.Zero
	case league.PrizeRanked:
		pct := decimal.Zero
		for rank := startRank; rank < startRank+size; rank++ {
			if p, ok := l.RankedPercentages[rank]; ok {
				pct = pct.Add(p)
			}
		}
		return pot.Mul(pct)
	default:
		return decimal.Zero
	}
}
