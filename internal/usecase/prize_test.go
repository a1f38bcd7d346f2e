package usecase

import (
	"testing"

	"github.com/scorecast/scorecast/internal/domain/league"
	"github.com/shopspring/decimal"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func TestAllocatePrizes_WinnerTakesAll_TieSplitsPot(t *testing.T) {
	l := league.League{
		Type:              league.TypeFlatStakes,
		PrizeDistribution: league.PrizeWinnerTakesAll,
		EntryPrice:        decimal.NewFromInt(10),
	}
	entries := []league.Entry{
		{UserID: "u1", Points: 9, Rank: 1},
		{UserID: "u2", Points: 9, Rank: 1},
		{UserID: "u3", Points: 4, Rank: 3},
	}

	entries = AllocatePrizes(l, entries)

	if got := entries[0].Prize.StringFixed(2); got != "15.00" {
		t.Fatalf("expected first tied winner to get 15.00, got %s", got)
	}
	if got := entries[1].Prize.StringFixed(2); got != "15.00" {
		t.Fatalf("expected second tied winner to get 15.00, got %s", got)
	}
	if !entries[2].Prize.IsZero() {
		t.Fatalf("expected rank 3 prize 0, got %s", entries[2].Prize)
	}
}

func TestAllocatePrizes_Ranked_TiePoolsCoveredRanks(t *testing.T) {
	l := league.League{
		Type:              league.TypeFlatStakes,
		PrizeDistribution: league.PrizeRanked,
		EntryPrice:        decimal.NewFromInt(25),
		RankedPercentages: map[int]decimal.Decimal{
			1: dec(t, "0.5"),
			2: dec(t, "0.3"),
			3: dec(t, "0.2"),
		},
	}
	// Pot is 100. The tie at rank 2 covers ranks 2 and 3, so the pair
	// pools 30 + 20 and splits it.
	entries := []league.Entry{
		{UserID: "u1", Points: 12, Rank: 1},
		{UserID: "u2", Points: 8, Rank: 2},
		{UserID: "u3", Points: 8, Rank: 2},
		{UserID: "u4", Points: 1, Rank: 4},
	}

	entries = AllocatePrizes(l, entries)

	if got := entries[0].Prize.StringFixed(2); got != "50.00" {
		t.Fatalf("expected rank 1 prize 50.00, got %s", got)
	}
	if got := entries[1].Prize.StringFixed(2); got != "25.00" {
		t.Fatalf("expected tied rank 2 prize 25.00, got %s", got)
	}
	if got := entries[2].Prize.StringFixed(2); got != "25.00" {
		t.Fatalf("expected tied rank 2 prize 25.00, got %s", got)
	}
	if !entries[3].Prize.IsZero() {
		t.Fatalf("expected rank 4 prize 0, got %s", entries[3].Prize)
	}
}

func TestAllocatePrizes_RoundsSharesToCents(t *testing.T) {
	l := league.League{
		Type:              league.TypeFlatStakes,
		PrizeDistribution: league.PrizeWinnerTakesAll,
		EntryPrice:        dec(t, "12.50"),
	}
	entries := []league.Entry{
		{UserID: "u1", Points: 5, Rank: 1},
		{UserID: "u2", Points: 5, Rank: 1},
		{UserID: "u3", Points: 5, Rank: 1},
		{UserID: "u4", Points: 2, Rank: 4},
	}

	entries = AllocatePrizes(l, entries)

	// Pot 50 split three ways is 16.666..., rounded half up to cents.
	for i := 0; i < 3; i++ {
		if got := entries[i].Prize.StringFixed(2); got != "16.67" {
			t.Fatalf("entry %d: expected 16.67, got %s", i, got)
		}
	}
}

func TestAllocatePrizes_CustomStakesAndFreeLeaguesPayNothing(t *testing.T) {
	entries := []league.Entry{
		{UserID: "u1", Points: 9, Rank: 1},
		{UserID: "u2", Points: 4, Rank: 2},
	}

	custom := league.League{
		Type:              league.TypeCustomStakes,
		PrizeDistribution: league.PrizeWinnerTakesAll,
		EntryPrice:        decimal.NewFromInt(10),
	}
	for _, e := range AllocatePrizes(custom, entries) {
		if !e.Prize.IsZero() {
			t.Fatalf("custom stakes league must pay nothing, got %s for %s", e.Prize, e.UserID)
		}
	}

	free := league.League{
		Type:              league.TypeFlatStakes,
		PrizeDistribution: league.PrizeWinnerTakesAll,
	}
	for _, e := range AllocatePrizes(free, entries) {
		if !e.Prize.IsZero() {
			t.Fatalf("league without an entry price must pay nothing, got %s for %s", e.Prize, e.UserID)
		}
	}
}

func TestAllocatePrizes_EmptyAndUnknownDistribution(t *testing.T) {
	if got := AllocatePrizes(league.League{}, nil); len(got) != 0 {
		t.Fatalf("expected empty entries to pass through, got %v", got)
	}

	l := league.League{Type: league.TypeFlatStakes, PrizeDistribution: "LOTTERY", EntryPrice: decimal.NewFromInt(10)}
	entries := AllocatePrizes(l, []league.Entry{{UserID: "u1", Points: 3, Rank: 1}})
	if !entries[0].Prize.IsZero() {
		t.Fatalf("unknown distribution must pay nothing, got %s", entries[0].Prize)
	}
}
