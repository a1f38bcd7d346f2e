package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/scorecast/scorecast/internal/domain/achievement"
	"github.com/scorecast/scorecast/internal/domain/league"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/notification"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/platform/logging"
	"github.com/scorecast/scorecast/internal/usecase"
)

type Handler struct {
	matchService        *usecase.MatchService
	predictionService   *usecase.PredictionService
	settlementService   *usecase.SettlementService
	leagueService       *usecase.LeagueService
	achievementService  *usecase.AchievementService
	notificationService *usecase.NotificationService
	sweepService        *usecase.SweepService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	predictionService *usecase.PredictionService,
	settlementService *usecase.SettlementService,
	leagueService *usecase.LeagueService,
	achievementService *usecase.AchievementService,
	notificationService *usecase.NotificationService,
	sweepService *usecase.SweepService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:        matchService,
		predictionService:   predictionService,
		settlementService:   settlementService,
		leagueService:       leagueService,
		achievementService:  achievementService,
		notificationService: notificationService,
		sweepService:        sweepService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type submitPredictionRequest struct {
	MatchID       string `json:"match_id" validate:"required"`
	PredictedHome int    `json:"predicted_home" validate:"gte=0,lte=99"`
	PredictedAway int    `json:"predicted_away" validate:"gte=0,lte=99"`
}

type createLeagueRequest struct {
	Name              string            `json:"name" validate:"required,max=120"`
	Description       string            `json:"description" validate:"max=500"`
	StartDate         string            `json:"start_date" validate:"required"`
	EndDate           string            `json:"end_date" validate:"required"`
	Type              string            `json:"type" validate:"omitempty,oneof=FLAT_STAKES CUSTOM_STAKES"`
	PrizeDistribution string            `json:"prize_distribution" validate:"omitempty,oneof=WINNER_TAKES_ALL RANKED"`
	EntryPrice        string            `json:"entry_price" validate:"omitempty,max=32"`
	RankedPercentages map[string]string `json:"ranked_percentages" validate:"omitempty,max=100"`
}

type joinLeagueByInviteRequest struct {
	InviteCode string `json:"invite_code" validate:"required,min=6,max=32"`
}

type setLeagueVisibilityRequest struct {
	Hidden *bool `json:"hidden" validate:"required"`
}

type createMatchRequest struct {
	HomeTeam  string `json:"home_team" validate:"required,max=120"`
	AwayTeam  string `json:"away_team" validate:"required,max=120"`
	KickoffAt string `json:"kickoff_at" validate:"required"`
	Stage     string `json:"stage" validate:"omitempty,max=80"`
	Venue     string `json:"venue" validate:"omitempty,max=120"`
}

type matchScoreRequest struct {
	HomeScore *int `json:"home_score" validate:"required,gte=0,lte=99"`
	AwayScore *int `json:"away_score" validate:"required,gte=0,lte=99"`
}

type matchDTO struct {
	ID        string  `json:"id"`
	HomeTeam  string  `json:"homeTeam"`
	AwayTeam  string  `json:"awayTeam"`
	KickoffAt string  `json:"kickoffAt"`
	Status    string  `json:"status"`
	HomeScore *int    `json:"homeScore,omitempty"`
	AwayScore *int    `json:"awayScore,omitempty"`
	Stage     string  `json:"stage,omitempty"`
	Venue     string  `json:"venue,omitempty"`
	SettledAt *string `json:"settledAt,omitempty"`
}

type predictionDTO struct {
	ID            string  `json:"id"`
	MatchID       string  `json:"matchId"`
	PredictedHome int     `json:"predictedHome"`
	PredictedAway int     `json:"predictedAway"`
	Points        *int    `json:"points,omitempty"`
	Settled       bool    `json:"settled"`
	SettledAt     *string `json:"settledAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type predictionStatsDTO struct {
	TotalPoints     int `json:"totalPoints"`
	TotalSettled    int `json:"totalSettled"`
	ExactCount      int `json:"exactCount"`
	OutcomeCount    int `json:"outcomeCount"`
	MissCount       int `json:"missCount"`
	CurrentStreak   int `json:"currentStreak"`
	BestExactStreak int `json:"bestExactStreak"`
}

type leagueDTO struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	OwnerUserID       string            `json:"ownerUserId"`
	InviteCode        string            `json:"inviteCode"`
	Hidden            bool              `json:"hidden"`
	StartDate         string            `json:"startDate"`
	EndDate           string            `json:"endDate"`
	Type              string            `json:"type"`
	PrizeDistribution string            `json:"prizeDistribution"`
	EntryPrice        string            `json:"entryPrice"`
	RankedPercentages map[string]string `json:"rankedPercentages,omitempty"`
	Ended             bool              `json:"ended"`
}

type leaderboardEntryDTO struct {
	UserID          string `json:"userId"`
	Rank            int    `json:"rank"`
	Points          int    `json:"points"`
	ExactCount      int    `json:"exactCount"`
	CorrectCount    int    `json:"correctCount"`
	PredictionCount int    `json:"predictionCount"`
	Prize           string `json:"prize"`
}

type achievementDTO struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
}

type achievementGrantDTO struct {
	Code      string `json:"code"`
	AwardedAt string `json:"awardedAt"`
}

type notificationDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

type settlementSummaryDTO struct {
	MatchID      string `json:"matchId"`
	Predictions  int    `json:"predictions"`
	Updated      int    `json:"updated"`
	Unchanged    int    `json:"unchanged"`
	Failed       int    `json:"failed"`
	Notified     int    `json:"notified"`
	Deduplicated bool   `json:"deduplicated"`
}

type statusSweepDTO struct {
	WentLive int `json:"wentLive"`
	Finished int `json:"finished"`
	Settled  int `json:"settled"`
	Failed   int `json:"failed"`
}

type leagueSweepDTO struct {
	Processed int `json:"processed"`
	Awards    int `json:"awards"`
	Failed    int `json:"failed"`
}

func matchToDTO(ctx context.Context, v match.Match) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		ID:        v.ID,
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		KickoffAt: formatTime(v.KickoffAt),
		Status:    v.Status,
		HomeScore: v.HomeScore,
		AwayScore: v.AwayScore,
		Stage:     v.Stage,
		Venue:     v.Venue,
		SettledAt: formatTimePtr(v.SettledAt),
	}
}

func predictionToDTO(ctx context.Context, v prediction.Prediction) predictionDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionToDTO")
	defer span.End()

	return predictionDTO{
		ID:            v.ID,
		MatchID:       v.MatchID,
		PredictedHome: v.PredictedHome,
		PredictedAway: v.PredictedAway,
		Points:        v.Points,
		Settled:       v.IsSettled(),
		SettledAt:     formatTimePtr(v.SettledAt),
		CreatedAt:     formatTime(v.CreatedAt),
		UpdatedAt:     formatTime(v.UpdatedAt),
	}
}

func predictionStatsToDTO(ctx context.Context, v prediction.Stats) predictionStatsDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionStatsToDTO")
	defer span.End()

	return predictionStatsDTO{
		TotalPoints:     v.TotalPoints,
		TotalSettled:    v.TotalSettled,
		ExactCount:      v.ExactCount,
		OutcomeCount:    v.OutcomeCount,
		MissCount:       v.MissCount,
		CurrentStreak:   v.CurrentStreak,
		BestExactStreak: v.BestExactStreak,
	}
}

func leagueToDTO(ctx context.Context, v league.League, now time.Time) leagueDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToDTO")
	defer span.End()

	var percentages map[string]string
	if len(v.RankedPercentages) > 0 {
		percentages = make(map[string]string, len(v.RankedPercentages))
		for rank, share := range v.RankedPercentages {
			percentages[fmt.Sprintf("%d", rank)] = share.String()
		}
	}

	return leagueDTO{
		ID:                v.ID,
		Name:              v.Name,
		Description:       v.Description,
		OwnerUserID:       v.OwnerUserID,
		InviteCode:        v.InviteCode,
		Hidden:            v.Hidden,
		StartDate:         formatTime(v.StartDate),
		EndDate:           formatTime(v.EndDate),
		Type:              v.Type,
		PrizeDistribution: v.PrizeDistribution,
		EntryPrice:        v.EntryPrice.String(),
		RankedPercentages: percentages,
		Ended:             v.Ended(now),
	}
}

func leaderboardEntryToDTO(ctx context.Context, v league.Entry) leaderboardEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.leaderboardEntryToDTO")
	defer span.End()

	return leaderboardEntryDTO{
		UserID:          v.UserID,
		Rank:            v.Rank,
		Points:          v.Points,
		ExactCount:      v.ExactCount,
		CorrectCount:    v.CorrectCount,
		PredictionCount: v.PredictionCount,
		Prize:           v.Prize.StringFixed(2),
	}
}

func achievementToDTO(ctx context.Context, v achievement.Achievement) achievementDTO {
	ctx, span := startSpan(ctx, "httpapi.achievementToDTO")
	defer span.End()

	return achievementDTO{
		Code:        v.Code,
		Name:        v.Name,
		Description: v.Description,
		Category:    v.Category,
		Rarity:      v.Rarity,
	}
}

func achievementGrantToDTO(ctx context.Context, v achievement.Grant) achievementGrantDTO {
	ctx, span := startSpan(ctx, "httpapi.achievementGrantToDTO")
	defer span.End()

	return achievementGrantDTO{
		Code:      v.Code,
		AwardedAt: formatTime(v.AwardedAt),
	}
}

func notificationToDTO(ctx context.Context, v notification.Notification) notificationDTO {
	ctx, span := startSpan(ctx, "httpapi.notificationToDTO")
	defer span.End()

	return notificationDTO{
		ID:        v.ID,
		Type:      v.Type,
		Title:     v.Title,
		Body:      v.Body,
		Read:      v.Read,
		CreatedAt: formatTime(v.CreatedAt),
	}
}

func settlementSummaryToDTO(ctx context.Context, v usecase.SettlementSummary) settlementSummaryDTO {
	ctx, span := startSpan(ctx, "httpapi.settlementSummaryToDTO")
	defer span.End()

	return settlementSummaryDTO{
		MatchID:      v.MatchID,
		Predictions:  v.Predictions,
		Updated:      v.Updated,
		Unchanged:    v.Unchanged,
		Failed:       v.Failed,
		Notified:     v.Notified,
		Deduplicated: v.Deduplicated,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := formatTime(*t)
	return &formatted
}

func parseTimestamp(field, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339: %v", usecase.ErrInvalidInput, field, err)
	}
	return parsed, nil
}
