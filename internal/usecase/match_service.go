package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scorecast/scorecast/internal/domain/match"
	idgen "github.com/scorecast/scorecast/internal/platform/id"
	"github.com/scorecast/scorecast/internal/platform/logging"
)

type CreateMatchInput struct {
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Stage     string
	Venue     string
}

type matchSettler interface {
	SettleMatch(ctx context.Context, matchID string) (SettlementSummary, error)
}

// MatchService manages the fixture list and the result-entry path that
// kicks off settlement.
type MatchService struct {
	matchRepo match.Repository
	settler   matchSettler
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	settler matchSettler,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo: matchRepo,
		settler:   settler,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Create")
	defer span.End()

	input.HomeTeam = strings.TrimSpace(input.HomeTeam)
	input.AwayTeam = strings.TrimSpace(input.AwayTeam)
	if input.HomeTeam == "" || input.AwayTeam == "" {
		return match.Match{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}
	if input.HomeTeam == input.AwayTeam {
		return match.Match{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	if input.KickoffAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: kickoff time is required", ErrInvalidInput)
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	now := s.now().UTC()
	m := match.Match{
		ID:        matchID,
		HomeTeam:  input.HomeTeam,
		AwayTeam:  input.AwayTeam,
		KickoffAt: input.KickoffAt.UTC(),
		Status:    match.StatusScheduled,
		Stage:     strings.TrimSpace(input.Stage),
		Venue:     strings.TrimSpace(input.Venue),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return m, nil
}

// List returns matches, optionally filtered by status.
func (s *MatchService) List(ctx context.Context, status string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.List")
	defer span.End()

	status = strings.TrimSpace(status)
	if status != "" {
		status = match.NormalizeStatus(status)
		if !match.IsValidStatus(status) {
			return nil, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, status)
		}
	}
	matches, err := s.matchRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

// RecordResult writes the final score, moves the match to FINISHED and
// settles every prediction on it in the same call. Re-recording a
// corrected score re-settles; the settlement pass only touches
// predictions whose points actually change.
func (s *MatchService) RecordResult(ctx context.Context, matchID string, homeScore, awayScore int) (SettlementSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.RecordResult")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return SettlementSummary{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if homeScore < 0 || awayScore < 0 {
		return SettlementSummary{}, fmt.Errorf("%w: scores must not be negative", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return SettlementSummary{}, fmt.Errorf("get match for result: %w", err)
	}
	if !exists {
		return SettlementSummary{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if match.NormalizeStatus(m.Status) == match.StatusCancelled {
		return SettlementSummary{}, fmt.Errorf("%w: match %s is cancelled", ErrInvalidState, matchID)
	}

	m.HomeScore = &homeScore
	m.AwayScore = &awayScore
	m.Status = match.StatusFinished
	m.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return SettlementSummary{}, fmt.Errorf("write match result: %w", err)
	}

	summary, err := s.settler.SettleMatch(ctx, m.ID)
	if err != nil {
		return SettlementSummary{}, fmt.Errorf("settle after result: %w", err)
	}
	return summary, nil
}

// UpdateLiveScore records a running score on a live match without
// finishing it. Live leaderboards pick the score up provisionally.
func (s *MatchService) UpdateLiveScore(ctx context.Context, matchID string, homeScore, awayScore int) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.UpdateLiveScore")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if homeScore < 0 || awayScore < 0 {
		return match.Match{}, fmt.Errorf("%w: scores must not be negative", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match for live score: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if match.NormalizeStatus(m.Status) != match.StatusLive {
		return match.Match{}, fmt.Errorf("%w: match %s is not live", ErrInvalidState, matchID)
	}

	m.HomeScore = &homeScore
	m.AwayScore = &awayScore
	m.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("write live score: %w", err)
	}
	return m, nil
}

// Cancel voids a match that will not be played. Cancelled matches never
// settle and never count toward leaderboards.
func (s *MatchService) Cancel(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Cancel")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match for cancel: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if m.IsFinished() {
		return match.Match{}, fmt.Errorf("%w: finished match %s cannot be cancelled", ErrInvalidState, matchID)
	}

	m.Status = match.StatusCancelled
	m.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("cancel match: %w", err)
	}
	return m, nil
}
