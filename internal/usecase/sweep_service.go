package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/scorecast/scorecast/internal/domain/league"
	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/platform/logging"
)

const defaultSweepWorkers = 4

// StatusSweepResult reports one pass of the match status sweep.
type StatusSweepResult struct {
	WentLive int
	Finished int
	Settled  int
	Failed   int
}

// LeagueSweepResult reports one pass of the league finish sweep.
type LeagueSweepResult struct {
	Processed int
	Awards    int
	Failed    int
}

// SweepService drives the time-based transitions nothing else triggers:
// matches going live at kickoff, matches finishing after the live
// window, settlement retries, and final-standing achievements once a
// league's end date has passed.
type SweepService struct {
	matchRepo    match.Repository
	leagueRepo   league.Repository
	settler      matchSettler
	boards       leaderboardBuilder
	achievements *AchievementService
	logger       *logging.Logger
	workerCount  int
	now          func() time.Time
}

func NewSweepService(
	matchRepo match.Repository,
	leagueRepo league.Repository,
	settler matchSettler,
	boards leaderboardBuilder,
	achievements *AchievementService,
	logger *logging.Logger,
) *SweepService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SweepService{
		matchRepo:    matchRepo,
		leagueRepo:   leagueRepo,
		settler:      settler,
		boards:       boards,
		achievements: achievements,
		logger:       logger,
		workerCount:  defaultSweepWorkers,
		now:          time.Now,
	}
}

// Run executes every sweep once. Used by the periodic runner and the
// internal job endpoint.
func (s *SweepService) Run(ctx context.Context) {
	if _, err := s.SweepMatchStatuses(ctx); err != nil {
		s.logger.ErrorContext(ctx, "match status sweep failed", "error", err)
	}
	if _, err := s.SweepUnsettled(ctx); err != nil {
		s.logger.ErrorContext(ctx, "settlement sweep failed", "error", err)
	}
	if _, err := s.SweepFinishedLeagues(ctx); err != nil {
		s.logger.ErrorContext(ctx, "league finish sweep failed", "error", err)
	}
}

// Start runs sweeps on a fixed interval until the context is cancelled.
func (s *SweepService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Run(ctx)
		}
	}
}

// SweepMatchStatuses moves scheduled matches to LIVE at kickoff and
// live matches to FINISHED once the live window has elapsed. Finishing
// a match that already has a score settles it immediately.
func (s *SweepService) SweepMatchStatuses(ctx context.Context) (StatusSweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SweepService.SweepMatchStatuses")
	defer span.End()

	now := s.now().UTC()
	var result StatusSweepResult

	due, err := s.matchRepo.ListByStatusBefore(ctx, match.StatusScheduled, now)
	if err != nil {
		return result, fmt.Errorf("list matches due to go live: %w", err)
	}
	for _, m := range due {
		if !m.ShouldGoLive(now) {
			continue
		}
		m.Status = match.StatusLive
		m.UpdatedAt = now
		if err := s.matchRepo.Update(ctx, m); err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "move match to live failed", "match_id", m.ID, "error", err)
			continue
		}
		result.WentLive++
	}

	stale, err := s.matchRepo.ListByStatusBefore(ctx, match.StatusLive, now.Add(-match.LiveDuration))
	if err != nil {
		return result, fmt.Errorf("list matches due to finish: %w", err)
	}
	for _, m := range stale {
		if !m.ShouldFinish(now) {
			continue
		}
		m.Status = match.StatusFinished
		m.UpdatedAt = now
		if err := s.matchRepo.Update(ctx, m); err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "finish match failed", "match_id", m.ID, "error", err)
			continue
		}
		result.Finished++
		if !m.HasResult() {
			continue
		}
		if _, err := s.settler.SettleMatch(ctx, m.ID); err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "settle finished match failed", "match_id", m.ID, "error", err)
			continue
		}
		result.Settled++
	}

	return result, nil
}

// SweepUnsettled retries settlement for finished matches whose earlier
// settlement never completed, fanned out over a worker pool. Matches
// still missing a final score are skipped quietly.
func (s *SweepService) SweepUnsettled(ctx context.Context) (StatusSweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SweepService.SweepUnsettled")
	defer span.End()

	var result StatusSweepResult
	pending, err := s.matchRepo.ListUnsettledFinished(ctx)
	if err != nil {
		return result, fmt.Errorf("list unsettled matches: %w", err)
	}
	if len(pending) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return result, fmt.Errorf("create sweep worker pool: %w", err)
	}
	defer pool.Release()

	var settled atomic.Int32
	var failed atomic.Int32
	var workers sync.WaitGroup
	for _, m := range pending {
		m := m
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if _, err := s.settler.SettleMatch(ctx, m.ID); err != nil {
				if errors.Is(err, ErrResultUnavailable) {
					return
				}
				failed.Add(1)
				s.logger.ErrorContext(ctx, "settlement retry failed", "match_id", m.ID, "error", err)
				return
			}
			settled.Add(1)
		}); err != nil {
			workers.Done()
			return result, fmt.Errorf("submit settlement to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Settled = int(settled.Load())
	result.Failed = int(failed.Load())
	return result, nil
}

// SweepFinishedLeagues awards final-standing achievements for leagues
// whose end date has passed, exactly once per league.
func (s *SweepService) SweepFinishedLeagues(ctx context.Context) (LeagueSweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SweepService.SweepFinishedLeagues")
	defer span.End()

	now := s.now().UTC()
	var result LeagueSweepResult

	ended, err := s.leagueRepo.ListEndedUnprocessed(ctx, now)
	if err != nil {
		return result, fmt.Errorf("list ended leagues: %w", err)
	}
	for _, l := range ended {
		awards, err := s.processLeagueFinish(ctx, l, now)
		if err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "league finish processing failed", "league_id", l.ID, "error", err)
			continue
		}
		result.Processed++
		result.Awards += awards
	}
	return result, nil
}

func (s *SweepService) processLeagueFinish(ctx context.Context, l league.League, now time.Time) (int, error) {
	entries, err := s.boards.Build(ctx, l.ID)
	if err != nil {
		return 0, fmt.Errorf("build final leaderboard: %w", err)
	}

	awards := 0
	for _, entry := range entries {
		granted, err := s.achievements.AwardLeaderboardPlacement(ctx, entry.UserID, entry.Rank)
		if err != nil {
			return awards, fmt.Errorf("award placement for user %s: %w", entry.UserID, err)
		}
		awards += granted
	}

	l.AchievementsProcessed = true
	l.UpdatedAt = now
	if err := s.leagueRepo.Update(ctx, l); err != nil {
		return awards, fmt.Errorf("mark league achievements processed: %w", err)
	}
	s.logger.InfoContext(ctx, "league finished",
		"league_id", l.ID, "members", len(entries), "awards", awards)
	return awards, nil
}
