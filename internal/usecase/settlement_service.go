package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/domain/scoring"
	"github.com/scorecast/scorecast/internal/platform/logging"
	"github.com/scorecast/scorecast/internal/platform/resilience"
)

// SettlementSummary reports what one settlement pass did.
type SettlementSummary struct {
	MatchID      string
	Predictions  int
	Updated      int
	Unchanged    int
	Failed       int
	Notified     int
	Deduplicated bool
}

// settledPredictionHook lets achievement evaluation run after each
// prediction is settled without the settlement flow depending on the
// achievement service directly.
type settledPredictionHook interface {
	OnPredictionSettled(ctx context.Context, p prediction.Prediction) error
}

// SettlementService turns a finished match result into points on every
// prediction for that match.
type SettlementService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	achievements   settledPredictionHook
	notifier       Notifier
	logger         *logging.Logger
	settleFlight   resilience.SingleFlight
	now            func() time.Time
}

func NewSettlementService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	achievements settledPredictionHook,
	notifier Notifier,
	logger *logging.Logger,
) *SettlementService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SettlementService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		achievements:   achievements,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// SettleMatch scores every prediction on a finished match. Concurrent
// calls for the same match collapse into one pass; the operation is
// idempotent because points are only written when they change.
func (s *SettlementService) SettleMatch(ctx context.Context, matchID string) (SettlementSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "SettlementService.SettleMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return SettlementSummary{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	value, err, shared := s.settleFlight.Do("settle:"+matchID, func() (any, error) {
		summary, err := s.settleMatch(ctx, matchID)
		return summary, err
	})
	if err != nil {
		return SettlementSummary{}, err
	}
	summary, ok := value.(SettlementSummary)
	if !ok {
		return SettlementSummary{}, fmt.Errorf("unexpected settlement result type %T", value)
	}
	summary.Deduplicated = shared
	return summary, nil
}

func (s *SettlementService) settleMatch(ctx context.Context, matchID string) (SettlementSummary, error) {
	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return SettlementSummary{}, fmt.Errorf("get match for settlement: %w", err)
	}
	if !exists {
		return SettlementSummary{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if !m.IsFinished() {
		return SettlementSummary{}, fmt.Errorf("%w: match %s is %s, settlement requires %s",
			ErrInvalidState, matchID, match.NormalizeStatus(m.Status), match.StatusFinished)
	}
	if !m.HasResult() {
		return SettlementSummary{}, fmt.Errorf("%w: match %s has no final score", ErrResultUnavailable, matchID)
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return SettlementSummary{}, fmt.Errorf("list predictions for settlement: %w", err)
	}

	summary := SettlementSummary{MatchID: matchID, Predictions: len(predictions)}
	for _, p := range predictions {
		updated, notified, err := s.settlePrediction(ctx, m, p)
		if err != nil {
			// One bad prediction must not block the rest of the match.
			summary.Failed++
			s.logger.ErrorContext(ctx, "settle prediction failed",
				"match_id", matchID, "prediction_id", p.ID, "user_id", p.UserID, "error", err)
			continue
		}
		if updated {
			summary.Updated++
		} else {
			summary.Unchanged++
		}
		if notified {
			summary.Notified++
		}
	}

	if m.SettledAt == nil {
		now := s.now().UTC()
		m.SettledAt = &now
		m.UpdatedAt = now
		if err := s.matchRepo.Update(ctx, m); err != nil {
			return summary, fmt.Errorf("mark match settled: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "match settled",
		"match_id", matchID,
		"predictions", summary.Predictions,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
	)
	return summary, nil
}

// settlePrediction writes points for one prediction when they differ
// from what is stored, then fires the notification and achievement side
// effects. Notification only happens when points appear for the first
// time or increase, so re-settling after a result correction downward
// stays silent.
func (s *SettlementService) settlePrediction(ctx context.Context, m match.Match, p prediction.Prediction) (updated, notified bool, err error) {
	points := scoring.Score(p.PredictedHome, p.PredictedAway, *m.HomeScore, *m.AwayScore)

	previouslyUnsettled := !p.IsSettled()
	if !previouslyUnsettled && p.PointsValue() == points {
		return false, false, nil
	}
	previousPoints := p.PointsValue()

	now := s.now().UTC()
	p.Points = &points
	p.SettledAt = &now
	p.UpdatedAt = now
	if err := s.predictionRepo.Update(ctx, p); err != nil {
		return false, false, fmt.Errorf("write points: %w", err)
	}

	if previouslyUnsettled || points > previousPoints {
		if err := s.notifier.PointsAwarded(ctx, p.UserID, m.ID, points); err != nil {
			s.logger.WarnContext(ctx, "points notification failed",
				"user_id", p.UserID, "match_id", m.ID, "error", err)
		} else {
			notified = true
		}
	}

	if s.achievements != nil {
		if err := s.achievements.OnPredictionSettled(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "achievement evaluation failed",
				"user_id", p.UserID, "prediction_id", p.ID, "error", err)
		}
	}

	return true, notified, nil
}
