package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scorecast/scorecast/internal/domain/match"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/domain/scoring"
	idgen "github.com/scorecast/scorecast/internal/platform/id"
	"github.com/scorecast/scorecast/internal/platform/logging"
)

type SubmitPredictionInput struct {
	UserID        string
	MatchID       string
	PredictedHome int
	PredictedAway int
}

// createdPredictionHook runs achievement checks after a prediction is
// first stored.
type createdPredictionHook interface {
	OnPredictionCreated(ctx context.Context, userID string) error
}

// PredictionService handles prediction intake and history. Predictions
// lock at kickoff; until then a user can revise their call freely.
type PredictionService struct {
	predictionRepo prediction.Repository
	matchRepo      match.Repository
	achievements   createdPredictionHook
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	predictionRepo prediction.Repository,
	matchRepo match.Repository,
	achievements createdPredictionHook,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		achievements:   achievements,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit stores or revises the caller's prediction for one match.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.Submit")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.UserID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.MatchID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if input.PredictedHome < 0 || input.PredictedAway < 0 {
		return prediction.Prediction{}, fmt.Errorf("%w: predicted scores must not be negative", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get match for prediction: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: match %s", ErrNotFound, input.MatchID)
	}
	now := s.now().UTC()
	if match.NormalizeStatus(m.Status) != match.StatusScheduled || !now.Before(m.KickoffAt) {
		return prediction.Prediction{}, fmt.Errorf("%w: predictions for match %s are locked", ErrInvalidState, m.ID)
	}

	existing, found, err := s.predictionRepo.GetByUserAndMatch(ctx, input.UserID, input.MatchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get existing prediction: %w", err)
	}
	if found {
		existing.PredictedHome = input.PredictedHome
		existing.PredictedAway = input.PredictedAway
		existing.UpdatedAt = now
		if err := s.predictionRepo.Update(ctx, existing); err != nil {
			return prediction.Prediction{}, fmt.Errorf("revise prediction: %w", err)
		}
		return existing, nil
	}

	predictionID, err := s.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}
	p := prediction.Prediction{
		ID:            predictionID,
		UserID:        input.UserID,
		MatchID:       input.MatchID,
		PredictedHome: input.PredictedHome,
		PredictedAway: input.PredictedAway,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.predictionRepo.Create(ctx, p); err != nil {
		// A concurrent submit for the same user and match won the
		// unique constraint; surface it as a revision conflict.
		if isDuplicateConstraintError(err) {
			return prediction.Prediction{}, fmt.Errorf("%w: prediction already exists for match %s", ErrInvalidInput, m.ID)
		}
		return prediction.Prediction{}, fmt.Errorf("create prediction: %w", err)
	}

	if s.achievements != nil {
		if err := s.achievements.OnPredictionCreated(ctx, p.UserID); err != nil {
			s.logger.WarnContext(ctx, "milestone evaluation failed",
				"user_id", p.UserID, "error", err)
		}
	}
	return p, nil
}

// GetForMatch returns the caller's prediction on one match.
func (s *PredictionService) GetForMatch(ctx context.Context, userID, matchID string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.GetForMatch")
	defer span.End()

	userID = strings.TrimSpace(userID)
	matchID = strings.TrimSpace(matchID)
	if userID == "" || matchID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id and match id are required", ErrInvalidInput)
	}
	p, exists, err := s.predictionRepo.GetByUserAndMatch(ctx, userID, matchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: no prediction for match %s", ErrNotFound, matchID)
	}
	return p, nil
}

// History lists the caller's predictions oldest first.
func (s *PredictionService) History(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.History")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	history, err := s.predictionRepo.ListByUserOrdered(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list prediction history: %w", err)
	}
	return history, nil
}

// Stats aggregates the caller's settled predictions into totals and
// streaks.
func (s *PredictionService) Stats(ctx context.Context, userID string) (prediction.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.Stats")
	defer span.End()

	history, err := s.History(ctx, userID)
	if err != nil {
		return prediction.Stats{}, err
	}

	stats := prediction.Stats{UserID: strings.TrimSpace(userID)}
	exactRun := 0
	for _, p := range history {
		if !p.IsSettled() {
			continue
		}
		points := p.PointsValue()
		stats.TotalSettled++
		stats.TotalPoints += points
		switch {
		case scoring.IsExact(points):
			stats.ExactCount++
		case scoring.IsCorrect(points):
			stats.OutcomeCount++
		default:
			stats.MissCount++
		}

		if scoring.IsCorrect(points) {
			stats.CurrentStreak++
		} else {
			stats.CurrentStreak = 0
		}
		if scoring.IsExact(points) {
			exactRun++
			if exactRun > stats.BestExactStreak {
				stats.BestExactStreak = exactRun
			}
		} else {
			exactRun = 0
		}
	}
	return stats, nil
}
