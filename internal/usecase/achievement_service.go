package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scorecast/scorecast/internal/domain/achievement"
	"github.com/scorecast/scorecast/internal/domain/prediction"
	"github.com/scorecast/scorecast/internal/domain/scoring"
	idgen "github.com/scorecast/scorecast/internal/platform/id"
	"github.com/scorecast/scorecast/internal/platform/logging"
)

const perfectWeekSize = 7
const perfectWeekSpan = 7 * 24 * time.Hour
const comebackMissRun = 3

var milestoneCodes = []struct {
	threshold int
	code      string
}{
	{10, achievement.CodeMilestone10},
	{25, achievement.CodeMilestone25},
	{50, achievement.CodeMilestone50},
	{100, achievement.CodeMilestone100},
	{250, achievement.CodeMilestone250},
}

var exactStreakCodes = []struct {
	threshold int
	code      string
}{
	{2, achievement.CodeExactStreak2},
	{3, achievement.CodeExactStreak3},
	{5, achievement.CodeExactStreak5},
}

var correctStreakCodes = []struct {
	threshold int
	code      string
}{
	{5, achievement.CodeStreak5},
	{10, achievement.CodeStreak10},
	{15, achievement.CodeStreak15},
	{20, achievement.CodeStreak20},
}

// AchievementService evaluates and awards achievements. Awarding is
// idempotent per user and code, so every evaluation path can re-run
// safely.
type AchievementService struct {
	achievementRepo achievement.Repository
	predictionRepo  prediction.Repository
	notifier        Notifier
	idGen           idgen.Generator
	logger          *logging.Logger
	now             func() time.Time
}

func NewAchievementService(
	achievementRepo achievement.Repository,
	predictionRepo prediction.Repository,
	notifier Notifier,
	idGen idgen.Generator,
	logger *logging.Logger,
) *AchievementService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AchievementService{
		achievementRepo: achievementRepo,
		predictionRepo:  predictionRepo,
		notifier:        notifier,
		idGen:           idGen,
		logger:          logger,
		now:             time.Now,
	}
}

// Award grants one achievement to one user. Unknown and inactive codes
// are silent no-ops so retired achievements never break a caller.
// Returns true only when a new grant was written.
func (s *AchievementService) Award(ctx context.Context, userID, code string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	def, exists, err := s.achievementRepo.GetByCode(ctx, code)
	if err != nil {
		return false, fmt.Errorf("get achievement %s: %w", code, err)
	}
	if !exists || !def.Active {
		return false, nil
	}

	granted, err := s.achievementRepo.HasGrant(ctx, userID, code)
	if err != nil {
		return false, fmt.Errorf("check achievement grant: %w", err)
	}
	if granted {
		return false, nil
	}

	grantID, err := s.idGen.NewID()
	if err != nil {
		return false, fmt.Errorf("generate grant id: %w", err)
	}
	grant := achievement.Grant{
		ID:        grantID,
		UserID:    userID,
		Code:      code,
		AwardedAt: s.now().UTC(),
	}
	if err := s.achievementRepo.CreateGrant(ctx, grant); err != nil {
		// Two settlements racing on the same user hit the unique
		// constraint; the achievement is granted either way.
		if isDuplicateConstraintError(err) {
			return false, nil
		}
		return false, fmt.Errorf("create achievement grant: %w", err)
	}

	if err := s.notifier.AchievementEarned(ctx, userID, def); err != nil {
		s.logger.WarnContext(ctx, "achievement notification failed",
			"user_id", userID, "code", code, "error", err)
	}
	s.logger.InfoContext(ctx, "achievement awarded", "user_id", userID, "code", code)
	return true, nil
}

// OnPredictionCreated runs the submission-count checks after a new
// prediction is stored.
func (s *AchievementService) OnPredictionCreated(ctx context.Context, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "AchievementService.OnPredictionCreated")
	defer span.End()

	predictions, err := s.predictionRepo.ListByUserOrdered(ctx, userID)
	if err != nil {
		return fmt.Errorf("list predictions for milestones: %w", err)
	}
	count := len(predictions)
	if count == 0 {
		return nil
	}

	if _, err := s.Award(ctx, userID, achievement.CodeFirstPrediction); err != nil {
		return err
	}
	for _, milestone := range milestoneCodes {
		if count < milestone.threshold {
			break
		}
		if _, err := s.Award(ctx, userID, milestone.code); err != nil {
			return err
		}
	}
	return nil
}

// OnPredictionSettled runs the accuracy, streak and special checks for
// the prediction that just received points.
func (s *AchievementService) OnPredictionSettled(ctx context.Context, p prediction.Prediction) error {
	ctx, span := startUsecaseSpan(ctx, "AchievementService.OnPredictionSettled")
	defer span.End()

	if !p.IsSettled() {
		return nil
	}

	if scoring.IsExact(p.PointsValue()) {
		if _, err := s.Award(ctx, p.UserID, achievement.CodeExactScore); err != nil {
			return err
		}
	}

	all, err := s.predictionRepo.ListFinishedByUserOrderedByKickoff(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("list finished predictions for streaks: %w", err)
	}
	settled := make([]prediction.WithMatch, 0, len(all))
	pivot := -1
	for _, candidate := range all {
		if candidate.ID == p.ID {
			// The stored copy can lag the points just written.
			candidate.Prediction = p
		}
		if !candidate.IsSettled() {
			continue
		}
		if candidate.ID == p.ID {
			pivot = len(settled)
		}
		settled = append(settled, candidate)
	}
	if pivot < 0 {
		return nil
	}

	if err := s.checkStreaks(ctx, p.UserID, settled); err != nil {
		return err
	}
	if err := s.checkPerfectWeek(ctx, p.UserID, settled); err != nil {
		return err
	}
	return s.checkComeback(ctx, p.UserID, settled, pivot)
}

// checkStreaks measures the longest runs over the whole kickoff-ordered
// history, not just the run ending at the trigger. A result that arrives
// late can complete a run whose later members settled first.
func (s *AchievementService) checkStreaks(ctx context.Context, userID string, settled []prediction.WithMatch) error {
	longestExact, exactRun := 0, 0
	longestCorrect, correctRun := 0, 0
	for _, row := range settled {
		if scoring.IsExact(row.PointsValue()) {
			exactRun++
		} else {
			exactRun = 0
		}
		if scoring.IsCorrect(row.PointsValue()) {
			correctRun++
		} else {
			correctRun = 0
		}
		longestExact = max(longestExact, exactRun)
		longestCorrect = max(longestCorrect, correctRun)
	}

	if err := s.awardStreakTiers(ctx, userID, longestExact, exactStreakCodes, achievement.CodeExactStreak5); err != nil {
		return err
	}
	return s.awardStreakTiers(ctx, userID, longestCorrect, correctStreakCodes, achievement.CodeStreak20)
}

// awardStreakTiers grants every tier the streak has reached. Once the
// top tier is held there is nothing left to earn, so the whole ladder
// is skipped.
func (s *AchievementService) awardStreakTiers(
	ctx context.Context,
	userID string,
	streak int,
	tiers []struct {
		threshold int
		code      string
	},
	topCode string,
) error {
	if streak < tiers[0].threshold {
		return nil
	}
	maxed, err := s.achievementRepo.HasGrant(ctx, userID, topCode)
	if err != nil {
		return fmt.Errorf("check top streak grant: %w", err)
	}
	if maxed {
		return nil
	}
	for _, tier := range tiers {
		if streak < tier.threshold {
			break
		}
		if _, err := s.Award(ctx, userID, tier.code); err != nil {
			return err
		}
	}
	return nil
}

// checkPerfectWeek looks for seven consecutive scoring predictions on
// matches that kicked off inside a seven-day span.
func (s *AchievementService) checkPerfectWeek(ctx context.Context, userID string, settled []prediction.WithMatch) error {
	if len(settled) < perfectWeekSize {
		return nil
	}
	run := 0
	for i := range settled {
		if !scoring.IsCorrect(settled[i].PointsValue()) {
			run = 0
			continue
		}
		run++
		if run < perfectWeekSize {
			continue
		}
		first := settled[i-perfectWeekSize+1]
		if settled[i].KickoffAt.Sub(first.KickoffAt) <= perfectWeekSpan {
			_, err := s.Award(ctx, userID, achievement.CodePerfectWeek)
			return err
		}
	}
	return nil
}

// checkComeback awards an exact hit that directly follows three
// scoreless predictions.
func (s *AchievementService) checkComeback(ctx context.Context, userID string, settled []prediction.WithMatch, pivot int) error {
	if pivot < comebackMissRun {
		return nil
	}
	if !scoring.IsExact(settled[pivot].PointsValue()) {
		return nil
	}
	for i := pivot - comebackMissRun; i < pivot; i++ {
		if settled[i].PointsValue() != scoring.PointsMiss {
			return nil
		}
	}
	_, err := s.Award(ctx, userID, achievement.CodeComebackKing)
	return err
}

// AwardLeaderboardPlacement grants the final-standing achievements for
// one member's finishing rank. Called only after a league's end date
// has passed.
func (s *AchievementService) AwardLeaderboardPlacement(ctx context.Context, userID string, rank int) (int, error) {
	if rank < 1 {
		return 0, nil
	}
	type placement struct {
		maxRank int
		code    string
	}
	awarded := 0
	for _, pl := range []placement{
		{1, achievement.CodeLeaderboard1},
		{3, achievement.CodeLeaderboardTop3},
		{10, achievement.CodeLeaderboardT10},
		{50, achievement.CodeLeaderboardT50},
	} {
		if rank > pl.maxRank {
			continue
		}
		granted, err := s.Award(ctx, userID, pl.code)
		if err != nil {
			return awarded, err
		}
		if granted {
			awarded++
		}
	}
	return awarded, nil
}

// Catalog lists every achievement definition, active or not.
func (s *AchievementService) Catalog(ctx context.Context) ([]achievement.Achievement, error) {
	ctx, span := startUsecaseSpan(ctx, "AchievementService.Catalog")
	defer span.End()

	catalog, err := s.achievementRepo.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievement catalog: %w", err)
	}
	return catalog, nil
}

// ListUserGrants returns everything a user has earned.
func (s *AchievementService) ListUserGrants(ctx context.Context, userID string) ([]achievement.Grant, error) {
	ctx, span := startUsecaseSpan(ctx, "AchievementService.ListUserGrants")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	grants, err := s.achievementRepo.ListGrantsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	return grants, nil
}
