package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/scorecast/scorecast/internal/domain/league"
	idgen "github.com/scorecast/scorecast/internal/platform/id"
	"github.com/scorecast/scorecast/internal/platform/logging"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type CreateLeagueInput struct {
	OwnerUserID       string
	Name              string
	Description       string
	StartDate         time.Time
	EndDate           time.Time
	Type              string
	PrizeDistribution string
	EntryPrice        decimal.Decimal
	RankedPercentages map[int]decimal.Decimal
}

type leaderboardBuilder interface {
	Build(ctx context.Context, leagueID string) ([]league.Entry, error)
}

// LeagueService manages private league lifecycle and membership.
type LeagueService struct {
	leagueRepo league.Repository
	boards     leaderboardBuilder
	notifier   Notifier
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	boards leaderboardBuilder,
	notifier Notifier,
	idGen idgen.Generator,
	logger *logging.Logger,
) *LeagueService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		leagueRepo: leagueRepo,
		boards:     boards,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Create validates the betting configuration, stores the league and
// enrolls the owner as its first member.
func (s *LeagueService) Create(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.Create")
	defer span.End()

	input.OwnerUserID = strings.TrimSpace(input.OwnerUserID)
	input.Name = strings.TrimSpace(input.Name)
	if input.OwnerUserID == "" {
		return league.League{}, fmt.Errorf("%w: owner user id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	inviteCode, err := generateInviteCode(8)
	if err != nil {
		return league.League{}, fmt.Errorf("generate invite code: %w", err)
	}

	now := s.now().UTC()
	l := league.League{
		ID:                leagueID,
		Name:              input.Name,
		Description:       strings.TrimSpace(input.Description),
		OwnerUserID:       input.OwnerUserID,
		InviteCode:        inviteCode,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Type:              strings.ToUpper(strings.TrimSpace(input.Type)),
		PrizeDistribution: strings.ToUpper(strings.TrimSpace(input.PrizeDistribution)),
		EntryPrice:        input.EntryPrice,
		RankedPercentages: input.RankedPercentages,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := l.ValidateConfig(); err != nil {
		return league.League{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, l); err != nil {
		if isDuplicateConstraintError(err) {
			return league.League{}, fmt.Errorf("%w: duplicate league name or invite code", ErrInvalidInput)
		}
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	owner := league.Membership{LeagueID: l.ID, UserID: l.OwnerUserID, Role: league.RoleOwner, JoinedAt: now}
	if err := s.leagueRepo.AddMember(ctx, owner); err != nil && !isDuplicateConstraintError(err) {
		return league.League{}, fmt.Errorf("enroll league owner: %w", err)
	}

	s.logger.InfoContext(ctx, "league created", "league_id", l.ID, "owner_user_id", l.OwnerUserID)
	return l, nil
}

// JoinByInviteCode adds a user to a league. Hidden leagues behave as if
// they do not exist, joining after the start date is refused, and
// joining a league the user already belongs to succeeds without side
// effects.
func (s *LeagueService) JoinByInviteCode(ctx context.Context, userID, inviteCode string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.JoinByInviteCode")
	defer span.End()

	userID = strings.TrimSpace(userID)
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if inviteCode == "" {
		return league.League{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by invite code: %w", err)
	}
	if !exists || l.Hidden {
		return league.League{}, fmt.Errorf("%w: no league for invite code", ErrNotFound)
	}
	if l.Locked(s.now().UTC()) {
		return league.League{}, fmt.Errorf("%w: league %s started %s", ErrLeagueLocked, l.ID, l.StartDate.Format(time.RFC3339))
	}

	isMember, err := s.leagueRepo.IsMember(ctx, l.ID, userID)
	if err != nil {
		return league.League{}, fmt.Errorf("check league membership: %w", err)
	}
	if isMember {
		return l, nil
	}

	existing, err := s.leagueRepo.ListMembers(ctx, l.ID)
	if err != nil {
		return league.League{}, fmt.Errorf("list members before join: %w", err)
	}

	membership := league.Membership{LeagueID: l.ID, UserID: userID, Role: league.RoleMember, JoinedAt: s.now().UTC()}
	if err := s.leagueRepo.AddMember(ctx, membership); err != nil {
		// Two joins racing for the same user resolve to one membership.
		if !isDuplicateConstraintError(err) {
			return league.League{}, fmt.Errorf("add league member: %w", err)
		}
		return l, nil
	}

	s.notifyMembersOfJoin(ctx, l.ID, userID, existing)
	s.logger.InfoContext(ctx, "league joined", "league_id", l.ID, "user_id", userID)
	return l, nil
}

// notifyMembersOfJoin fans the join notice out to the members that were
// already in the league. Notification failures are logged and dropped.
func (s *LeagueService) notifyMembersOfJoin(ctx context.Context, leagueID, joinedUserID string, members []league.Membership) {
	var wg conc.WaitGroup
	for _, member := range members {
		recipient := member.UserID
		if recipient == joinedUserID {
			continue
		}
		wg.Go(func() {
			if err := s.notifier.MemberJoined(ctx, recipient, leagueID, joinedUserID); err != nil {
				s.logger.WarnContext(ctx, "member join notification failed",
					"league_id", leagueID, "recipient", recipient, "error", err)
			}
		})
	}
	wg.Wait()
}

// Get returns one league. Hidden leagues read as absent for everyone,
// the owner included.
func (s *LeagueService) Get(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.Get")
	defer span.End()

	l, err := s.visibleLeague(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	return l, nil
}

// ListMine lists the leagues a user belongs to. Hidden leagues are
// filtered out like every other read.
func (s *LeagueService) ListMine(ctx context.Context, userID string) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListMine")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	leagues, err := s.leagueRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}
	visible := make([]league.League, 0, len(leagues))
	for _, l := range leagues {
		if l.Hidden {
			continue
		}
		visible = append(visible, l)
	}
	return visible, nil
}

// SetHidden hides or restores a league. Owner only. This is the one
// owner operation that still resolves a hidden league, otherwise
// nothing could ever restore one.
func (s *LeagueService) SetHidden(ctx context.Context, leagueID, userID string, hidden bool) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.SetHidden")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return league.League{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league for visibility change: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if l.OwnerUserID != userID {
		return league.League{}, fmt.Errorf("%w: only the owner can change league visibility", ErrUnauthorized)
	}
	if l.Hidden == hidden {
		return l, nil
	}

	l.Hidden = hidden
	l.UpdatedAt = s.now().UTC()
	if err := s.leagueRepo.Update(ctx, l); err != nil {
		return league.League{}, fmt.Errorf("update league visibility: %w", err)
	}
	return l, nil
}

// Leaderboard builds the ranked standings for a visible league.
func (s *LeagueService) Leaderboard(ctx context.Context, leagueID string) ([]league.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.Leaderboard")
	defer span.End()

	l, err := s.visibleLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.boards.Build(ctx, l.ID)
}

// visibleLeague resolves a league for read operations. A hidden league
// is indistinguishable from a missing one.
func (s *LeagueService) visibleLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists || l.Hidden {
		return league.League{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	return l, nil
}

func generateInviteCode(length int) (string, error) {
	if length < 6 {
		length = 6
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes for invite code: %w", err)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(out), nil
}

func isDuplicateConstraintError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "duplicate key value violates unique constraint")
}
