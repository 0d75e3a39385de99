package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
	"github.com/fantasta-tools/asta-ledger/internal/platform/cache"
	idgen "github.com/fantasta-tools/asta-ledger/internal/platform/id"
)

const joinCodeAttempts = 5

// CreateLeagueInput carries the master's league configuration.
type CreateLeagueInput struct {
	OwnerID             string
	Name                string
	Mode                string
	Season              string
	Budget              int64
	MaxPlayersPerTeam   int
	MaxMembers          int
	AllowNegativeBudget bool
	RoleCaps            map[string]int
}

// UpdateLeagueSettingsInput is the master-only settings payload. Nil
// pointers leave the matching setting untouched.
type UpdateLeagueSettingsInput struct {
	UserID              string
	LeagueID            string
	Name                *string
	Budget              *int64
	MaxPlayersPerTeam   *int
	MaxMembers          *int
	AllowNegativeBudget *bool
	RoleCaps            map[string]int
}

type LeagueService struct {
	leagueRepo     league.Repository
	membershipRepo league.MembershipRepository
	resetRepo      league.ResetRepository
	catalogRepo    catalog.Repository
	guard          *LeagueGuard
	budgetCache    *cache.Store
	idGen          idgen.Generator
	codeGen        idgen.JoinCodeGenerator
	logger         *slog.Logger
	now            func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	membershipRepo league.MembershipRepository,
	resetRepo league.ResetRepository,
	catalogRepo catalog.Repository,
	guard *LeagueGuard,
	budgetCache *cache.Store,
	idGen idgen.Generator,
	codeGen idgen.JoinCodeGenerator,
	logger *slog.Logger,
) *LeagueService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LeagueService{
		leagueRepo:     leagueRepo,
		membershipRepo: membershipRepo,
		resetRepo:      resetRepo,
		catalogRepo:    catalogRepo,
		guard:          guard,
		budgetCache:    budgetCache,
		idGen:          idGen,
		codeGen:        codeGen,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateLeague provisions a new isolated draft context and enrols the owner
// as its master. The join code is generated server-side and retried on the
// rare collision.
func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.CreateLeague")
	defer span.End()

	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.Name = strings.TrimSpace(input.Name)
	input.Season = strings.TrimSpace(input.Season)

	if input.OwnerID == "" {
		return league.League{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if input.Season == "" {
		return league.League{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	mode, err := roles.ParseGameMode(input.Mode)
	if err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	roleCaps, err := parseRoleCaps(input.RoleCaps, mode)
	if err != nil {
		return league.League{}, err
	}
	if mode == roles.ModeClassic && roleCaps == nil {
		roleCaps = league.DefaultRoleCaps()
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.now().UTC()
	lg := league.League{
		ID:                  leagueID,
		Name:                input.Name,
		OwnerID:             input.OwnerID,
		Mode:                mode,
		Season:              input.Season,
		Budget:              input.Budget,
		MaxPlayersPerTeam:   input.MaxPlayersPerTeam,
		MaxMembers:          input.MaxMembers,
		AllowNegativeBudget: input.AllowNegativeBudget,
		RoleCaps:            roleCaps,
		Status:              league.StatusActive,
		CreatedAt:           now,
	}

	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		lg.JoinCode, err = s.codeGen.NewJoinCode()
		if err != nil {
			return league.League{}, fmt.Errorf("generate join code: %w", err)
		}
		if err = lg.Validate(); err != nil {
			return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		err = s.leagueRepo.Create(ctx, lg)
		if err == nil {
			break
		}
		if !errors.Is(err, league.ErrJoinCodeTaken) {
			return league.League{}, fmt.Errorf("create league: %w", err)
		}
	}
	if err != nil {
		return league.League{}, fmt.Errorf("%w: could not allocate a unique join code", ErrConflict)
	}

	membership := league.Membership{
		LeagueID: lg.ID,
		UserID:   input.OwnerID,
		Role:     league.RoleMaster,
		JoinedAt: now,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		// Without its master membership the league row is unmanageable;
		// take it back out rather than leave it orphaned.
		if delErr := s.leagueRepo.Delete(ctx, lg.ID); delErr != nil {
			s.logger.WarnContext(ctx, "orphaned league cleanup failed",
				"league_id", lg.ID,
				"error", delErr,
			)
		}
		return league.League{}, fmt.Errorf("create master membership: %w", err)
	}

	s.logger.InfoContext(ctx, "league created",
		"league_id", lg.ID,
		"owner_id", lg.OwnerID,
		"mode", string(lg.Mode),
	)

	return lg, nil
}

// JoinLeague enrols the caller into the league behind a join code.
func (s *LeagueService) JoinLeague(ctx context.Context, userID, joinCode string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.JoinLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	joinCode = strings.ToUpper(strings.TrimSpace(joinCode))
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if joinCode == "" {
		return league.League{}, fmt.Errorf("%w: join code is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by join code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: no league for join code", ErrNotFound)
	}
	if lg.Status == league.StatusClosed {
		return league.League{}, fmt.Errorf("%w: league is closed", ErrConflict)
	}

	if _, exists, err = s.membershipRepo.Get(ctx, lg.ID, userID); err != nil {
		return league.League{}, fmt.Errorf("get membership: %w", err)
	} else if exists {
		return league.League{}, fmt.Errorf("%w: already a member of league=%s", ErrConflict, lg.ID)
	}

	members, err := s.membershipRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return league.League{}, fmt.Errorf("list members: %w", err)
	}
	if len(members) >= lg.MaxMembers {
		return league.League{}, fmt.Errorf("%w: league is full", ErrConflict)
	}

	membership := league.Membership{
		LeagueID: lg.ID,
		UserID:   userID,
		Role:     league.RoleMember,
		JoinedAt: s.now().UTC(),
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return league.League{}, fmt.Errorf("create membership: %w", err)
	}

	s.logger.InfoContext(ctx, "member joined league", "league_id", lg.ID, "user_id", userID)

	return lg, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	lg, _, err := s.guard.RequireMember(ctx, userID, leagueID)
	if err != nil {
		return league.League{}, err
	}
	return lg, nil
}

// ListMyLeagues returns every league the caller belongs to.
func (s *LeagueService) ListMyLeagues(ctx context.Context, userID string) ([]league.League, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	memberships, err := s.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	leagues := make([]league.League, 0, len(memberships))
	for _, m := range memberships {
		lg, exists, err := s.leagueRepo.GetByID(ctx, m.LeagueID)
		if err != nil {
			return nil, fmt.Errorf("get league: %w", err)
		}
		if exists {
			leagues = append(leagues, lg)
		}
	}

	return leagues, nil
}

func (s *LeagueService) ListMembers(ctx context.Context, userID, leagueID string) ([]league.Membership, error) {
	if _, _, err := s.guard.RequireMember(ctx, userID, leagueID); err != nil {
		return nil, err
	}

	members, err := s.membershipRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

// UpdateSettings applies a master-only partial settings update. Role caps
// are revalidated against the (possibly updated) squad size before any
// write happens.
func (s *LeagueService) UpdateSettings(ctx context.Context, input UpdateLeagueSettingsInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.UpdateSettings")
	defer span.End()

	lg, _, err := s.guard.RequireMaster(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return league.League{}, err
	}
	if lg.Status == league.StatusClosed {
		return league.League{}, fmt.Errorf("%w: league is closed", ErrConflict)
	}

	if input.Name != nil {
		lg.Name = strings.TrimSpace(*input.Name)
	}
	if input.Budget != nil {
		lg.Budget = *input.Budget
	}
	if input.MaxPlayersPerTeam != nil {
		lg.MaxPlayersPerTeam = *input.MaxPlayersPerTeam
	}
	if input.MaxMembers != nil {
		lg.MaxMembers = *input.MaxMembers
	}
	if input.AllowNegativeBudget != nil {
		lg.AllowNegativeBudget = *input.AllowNegativeBudget
	}
	if input.RoleCaps != nil {
		roleCaps, err := parseRoleCaps(input.RoleCaps, lg.Mode)
		if err != nil {
			return league.League{}, err
		}
		lg.RoleCaps = roleCaps
	}

	if err := lg.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Update(ctx, lg); err != nil {
		return league.League{}, fmt.Errorf("update league: %w", err)
	}
	// A budget or cap change invalidates every member's cached summary.
	s.budgetCache.DeletePrefix(ctx, budgetCachePrefix(lg.ID))

	s.logger.InfoContext(ctx, "league settings updated", "league_id", lg.ID)

	return lg, nil
}

// LeaveLeague removes the caller's own membership and all their derived
// rows. The master cannot leave; they delete the league instead.
func (s *LeagueService) LeaveLeague(ctx context.Context, userID, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.LeaveLeague")
	defer span.End()

	_, membership, err := s.guard.RequireMember(ctx, userID, leagueID)
	if err != nil {
		return err
	}
	if membership.IsMaster() {
		return fmt.Errorf("%w: the master cannot leave their own league", ErrConflict)
	}

	if err := s.resetRepo.ResetMemberData(ctx, userID, leagueID); err != nil {
		return fmt.Errorf("reset member data: %w", err)
	}
	if err := s.membershipRepo.Delete(ctx, leagueID, userID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	s.budgetCache.Delete(ctx, budgetCacheKey(userID, leagueID))
	if err := s.sweepOrphans(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "member left league", "league_id", leagueID, "user_id", userID)

	return nil
}

// RemoveMember is the master-only variant of LeaveLeague for another member.
func (s *LeagueService) RemoveMember(ctx context.Context, masterID, leagueID, memberID string) error {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.RemoveMember")
	defer span.End()

	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}

	if _, _, err := s.guard.RequireMaster(ctx, masterID, leagueID); err != nil {
		return err
	}
	if memberID == strings.TrimSpace(masterID) {
		return fmt.Errorf("%w: the master cannot remove themselves", ErrConflict)
	}

	_, exists, err := s.membershipRepo.Get(ctx, leagueID, memberID)
	if err != nil {
		return fmt.Errorf("get membership: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}

	if err := s.resetRepo.ResetMemberData(ctx, memberID, leagueID); err != nil {
		return fmt.Errorf("reset member data: %w", err)
	}
	if err := s.membershipRepo.Delete(ctx, leagueID, memberID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	s.budgetCache.Delete(ctx, budgetCacheKey(memberID, leagueID))
	if err := s.sweepOrphans(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "member removed from league",
		"league_id", leagueID,
		"member_id", memberID,
	)

	return nil
}

// ResetMyData clears the caller's draft states, participants, assignments
// and lineups in one league while keeping the membership itself.
func (s *LeagueService) ResetMyData(ctx context.Context, userID, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ResetMyData")
	defer span.End()

	if _, _, err := s.guard.RequireMember(ctx, userID, leagueID); err != nil {
		return err
	}

	if err := s.resetRepo.ResetMemberData(ctx, userID, leagueID); err != nil {
		return fmt.Errorf("reset member data: %w", err)
	}
	s.budgetCache.Delete(ctx, budgetCacheKey(userID, leagueID))
	if err := s.sweepOrphans(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "member data reset", "league_id", leagueID, "user_id", userID)

	return nil
}

// CloseLeague freezes the league: no joins, no settings edits. Draft data
// stays readable.
func (s *LeagueService) CloseLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	lg, _, err := s.guard.RequireMaster(ctx, userID, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if lg.Status == league.StatusClosed {
		return lg, nil
	}

	lg.Status = league.StatusClosed
	if err := s.leagueRepo.Update(ctx, lg); err != nil {
		return league.League{}, fmt.Errorf("update league: %w", err)
	}

	s.logger.InfoContext(ctx, "league closed", "league_id", leagueID)

	return lg, nil
}

// DeleteLeague purges every derived row of every member, the memberships and
// the league itself, then sweeps catalog orphans.
func (s *LeagueService) DeleteLeague(ctx context.Context, userID, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.DeleteLeague")
	defer span.End()

	if _, _, err := s.guard.RequireMaster(ctx, userID, leagueID); err != nil {
		return err
	}

	if err := s.resetRepo.PurgeLeague(ctx, leagueID); err != nil {
		return fmt.Errorf("purge league data: %w", err)
	}

	members, err := s.membershipRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if err := s.membershipRepo.Delete(ctx, leagueID, m.UserID); err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
	}

	if err := s.leagueRepo.Delete(ctx, leagueID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	s.budgetCache.DeletePrefix(ctx, budgetCachePrefix(leagueID))
	if err := s.sweepOrphans(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "league deleted", "league_id", leagueID)

	return nil
}

func (s *LeagueService) sweepOrphans(ctx context.Context) error {
	removed, err := s.catalogRepo.DeleteOrphans(ctx)
	if err != nil {
		return fmt.Errorf("sweep catalog orphans: %w", err)
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "catalog orphans removed", "count", removed)
	}

	return nil
}

func parseRoleCaps(raw map[string]int, mode roles.GameMode) (map[roles.Role]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if mode != roles.ModeClassic {
		return nil, fmt.Errorf("%w: role caps apply to classic leagues only", ErrInvalidInput)
	}

	caps := make(map[roles.Role]int, len(raw))
	for tag, max := range raw {
		role := roles.Role(strings.TrimSpace(tag))
		if _, ok := roles.ClassicRoles[role]; !ok {
			return nil, fmt.Errorf("%w: unknown classic role %q", ErrInvalidInput, tag)
		}
		caps[role] = max
	}

	return caps, nil
}
