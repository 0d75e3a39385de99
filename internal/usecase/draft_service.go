package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fantasta-tools/asta-ledger/internal/domain/budget"
	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/draft"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
	"github.com/fantasta-tools/asta-ledger/internal/platform/cache"
)

// DraftFilters narrows the board listing. Zero values mean no filtering;
// removed rows are excluded unless explicitly requested by status.
type DraftFilters struct {
	Status     string
	Role       string
	SearchText string
}

// DraftEntry is one board row: the catalog player joined with the caller's
// private state for it.
type DraftEntry struct {
	Player catalog.Player
	State  draft.State
}

// TransitionInput carries one status change for one player.
type TransitionInput struct {
	UserID        string
	LeagueID      string
	PlayerID      string
	Status        string
	Cost          *int64
	Buyer         *string
	ExpectedPrice *int64
	Note          *string
}

type DraftService struct {
	catalogRepo catalog.Repository
	draftRepo   draft.Repository
	guard       *LeagueGuard
	budgetCache *cache.Store
	logger      *slog.Logger
	now         func() time.Time
}

func NewDraftService(
	catalogRepo catalog.Repository,
	draftRepo draft.Repository,
	guard *LeagueGuard,
	budgetCache *cache.Store,
	logger *slog.Logger,
) *DraftService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DraftService{
		catalogRepo: catalogRepo,
		draftRepo:   draftRepo,
		guard:       guard,
		budgetCache: budgetCache,
		logger:      logger,
		now:         time.Now,
	}
}

// ListDraftStates merges the season catalog with the caller's state rows.
// Players without a stored row appear as lazy available defaults.
func (s *DraftService) ListDraftStates(ctx context.Context, userID, leagueID string, filters DraftFilters) ([]DraftEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.ListDraftStates")
	defer span.End()

	lg, _, err := s.guard.RequireMember(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}

	var statusFilter draft.Status
	if raw := strings.TrimSpace(filters.Status); raw != "" {
		statusFilter, err = draft.ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	var roleFilter roles.Role
	if raw := strings.TrimSpace(filters.Role); raw != "" {
		roleFilter = roles.Role(raw)
		if !roles.Valid(roleFilter, lg.Mode) {
			return nil, fmt.Errorf("%w: unknown %s role %q", ErrInvalidInput, lg.Mode, raw)
		}
	}
	search := strings.ToLower(strings.TrimSpace(filters.SearchText))

	players, err := s.catalogRepo.List(ctx, lg.Season)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	states, err := s.draftRepo.ListByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list draft states: %w", err)
	}
	stateByPlayer := make(map[string]draft.State, len(states))
	for _, st := range states {
		stateByPlayer[st.PlayerID] = st
	}

	entries := make([]DraftEntry, 0, len(players))
	for _, p := range players {
		st, ok := stateByPlayer[p.ID]
		if !ok {
			st = draft.NewState(userID, leagueID, p.ID)
		}

		if statusFilter != "" {
			if st.Status != statusFilter {
				continue
			}
		} else if st.Status == draft.StatusRemoved {
			continue
		}
		if roleFilter != "" && !roles.Intersects(p.Roles, []roles.Role{roleFilter}) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Team), search) {
			continue
		}

		entries = append(entries, DraftEntry{Player: p, State: st})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Player.Name < entries[j].Player.Name
	})

	return entries, nil
}

// TransitionStatus applies one member-initiated status change as a single
// atomic read-modify-write. Acquisitions are checked against the budget and
// roster rules before the row is persisted.
func (s *DraftService) TransitionStatus(ctx context.Context, input TransitionInput) (draft.State, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.TransitionStatus")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return draft.State{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	lg, _, err := s.guard.RequireMember(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return draft.State{}, err
	}

	status, err := draft.ParseStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return draft.State{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	player, exists, err := s.catalogRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return draft.State{}, fmt.Errorf("get catalog player: %w", err)
	}
	if !exists {
		return draft.State{}, fmt.Errorf("%w: player=%s", ErrNotFound, input.PlayerID)
	}

	current, exists, err := s.draftRepo.Get(ctx, input.UserID, input.LeagueID, input.PlayerID)
	if err != nil {
		return draft.State{}, fmt.Errorf("get draft state: %w", err)
	}
	if !exists {
		current = draft.NewState(input.UserID, input.LeagueID, input.PlayerID)
	}

	change := draft.Change{
		Status:        status,
		Cost:          input.Cost,
		Buyer:         input.Buyer,
		ExpectedPrice: input.ExpectedPrice,
		Note:          input.Note,
	}
	next, err := draft.Apply(current, change, s.now().UTC())
	if err != nil {
		return draft.State{}, err
	}

	// Any transition landing on owned grows or reprices the owned set;
	// check the ledger before the write so a rejected change leaves the
	// row untouched. The target row is excluded from the owned set so a
	// cost edit is validated against the rest of the squad.
	if next.Status == draft.StatusOwned {
		owned, err := s.ownedPlayers(ctx, input.UserID, input.LeagueID, input.PlayerID)
		if err != nil {
			return draft.State{}, err
		}
		candidate := budget.OwnedPlayer{
			PlayerID: player.ID,
			Cost:     next.Cost,
			Roles:    player.Roles,
		}
		if err := budget.CheckAcquisition(lg, owned, candidate); err != nil {
			return draft.State{}, err
		}
	}

	if err := s.draftRepo.Upsert(ctx, next); err != nil {
		return draft.State{}, fmt.Errorf("upsert draft state: %w", err)
	}
	s.invalidateBudget(ctx, input.UserID, input.LeagueID)

	s.logger.InfoContext(ctx, "draft state transitioned",
		"league_id", input.LeagueID,
		"player_id", input.PlayerID,
		"status", string(next.Status),
	)

	return next, nil
}

// ResetState restores one row to its lazy default, keeping only the tier.
func (s *DraftService) ResetState(ctx context.Context, userID, leagueID, playerID string) (draft.State, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.ResetState")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return draft.State{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if _, _, err := s.guard.RequireMember(ctx, userID, leagueID); err != nil {
		return draft.State{}, err
	}

	current, exists, err := s.draftRepo.Get(ctx, userID, leagueID, playerID)
	if err != nil {
		return draft.State{}, fmt.Errorf("get draft state: %w", err)
	}
	if !exists {
		return draft.State{}, fmt.Errorf("%w: draft state for player=%s", ErrNotFound, playerID)
	}

	next := draft.Reset(current, s.now().UTC())
	if err := s.draftRepo.Upsert(ctx, next); err != nil {
		return draft.State{}, fmt.Errorf("upsert draft state: %w", err)
	}
	s.invalidateBudget(ctx, userID, leagueID)

	return next, nil
}

// GetBudgetSummary derives the caller's spent/remaining view from owned
// rows. The projection is cached briefly and invalidated on every write.
func (s *DraftService) GetBudgetSummary(ctx context.Context, userID, leagueID string) (budget.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.GetBudgetSummary")
	defer span.End()

	lg, _, err := s.guard.RequireMember(ctx, userID, leagueID)
	if err != nil {
		return budget.Summary{}, err
	}

	value, err := s.budgetCache.GetOrLoad(ctx, budgetCacheKey(userID, leagueID), func(ctx context.Context) (any, error) {
		owned, err := s.ownedPlayers(ctx, userID, leagueID, "")
		if err != nil {
			return nil, err
		}
		return budget.Summarize(lg, owned), nil
	})
	if err != nil {
		return budget.Summary{}, err
	}

	summary, ok := value.(budget.Summary)
	if !ok {
		return budget.Summary{}, fmt.Errorf("unexpected budget cache entry type %T", value)
	}

	return summary, nil
}

// ownedPlayers loads the member's owned set joined with catalog role tags,
// excluding excludePlayerID when re-checking an acquisition of that player.
func (s *DraftService) ownedPlayers(ctx context.Context, userID, leagueID, excludePlayerID string) ([]budget.OwnedPlayer, error) {
	states, err := s.draftRepo.ListOwned(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list owned draft states: %w", err)
	}

	ids := make([]string, 0, len(states))
	for _, st := range states {
		if st.PlayerID == excludePlayerID {
			continue
		}
		ids = append(ids, st.PlayerID)
	}

	players, err := s.catalogRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get catalog players: %w", err)
	}
	rolesByID := make(map[string][]roles.Role, len(players))
	for _, p := range players {
		rolesByID[p.ID] = p.Roles
	}

	owned := make([]budget.OwnedPlayer, 0, len(ids))
	for _, st := range states {
		if st.PlayerID == excludePlayerID {
			continue
		}
		owned = append(owned, budget.OwnedPlayer{
			PlayerID: st.PlayerID,
			Cost:     st.Cost,
			Roles:    rolesByID[st.PlayerID],
		})
	}

	return owned, nil
}

func (s *DraftService) invalidateBudget(ctx context.Context, userID, leagueID string) {
	s.budgetCache.Delete(ctx, budgetCacheKey(userID, leagueID))
}

// Budget cache keys are league-first so league-wide writes (settings
// updates, deletes) can drop every member's projection in one prefix sweep.
func budgetCacheKey(userID, leagueID string) string {
	return budgetCachePrefix(leagueID) + userID
}

func budgetCachePrefix(leagueID string) string {
	return "budget:" + leagueID + ":"
}
