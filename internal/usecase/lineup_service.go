package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/draft"
	"github.com/fantasta-tools/asta-ledger/internal/domain/formation"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

const startersPerLineup = 11

// SaveLineupInput is one full lineup submission for a schema.
type SaveLineupInput struct {
	UserID     string
	LeagueID   string
	SchemaName string
	// Starters maps position code -> player id.
	Starters map[string]string
	Bench    []string
	Activate bool
}

type LineupService struct {
	lineupRepo  formation.Repository
	draftRepo   draft.Repository
	catalogRepo catalog.Repository
	guard       *LeagueGuard
	logger      *slog.Logger
	now         func() time.Time
}

func NewLineupService(
	lineupRepo formation.Repository,
	draftRepo draft.Repository,
	catalogRepo catalog.Repository,
	guard *LeagueGuard,
	logger *slog.Logger,
) *LineupService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LineupService{
		lineupRepo:  lineupRepo,
		draftRepo:   draftRepo,
		catalogRepo: catalogRepo,
		guard:       guard,
		logger:      logger,
		now:         time.Now,
	}
}

// SaveLineup validates a lineup against the schema and the caller's owned
// squad, then persists it. Saving an identical lineup is a no-op; Activate
// flips this lineup active and deactivates the others.
func (s *LineupService) SaveLineup(ctx context.Context, input SaveLineupInput) (formation.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.SaveLineup")
	defer span.End()

	input.SchemaName = strings.TrimSpace(input.SchemaName)
	if input.SchemaName == "" {
		return formation.Lineup{}, fmt.Errorf("%w: schema name is required", ErrInvalidInput)
	}

	lg, _, err := s.guard.RequireMember(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return formation.Lineup{}, err
	}

	schema, ok := formation.SchemaByName(lg.Mode, input.SchemaName)
	if !ok {
		return formation.Lineup{}, fmt.Errorf("%w: schema %q for %s mode", formation.ErrUnknownSchema, input.SchemaName, lg.Mode)
	}

	tagsByPlayer, err := s.ownedTags(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return formation.Lineup{}, err
	}

	maxBench := lg.MaxPlayersPerTeam - startersPerLineup
	if maxBench < 0 {
		maxBench = 0
	}

	starters, bench, err := formation.Build(schema, input.Starters, input.Bench, tagsByPlayer, maxBench)
	if err != nil {
		return formation.Lineup{}, err
	}

	lineup := formation.Lineup{
		UserID:     strings.TrimSpace(input.UserID),
		LeagueID:   strings.TrimSpace(input.LeagueID),
		SchemaName: schema.Name,
		Starters:   starters,
		Bench:      bench,
		UpdatedAt:  s.now().UTC(),
	}

	existing, exists, err := s.lineupRepo.Get(ctx, lineup.UserID, lineup.LeagueID, schema.Name)
	if err != nil {
		return formation.Lineup{}, fmt.Errorf("get lineup: %w", err)
	}

	switch {
	case exists && existing.Equal(lineup):
		// Identical submission: keep the stored row, only the active flag
		// may still change below.
		lineup = existing
	case exists:
		lineup.Active = existing.Active
		fallthrough
	default:
		if err := s.lineupRepo.Upsert(ctx, lineup); err != nil {
			return formation.Lineup{}, fmt.Errorf("upsert lineup: %w", err)
		}
	}

	if input.Activate && !lineup.Active {
		if err := s.lineupRepo.Activate(ctx, lineup.UserID, lineup.LeagueID, schema.Name); err != nil {
			return formation.Lineup{}, fmt.Errorf("activate lineup: %w", err)
		}
		lineup.Active = true
	}

	s.logger.InfoContext(ctx, "lineup saved",
		"league_id", lineup.LeagueID,
		"schema", schema.Name,
		"active", lineup.Active,
	)

	return lineup, nil
}

// ListLineups returns every stored lineup of the caller in one league.
func (s *LineupService) ListLineups(ctx context.Context, userID, leagueID string) ([]formation.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.ListLineups")
	defer span.End()

	if _, _, err := s.guard.RequireMember(ctx, userID, leagueID); err != nil {
		return nil, err
	}

	lineups, err := s.lineupRepo.ListByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list lineups: %w", err)
	}

	return lineups, nil
}

// ListSchemas exposes the schema names the league's mode allows.
func (s *LineupService) ListSchemas(ctx context.Context, userID, leagueID string) ([]string, error) {
	lg, _, err := s.guard.RequireMember(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}
	return formation.SchemaNames(lg.Mode), nil
}

// ownedTags loads the role tags of every player the member currently owns;
// only those players are assignable to a lineup.
func (s *LineupService) ownedTags(ctx context.Context, userID, leagueID string) (map[string][]roles.Role, error) {
	states, err := s.draftRepo.ListOwned(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list owned draft states: %w", err)
	}

	ids := make([]string, len(states))
	for i, st := range states {
		ids[i] = st.PlayerID
	}

	players, err := s.catalogRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get catalog players: %w", err)
	}

	tags := make(map[string][]roles.Role, len(players))
	for _, p := range players {
		tags[p.ID] = p.Roles
	}

	return tags, nil
}
