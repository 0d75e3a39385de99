package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
	"github.com/fantasta-tools/asta-ledger/internal/infrastructure/repository/memory"
	"github.com/fantasta-tools/asta-ledger/internal/platform/cache"
)

type seqIDGenerator struct {
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n), nil
}

type seqJoinCodeGenerator struct {
	n int
}

func (g *seqJoinCodeGenerator) NewJoinCode() (string, error) {
	g.n++
	return fmt.Sprintf("CODE%04d", g.n), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires every service against shared memory repositories, the way
// the app container does, so cross-service effects (resets, orphan sweeps)
// are observable in tests.
type testEnv struct {
	leagueRepo      *memory.LeagueRepository
	membershipRepo  *memory.MembershipRepository
	catalogRepo     *memory.CatalogRepository
	draftRepo       *memory.DraftRepository
	participantRepo *memory.ParticipantRepository
	lineupRepo      *memory.LineupRepository

	leagues      *LeagueService
	drafts       *DraftService
	imports      *ImportService
	participants *ParticipantService
	lineups      *LineupService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		leagueRepo:      memory.NewLeagueRepository(memory.SeedLeagues()),
		membershipRepo:  memory.NewMembershipRepository(memory.SeedMemberships()),
		catalogRepo:     memory.NewCatalogRepository(memory.SeedCatalog()),
		draftRepo:       memory.NewDraftRepository(),
		participantRepo: memory.NewParticipantRepository(),
		lineupRepo:      memory.NewLineupRepository(),
	}
	env.catalogRepo.AddReferencer(env.draftRepo)
	env.catalogRepo.AddReferencer(env.participantRepo)

	guard := NewLeagueGuard(env.leagueRepo, env.membershipRepo)
	resetRepo := memory.NewResetRepository(env.draftRepo, env.participantRepo, env.lineupRepo)
	budgetCache := cache.NewStore(time.Minute)
	logger := discardLogger()

	env.leagues = NewLeagueService(
		env.leagueRepo,
		env.membershipRepo,
		resetRepo,
		env.catalogRepo,
		guard,
		budgetCache,
		&seqIDGenerator{prefix: "league"},
		&seqJoinCodeGenerator{},
		logger,
	)
	env.drafts = NewDraftService(env.catalogRepo, env.draftRepo, guard, budgetCache, logger)
	env.imports = NewImportService(env.catalogRepo, env.draftRepo, guard, &seqIDGenerator{prefix: "player"}, logger)
	env.participants = NewParticipantService(env.participantRepo, env.catalogRepo, guard, &seqIDGenerator{prefix: "participant"}, logger)
	env.lineups = NewLineupService(env.lineupRepo, env.draftRepo, env.catalogRepo, guard, logger)

	return env
}

func mantraLeague() league.League {
	return league.League{
		ID:                "mantra-league",
		Name:              "Lega Mantra",
		JoinCode:          "MANTRA23",
		OwnerID:           memory.SeedUserID,
		Mode:              roles.ModeMantra,
		Season:            memory.SeedSeason,
		Budget:            500,
		MaxPlayersPerTeam: 25,
		MaxMembers:        10,
		Status:            league.StatusActive,
		CreatedAt:         time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}
