package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/fantasta-tools/asta-ledger/internal/config"
	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/draft"
	"github.com/fantasta-tools/asta-ledger/internal/domain/formation"
	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/participant"
	"github.com/fantasta-tools/asta-ledger/internal/infrastructure/account/warden"
	"github.com/fantasta-tools/asta-ledger/internal/infrastructure/repository/memory"
	"github.com/fantasta-tools/asta-ledger/internal/infrastructure/repository/postgres"
	"github.com/fantasta-tools/asta-ledger/internal/interfaces/httpapi"
	"github.com/fantasta-tools/asta-ledger/internal/platform/cache"
	idgen "github.com/fantasta-tools/asta-ledger/internal/platform/id"
	"github.com/fantasta-tools/asta-ledger/internal/platform/logging"
	"github.com/fantasta-tools/asta-ledger/internal/platform/resilience"
	"github.com/fantasta-tools/asta-ledger/internal/usecase"
)

type repositories struct {
	leagues      league.Repository
	memberships  league.MembershipRepository
	reset        league.ResetRepository
	catalog      catalog.Repository
	draft        draft.Repository
	participants participant.Repository
	lineups      formation.Repository
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	guard := usecase.NewLeagueGuard(repos.leagues, repos.memberships)
	gen := idgen.NewRandomGenerator()

	budgetCacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		// a nanosecond TTL makes every read a recomputation
		budgetCacheTTL = time.Nanosecond
	}
	budgetCache := cache.NewStore(budgetCacheTTL)

	leagueSvc := usecase.NewLeagueService(
		repos.leagues,
		repos.memberships,
		repos.reset,
		repos.catalog,
		guard,
		budgetCache,
		gen,
		gen,
		logger,
	)
	draftSvc := usecase.NewDraftService(repos.catalog, repos.draft, guard, budgetCache, logger)
	importSvc := usecase.NewImportService(repos.catalog, repos.draft, guard, gen, logger)
	participantSvc := usecase.NewParticipantService(repos.participants, repos.catalog, guard, gen, logger)
	lineupSvc := usecase.NewLineupService(repos.lineups, repos.draft, repos.catalog, guard, logger)

	wardenClient := warden.NewClient(
		&http.Client{Timeout: cfg.WardenTimeout},
		cfg.WardenBaseURL,
		cfg.WardenIntrospectPath,
		cfg.WardenAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.WardenCircuitEnabled,
			FailureThreshold: cfg.WardenCircuitFailureCount,
			OpenTimeout:      cfg.WardenCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WardenCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(leagueSvc, draftSvc, importSvc, participantSvc, lineupSvc, logging.Default())
	router := httpapi.NewRouter(handler, wardenClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories picks the backing stores: postgres when DB_URL is set,
// seeded in-memory stores otherwise.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")

		leagues := memory.NewLeagueRepository(memory.SeedLeagues())
		memberships := memory.NewMembershipRepository(memory.SeedMemberships())
		catalogRepo := memory.NewCatalogRepository(memory.SeedCatalog())
		draftRepo := memory.NewDraftRepository()
		participants := memory.NewParticipantRepository()
		lineups := memory.NewLineupRepository()
		catalogRepo.AddReferencer(draftRepo)
		catalogRepo.AddReferencer(participants)

		return repositories{
			leagues:      leagues,
			memberships:  memberships,
			reset:        memory.NewResetRepository(draftRepo, participants, lineups),
			catalog:      catalogRepo,
			draft:        draftRepo,
			participants: participants,
			lineups:      lineups,
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("using postgres repositories", "database", dbNameFromURL(cfg.DBURL))

	return repositories{
		leagues:      postgres.NewLeagueRepository(db),
		memberships:  postgres.NewMembershipRepository(db),
		reset:        postgres.NewResetRepository(db),
		catalog:      postgres.NewCatalogRepository(db),
		draft:        postgres.NewDraftRepository(db),
		participants: postgres.NewParticipantRepository(db),
		lineups:      postgres.NewLineupRepository(db),
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
