package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/draft"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
	"github.com/fantasta-tools/asta-ledger/internal/domain/tiering"
	idgen "github.com/fantasta-tools/asta-ledger/internal/platform/id"
)

const (
	importChunkSize   = 200
	importWorkerCount = 4
)

// ImportRow is one already-parsed catalog line. Role tags arrive
// semicolon-delimited, e.g. "Dd;Dc".
type ImportRow struct {
	Name       string
	Team       string
	Roles      string
	Price      int64
	ValueScore int
}

// ImportRowError reports one rejected row by its input index; the rest of
// the batch proceeds.
type ImportRowError struct {
	Index   int
	Message string
}

// ImportInput carries a whole catalog batch plus the tiering mode.
type ImportInput struct {
	UserID   string
	LeagueID string
	Mode     string
	Rows     []ImportRow
}

// ImportResult aggregates what the batch did.
type ImportResult struct {
	Created   int
	Updated   int
	Skipped   int
	RowErrors []ImportRowError
}

type ImportService struct {
	catalogRepo catalog.Repository
	draftRepo   draft.Repository
	guard       *LeagueGuard
	idGen       idgen.Generator
	logger      *slog.Logger
	now         func() time.Time
}

func NewImportService(
	catalogRepo catalog.Repository,
	draftRepo draft.Repository,
	guard *LeagueGuard,
	idGen idgen.Generator,
	logger *slog.Logger,
) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ImportService{
		catalogRepo: catalogRepo,
		draftRepo:   draftRepo,
		guard:       guard,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// ImportCatalogBatch validates, classifies and upserts one batch of catalog
// rows, then seeds the importing member's draft states with the computed
// tiers. Bad rows are reported per index and never abort the batch; a draft
// state the member already customized is left untouched.
func (s *ImportService) ImportCatalogBatch(ctx context.Context, input ImportInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ImportService.ImportCatalogBatch")
	defer span.End()

	lg, _, err := s.guard.RequireMember(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return ImportResult{}, err
	}

	mode, err := tiering.ParseMode(strings.TrimSpace(input.Mode))
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(input.Rows) == 0 {
		return ImportResult{}, fmt.Errorf("%w: rows are required", ErrInvalidInput)
	}

	result := ImportResult{}
	players := make([]catalog.Player, 0, len(input.Rows))
	for i, row := range input.Rows {
		player, err := s.buildPlayer(row, lg.Mode, lg.Season)
		if err != nil {
			result.RowErrors = append(result.RowErrors, ImportRowError{Index: i, Message: err.Error()})
			result.Skipped++
			continue
		}
		players = append(players, player)
	}
	if len(players) == 0 {
		return result, nil
	}

	classifications := tiering.Classify(players, mode)

	var created, updated, skipped atomic.Int64
	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	pool, err := ants.NewPool(importWorkerCount)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for start := 0; start < len(players); start += importChunkSize {
		end := start + importChunkSize
		if end > len(players) {
			end = len(players)
		}
		chunk := players[start:end]
		chunkResults := classifications[start:end]

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			c, u, sk, err := s.importChunk(ctx, input.UserID, input.LeagueID, chunk, chunkResults)
			if err != nil {
				fail(err)
				return
			}
			created.Add(int64(c))
			updated.Add(int64(u))
			skipped.Add(int64(sk))
		}); err != nil {
			workers.Done()
			fail(fmt.Errorf("submit chunk to worker pool: %w", err))
			break
		}
	}
	// Drain in-flight chunks before surfacing any failure so the caller
	// never observes a half-running import.
	workers.Wait()

	if firstErr != nil {
		return ImportResult{}, firstErr
	}

	result.Created = int(created.Load())
	result.Updated = int(updated.Load())
	result.Skipped += int(skipped.Load())

	s.logger.InfoContext(ctx, "catalog batch imported",
		"league_id", input.LeagueID,
		"mode", string(mode),
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"row_errors", len(result.RowErrors),
	)

	return result, nil
}

// importChunk upserts one slice of rows and seeds the member's draft states
// for them. Each chunk is one repository write so a failing chunk never
// half-applies.
func (s *ImportService) importChunk(ctx context.Context, userID, leagueID string, chunk []catalog.Player, classifications []tiering.Result) (created, updated, skipped int, err error) {
	upsert, err := s.catalogRepo.UpsertBatch(ctx, chunk)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("upsert catalog chunk: %w", err)
	}
	created = upsert.Created
	updated = upsert.Updated

	now := s.now().UTC()
	for i, player := range chunk {
		playerID, ok := upsert.IDByKey[player.Key()]
		if !ok {
			return 0, 0, 0, fmt.Errorf("missing stored id for catalog key %s", player.Key())
		}

		current, exists, err := s.draftRepo.Get(ctx, userID, leagueID, playerID)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("get draft state: %w", err)
		}
		if exists && !current.IsDefault() {
			skipped++
			continue
		}

		next := draft.NewState(userID, leagueID, playerID)
		next.Tier = string(classifications[i].Tier)
		next.UpdatedAt = now
		if classifications[i].Prune {
			next.Status = draft.StatusRemoved
			removedAt := now
			next.RemovedAt = &removedAt
		}

		if err := s.draftRepo.Upsert(ctx, next); err != nil {
			return 0, 0, 0, fmt.Errorf("upsert draft state: %w", err)
		}
	}

	return created, updated, skipped, nil
}

func (s *ImportService) buildPlayer(row ImportRow, mode roles.GameMode, season string) (catalog.Player, error) {
	row.Name = strings.TrimSpace(row.Name)
	row.Team = strings.TrimSpace(row.Team)

	if row.Name == "" {
		return catalog.Player{}, fmt.Errorf("player name is required")
	}
	if row.Team == "" {
		return catalog.Player{}, fmt.Errorf("player team is required")
	}
	if row.Price < 0 {
		return catalog.Player{}, fmt.Errorf("price cannot be negative")
	}
	if row.ValueScore < 0 {
		return catalog.Player{}, fmt.Errorf("value score cannot be negative")
	}

	tags, err := roles.ParseTags(row.Roles, mode)
	if err != nil {
		return catalog.Player{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return catalog.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	player := catalog.Player{
		ID:         id,
		Name:       row.Name,
		Team:       row.Team,
		Roles:      tags,
		Price:      row.Price,
		ValueScore: row.ValueScore,
		Season:     season,
	}
	if err := player.Validate(); err != nil {
		return catalog.Player{}, err
	}

	return player, nil
}
