package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/draft"
	"github.com/fantasta-tools/asta-ledger/internal/infrastructure/repository/memory"
)

func TestImportService_ImportCatalogBatch_AutoPrune(t *testing.T) {
	env := newTestEnv()

	result, err := env.imports.ImportCatalogBatch(t.Context(), ImportInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		Mode:     "auto+prune",
		Rows: []ImportRow{
			{Name: "Retegui", Team: "Atalanta", Roles: "A", Price: 30, ValueScore: 25},
			{Name: "Krstovic", Team: "Lecce", Roles: "A", Price: 12, ValueScore: 15},
			{Name: "Terzino Ignoto", Team: "Lecce", Roles: "A", Price: 1, ValueScore: 1},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Created != 3 || result.Updated != 0 || len(result.RowErrors) != 0 {
		t.Fatalf("result = %+v", result)
	}

	entries, err := env.drafts.ListDraftStates(t.Context(), memory.SeedUserID, memory.SeedLeagueID, DraftFilters{Status: "removed"})
	if err != nil {
		t.Fatalf("list removed failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Player.Name != "Terzino Ignoto" {
		t.Fatalf("expected the score-1 row to be pruned, got %+v", entries)
	}

	// A 2-sample distribution is below the percentile floor, so both
	// survivors land in Jolly.
	for _, name := range []string{"Retegui", "Krstovic"} {
		entry := findEntry(t, env, name)
		if entry.State.Tier != "Jolly" {
			t.Fatalf("%s tier = %q, want Jolly", name, entry.State.Tier)
		}
	}
}

func TestImportService_ImportCatalogBatch_RowErrorsDoNotAbort(t *testing.T) {
	env := newTestEnv()

	result, err := env.imports.ImportCatalogBatch(t.Context(), ImportInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		Mode:     "flat",
		Rows: []ImportRow{
			{Name: "", Team: "Roma", Roles: "A", Price: 10, ValueScore: 20},
			{Name: "Soulé", Team: "Roma", Roles: "Zz", Price: 10, ValueScore: 20},
			{Name: "Dybala", Team: "Roma", Roles: "A", Price: 25, ValueScore: 60},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Created != 1 || result.Skipped != 2 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.RowErrors) != 2 || result.RowErrors[0].Index != 0 || result.RowErrors[1].Index != 1 {
		t.Fatalf("row errors = %+v", result.RowErrors)
	}

	entry := findEntry(t, env, "Dybala")
	if entry.State.Tier != "Non inseriti" {
		t.Fatalf("flat mode tier = %q", entry.State.Tier)
	}
}

func TestImportService_ReimportIsDedupSafe(t *testing.T) {
	env := newTestEnv()

	rows := []ImportRow{
		{Name: "Retegui", Team: "Atalanta", Roles: "A", Price: 30, ValueScore: 25},
		{Name: "Krstovic", Team: "Lecce", Roles: "A", Price: 12, ValueScore: 15},
	}

	first, err := env.imports.ImportCatalogBatch(t.Context(), ImportInput{
		UserID: memory.SeedUserID, LeagueID: memory.SeedLeagueID, Mode: "auto", Rows: rows,
	})
	if err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	second, err := env.imports.ImportCatalogBatch(t.Context(), ImportInput{
		UserID: memory.SeedUserID, LeagueID: memory.SeedLeagueID, Mode: "auto", Rows: rows,
	})
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	if first.Created != 2 || second.Created != 0 || second.Updated != 2 {
		t.Fatalf("first = %+v, second = %+v", first, second)
	}

	players, err := env.catalogRepo.List(t.Context(), memory.SeedSeason)
	if err != nil {
		t.Fatalf("list catalog failed: %v", err)
	}
	count := 0
	for _, p := range players {
		if p.Name == "Retegui" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one Retegui row, got %d", count)
	}
}

func TestImportService_NeverOverwritesCustomizedState(t *testing.T) {
	env := newTestEnv()

	rows := []ImportRow{
		{Name: "Retegui", Team: "Atalanta", Roles: "A", Price: 30, ValueScore: 25},
	}
	if _, err := env.imports.ImportCatalogBatch(t.Context(), ImportInput{
		UserID: memory.SeedUserID, LeagueID: memory.SeedLeagueID, Mode: "auto", Rows: rows,
	}); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	entry := findEntry(t, env, "Retegui")
	cost := int64(30)
	if _, err := env.drafts.TransitionStatus(t.Context(), TransitionInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		PlayerID: entry.Player.ID,
		Status:   "owned",
		Cost:     &cost,
	}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	result, err := env.imports.ImportCatalogBatch(t.Context(), ImportInput{
		UserID: memory.SeedUserID, LeagueID: memory.SeedLeagueID, Mode: "auto+prune", Rows: rows,
	})
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected customized row to be skipped, result = %+v", result)
	}

	state, exists, err := env.draftRepo.Get(t.Context(), memory.SeedUserID, memory.SeedLeagueID, entry.Player.ID)
	if err != nil || !exists {
		t.Fatalf("get state failed: exists=%v err=%v", exists, err)
	}
	if state.Status != draft.StatusOwned || state.Cost != 30 {
		t.Fatalf("customized state was overwritten: %+v", state)
	}
}

func TestImportService_RejectsUnknownMode(t *testing.T) {
	env := newTestEnv()

	_, err := env.imports.ImportCatalogBatch(t.Context(), ImportInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		Mode:     "percentile",
		Rows:     []ImportRow{{Name: "X", Team: "Y", Roles: "A", Price: 1, ValueScore: 2}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func findEntry(t *testing.T, env *testEnv, playerName string) DraftEntry {
	t.Helper()

	entries, err := env.drafts.ListDraftStates(t.Context(), memory.SeedUserID, memory.SeedLeagueID, DraftFilters{SearchText: playerName})
	if err != nil {
		t.Fatalf("list draft states failed: %v", err)
	}
	for _, e := range entries {
		if e.Player.Name == playerName {
			return e
		}
	}
	t.Fatalf("player %s not found in listing", playerName)
	return DraftEntry{}
}

// failingCatalogRepo rejects every batch upsert while counting how many
// chunks actually ran.
type failingCatalogRepo struct {
	catalog.Repository
	upserts atomic.Int32
}

func (r *failingCatalogRepo) UpsertBatch(_ context.Context, _ []catalog.Player) (catalog.UpsertResult, error) {
	r.upserts.Add(1)
	return catalog.UpsertResult{}, errors.New("catalog store down")
}

func TestImportService_FailedBatchDrainsAllChunks(t *testing.T) {
	env := newTestEnv()

	repo := &failingCatalogRepo{Repository: env.catalogRepo}
	imports := NewImportService(
		repo,
		env.draftRepo,
		NewLeagueGuard(env.leagueRepo, env.membershipRepo),
		&seqIDGenerator{prefix: "player"},
		discardLogger(),
	)

	rows := make([]ImportRow, 0, 450)
	for i := 0; i < cap(rows); i++ {
		rows = append(rows, ImportRow{
			Name:  fmt.Sprintf("Player %03d", i),
			Team:  fmt.Sprintf("Team %d", i%20),
			Roles: "A",
			Price: int64(i%60 + 1),
		})
	}

	_, err := imports.ImportCatalogBatch(t.Context(), ImportInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		Mode:     "auto",
		Rows:     rows,
	})
	if err == nil {
		t.Fatal("expected error when every chunk fails")
	}

	// 450 rows fan out over three chunks; the error must not surface
	// until every submitted chunk has finished.
	if got := repo.upserts.Load(); got != 3 {
		t.Fatalf("expected 3 completed chunk upserts, got %d", got)
	}
}
