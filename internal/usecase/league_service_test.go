package usecase

import (
	"errors"
	"testing"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/infrastructure/repository/memory"
)

func TestLeagueService_CreateLeague_EnrolsMaster(t *testing.T) {
	env := newTestEnv()

	created, err := env.leagues.CreateLeague(t.Context(), CreateLeagueInput{
		OwnerID:           "user-1",
		Name:              "Lega Amici",
		Mode:              "classic",
		Season:            "2026-27",
		Budget:            500,
		MaxPlayersPerTeam: 25,
		MaxMembers:        8,
	})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}
	if created.JoinCode == "" {
		t.Fatal("expected a generated join code")
	}
	if created.Status != league.StatusActive {
		t.Fatalf("expected active status, got %s", created.Status)
	}
	if len(created.RoleCaps) == 0 {
		t.Fatal("expected default classic role caps")
	}

	membership, exists, err := env.membershipRepo.Get(t.Context(), created.ID, "user-1")
	if err != nil || !exists {
		t.Fatalf("expected master membership, exists=%v err=%v", exists, err)
	}
	if !membership.IsMaster() {
		t.Fatalf("expected master role, got %s", membership.Role)
	}
}

func TestLeagueService_CreateLeague_RejectsBadMode(t *testing.T) {
	env := newTestEnv()

	_, err := env.leagues.CreateLeague(t.Context(), CreateLeagueInput{
		OwnerID:           "user-1",
		Name:              "Lega Amici",
		Mode:              "dynasty",
		Season:            "2026-27",
		Budget:            500,
		MaxPlayersPerTeam: 25,
		MaxMembers:        8,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeagueService_JoinLeague(t *testing.T) {
	env := newTestEnv()

	joined, err := env.leagues.JoinLeague(t.Context(), "user-2", "demo2345")
	if err != nil {
		t.Fatalf("join league failed: %v", err)
	}
	if joined.ID != memory.SeedLeagueID {
		t.Fatalf("joined wrong league: %s", joined.ID)
	}

	if _, err = env.leagues.JoinLeague(t.Context(), "user-2", "DEMO2345"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on double join, got %v", err)
	}

	if _, err = env.leagues.JoinLeague(t.Context(), "user-3", "NOPE1234"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestLeagueService_UpdateSettings_MasterOnly(t *testing.T) {
	env := newTestEnv()
	if _, err := env.leagues.JoinLeague(t.Context(), "user-2", "DEMO2345"); err != nil {
		t.Fatalf("join league failed: %v", err)
	}

	budget := int64(650)
	_, err := env.leagues.UpdateSettings(t.Context(), UpdateLeagueSettingsInput{
		UserID:   "user-2",
		LeagueID: memory.SeedLeagueID,
		Budget:   &budget,
	})
	if !errors.Is(err, ErrNotMaster) {
		t.Fatalf("expected ErrNotMaster, got %v", err)
	}

	updated, err := env.leagues.UpdateSettings(t.Context(), UpdateLeagueSettingsInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		Budget:   &budget,
	})
	if err != nil {
		t.Fatalf("update settings failed: %v", err)
	}
	if updated.Budget != 650 {
		t.Fatalf("budget = %d, want 650", updated.Budget)
	}
}

func TestLeagueService_UpdateSettings_RejectsOversizedRoleCaps(t *testing.T) {
	env := newTestEnv()

	_, err := env.leagues.UpdateSettings(t.Context(), UpdateLeagueSettingsInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		RoleCaps: map[string]int{"P": 10, "D": 10, "C": 10, "A": 10},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeagueService_LeaveLeague_ClearsMemberData(t *testing.T) {
	env := newTestEnv()
	if _, err := env.leagues.JoinLeague(t.Context(), "user-2", "DEMO2345"); err != nil {
		t.Fatalf("join league failed: %v", err)
	}

	cost := int64(40)
	if _, err := env.drafts.TransitionStatus(t.Context(), TransitionInput{
		UserID:   "user-2",
		LeagueID: memory.SeedLeagueID,
		PlayerID: "seed-fw-01",
		Status:   "owned",
		Cost:     &cost,
	}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if err := env.leagues.LeaveLeague(t.Context(), "user-2", memory.SeedLeagueID); err != nil {
		t.Fatalf("leave league failed: %v", err)
	}

	if _, exists, _ := env.membershipRepo.Get(t.Context(), memory.SeedLeagueID, "user-2"); exists {
		t.Fatal("expected membership to be gone")
	}
	states, err := env.draftRepo.ListByUserAndLeague(t.Context(), "user-2", memory.SeedLeagueID)
	if err != nil {
		t.Fatalf("list draft states failed: %v", err)
	}
	if len(states) != 0 {
		t.Fatalf("expected no draft states left, got %d", len(states))
	}
}

func TestLeagueService_LeaveLeague_MasterCannotLeave(t *testing.T) {
	env := newTestEnv()

	err := env.leagues.LeaveLeague(t.Context(), memory.SeedUserID, memory.SeedLeagueID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLeagueService_ResetMyData_KeepsMembership(t *testing.T) {
	env := newTestEnv()

	cost := int64(30)
	if _, err := env.drafts.TransitionStatus(t.Context(), TransitionInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		PlayerID: "seed-mf-01",
		Status:   "owned",
		Cost:     &cost,
	}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if err := env.leagues.ResetMyData(t.Context(), memory.SeedUserID, memory.SeedLeagueID); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, exists, _ := env.membershipRepo.Get(t.Context(), memory.SeedLeagueID, memory.SeedUserID); !exists {
		t.Fatal("expected membership to survive the reset")
	}
	states, _ := env.draftRepo.ListByUserAndLeague(t.Context(), memory.SeedUserID, memory.SeedLeagueID)
	if len(states) != 0 {
		t.Fatalf("expected no draft states after reset, got %d", len(states))
	}
}

func TestLeagueService_DeleteLeague_PurgesEverything(t *testing.T) {
	env := newTestEnv()
	if _, err := env.leagues.JoinLeague(t.Context(), "user-2", "DEMO2345"); err != nil {
		t.Fatalf("join league failed: %v", err)
	}

	if err := env.leagues.DeleteLeague(t.Context(), memory.SeedUserID, memory.SeedLeagueID); err != nil {
		t.Fatalf("delete league failed: %v", err)
	}

	if _, exists, _ := env.leagueRepo.GetByID(t.Context(), memory.SeedLeagueID); exists {
		t.Fatal("expected league to be deleted")
	}
	members, _ := env.membershipRepo.ListByLeague(t.Context(), memory.SeedLeagueID)
	if len(members) != 0 {
		t.Fatalf("expected no memberships left, got %d", len(members))
	}
}

func TestLeagueService_CloseLeague_BlocksJoins(t *testing.T) {
	env := newTestEnv()

	closed, err := env.leagues.CloseLeague(t.Context(), memory.SeedUserID, memory.SeedLeagueID)
	if err != nil {
		t.Fatalf("close league failed: %v", err)
	}
	if closed.Status != league.StatusClosed {
		t.Fatalf("status = %s, want closed", closed.Status)
	}

	if _, err := env.leagues.JoinLeague(t.Context(), "user-2", "DEMO2345"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict joining a closed league, got %v", err)
	}
}

func TestLeagueService_UpdateSettings_RefreshesBudgetSummaries(t *testing.T) {
	env := newTestEnv()

	cost := int64(100)
	if _, err := env.drafts.TransitionStatus(t.Context(), TransitionInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		PlayerID: "seed-fw-01",
		Status:   "owned",
		Cost:     &cost,
	}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	before, err := env.drafts.GetBudgetSummary(t.Context(), memory.SeedUserID, memory.SeedLeagueID)
	if err != nil {
		t.Fatalf("get budget summary: %v", err)
	}
	if before.Total != 500 || before.Remaining != 400 {
		t.Fatalf("unexpected summary before update: %+v", before)
	}

	// A budget change must not be masked by the cached projection.
	budget := int64(800)
	if _, err := env.leagues.UpdateSettings(t.Context(), UpdateLeagueSettingsInput{
		UserID:   memory.SeedUserID,
		LeagueID: memory.SeedLeagueID,
		Budget:   &budget,
	}); err != nil {
		t.Fatalf("update settings failed: %v", err)
	}

	after, err := env.drafts.GetBudgetSummary(t.Context(), memory.SeedUserID, memory.SeedLeagueID)
	if err != nil {
		t.Fatalf("get budget summary: %v", err)
	}
	if after.Total != 800 || after.Remaining != 700 {
		t.Fatalf("summary still stale after settings update: %+v", after)
	}
}
