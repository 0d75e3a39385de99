package usecase

import (
	"errors"
	"testing"

	"github.com/fantasta-tools/asta-ledger/internal/domain/participant"
	"github.com/fantasta-tools/asta-ledger/internal/infrastructure/repository/memory"
)

func TestParticipantService_CreateAndList(t *testing.T) {
	env := newTestEnv()

	created, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Marco", nil)
	if err != nil {
		t.Fatalf("create participant failed: %v", err)
	}
	if created.Budget != 500 {
		t.Fatalf("expected the league budget as default, got %d", created.Budget)
	}

	override := int64(300)
	if _, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Luca", &override); err != nil {
		t.Fatalf("create with override failed: %v", err)
	}

	views, err := env.participants.ListParticipants(t.Context(), memory.SeedUserID, memory.SeedLeagueID)
	if err != nil {
		t.Fatalf("list participants failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(views))
	}
	for _, v := range views {
		if v.Spent != 0 || v.Remaining != v.Participant.Budget {
			t.Fatalf("fresh view = %+v", v)
		}
	}
}

func TestParticipantService_DuplicateNameConflicts(t *testing.T) {
	env := newTestEnv()

	if _, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Marco", nil); err != nil {
		t.Fatalf("create participant failed: %v", err)
	}
	_, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "marco", nil)
	if !errors.Is(err, participant.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestParticipantService_AssignTracksBudget(t *testing.T) {
	env := newTestEnv()

	p, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Marco", nil)
	if err != nil {
		t.Fatalf("create participant failed: %v", err)
	}

	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID, "seed-fw-01", 120); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID, "seed-mf-01", 80); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	views, err := env.participants.ListParticipants(t.Context(), memory.SeedUserID, memory.SeedLeagueID)
	if err != nil {
		t.Fatalf("list participants failed: %v", err)
	}
	if views[0].Spent != 200 || views[0].Remaining != 300 || views[0].AssignedCount != 2 {
		t.Fatalf("view = %+v", views[0])
	}
}

func TestParticipantService_PlayerAssignedOnceAcrossParticipants(t *testing.T) {
	env := newTestEnv()

	first, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Marco", nil)
	if err != nil {
		t.Fatalf("create participant failed: %v", err)
	}
	second, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Luca", nil)
	if err != nil {
		t.Fatalf("create participant failed: %v", err)
	}

	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, first.ID, "seed-fw-01", 120); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	_, err = env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, second.ID, "seed-fw-01", 110)
	if !errors.Is(err, participant.ErrPlayerAlreadyAssigned) {
		t.Fatalf("expected ErrPlayerAlreadyAssigned, got %v", err)
	}
}

func TestParticipantService_UnassignFreesThePlayer(t *testing.T) {
	env := newTestEnv()

	p, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Marco", nil)
	if err != nil {
		t.Fatalf("create participant failed: %v", err)
	}
	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID, "seed-fw-01", 120); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := env.participants.UnassignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID, "seed-fw-01"); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}

	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID, "seed-fw-01", 100); err != nil {
		t.Fatalf("reassign after unassign failed: %v", err)
	}
}

func TestParticipantService_AssignValidatesTargets(t *testing.T) {
	env := newTestEnv()

	p, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Marco", nil)
	if err != nil {
		t.Fatalf("create participant failed: %v", err)
	}

	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "ghost", "seed-fw-01", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown participant, got %v", err)
	}
	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID, "ghost", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown player, got %v", err)
	}
	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID, "seed-fw-01", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero cost, got %v", err)
	}
}

func TestParticipantService_DeleteCascadesAssignments(t *testing.T) {
	env := newTestEnv()

	p, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Marco", nil)
	if err != nil {
		t.Fatalf("create participant failed: %v", err)
	}
	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID, "seed-fw-01", 120); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if err := env.participants.DeleteParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, p.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	other, err := env.participants.CreateParticipant(t.Context(), memory.SeedUserID, memory.SeedLeagueID, "Luca", nil)
	if err != nil {
		t.Fatalf("create participant failed: %v", err)
	}
	if _, err := env.participants.AssignPlayer(t.Context(), memory.SeedUserID, memory.SeedLeagueID, other.ID, "seed-fw-01", 90); err != nil {
		t.Fatalf("player should be free after cascade delete: %v", err)
	}
}
