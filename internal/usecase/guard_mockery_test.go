package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	leaguemock "github.com/fantasta-tools/asta-ledger/internal/mocks/domain/league"
)

func TestLeagueGuard_RequireMember_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	membershipRepo := leaguemock.NewMembershipRepository(t)

	guard := NewLeagueGuard(leagueRepo, membershipRepo)
	leagueID := "lg-serie-a-2026"
	userID := "user-7"

	leagueRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return(league.League{ID: leagueID, Name: "Serie A Keeper"}, true, nil).
		Once()
	membershipRepo.
		On("Get", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID, userID).
		Return(league.Membership{LeagueID: leagueID, UserID: userID, Role: league.RoleMember}, true, nil).
		Once()

	lg, membership, err := guard.RequireMember(ctx, userID, leagueID)
	if err != nil {
		t.Fatalf("require member: %v", err)
	}
	if lg.ID != leagueID {
		t.Fatalf("unexpected league id: got=%s want=%s", lg.ID, leagueID)
	}
	if membership.UserID != userID {
		t.Fatalf("unexpected member: got=%s want=%s", membership.UserID, userID)
	}
}

func TestLeagueGuard_RequireMember_LeagueNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	membershipRepo := leaguemock.NewMembershipRepository(t)

	guard := NewLeagueGuard(leagueRepo, membershipRepo)
	leagueID := "missing-league"

	leagueRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return(league.League{}, false, nil).
		Once()

	_, _, err := guard.RequireMember(ctx, "user-7", leagueID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeagueGuard_RequireMaster_RejectsRegularMemberUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	membershipRepo := leaguemock.NewMembershipRepository(t)

	guard := NewLeagueGuard(leagueRepo, membershipRepo)
	leagueID := "lg-serie-a-2026"
	userID := "user-7"

	leagueRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return(league.League{ID: leagueID}, true, nil).
		Once()
	membershipRepo.
		On("Get", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID, userID).
		Return(league.Membership{LeagueID: leagueID, UserID: userID, Role: league.RoleMember}, true, nil).
		Once()

	_, _, err := guard.RequireMaster(ctx, userID, leagueID)
	if !errors.Is(err, ErrNotMaster) {
		t.Fatalf("expected ErrNotMaster, got %v", err)
	}
}
