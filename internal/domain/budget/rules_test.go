package budget

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

func classicLeague() league.League {
	return league.League{
		ID:                "league-1",
		Budget:            500,
		MaxPlayersPerTeam: 25,
		Mode:              roles.ModeClassic,
		RoleCaps:          league.DefaultRoleCaps(),
	}
}

func ownedForward(cost int64) OwnedPlayer {
	return OwnedPlayer{Cost: cost, Roles: []roles.Role{roles.ClassicForward}}
}

func TestCheckAcquisition_BudgetExceeded(t *testing.T) {
	lg := classicLeague()

	err := CheckAcquisition(lg, nil, ownedForward(600))
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}

	lg.AllowNegativeBudget = true
	if err := CheckAcquisition(lg, nil, ownedForward(600)); err != nil {
		t.Fatalf("negative budget league must accept overdraft: %v", err)
	}
}

func TestCheckAcquisition_SquadSizeCap(t *testing.T) {
	lg := classicLeague()
	lg.MaxPlayersPerTeam = 2
	lg.RoleCaps = nil

	owned := []OwnedPlayer{ownedForward(10), ownedForward(10)}
	err := CheckAcquisition(lg, owned, ownedForward(10))
	if !errors.Is(err, ErrRosterLimitExceeded) {
		t.Fatalf("expected ErrRosterLimitExceeded, got %v", err)
	}
}

func TestCheckAcquisition_ClassicRoleCap(t *testing.T) {
	lg := classicLeague()
	lg.RoleCaps = map[roles.Role]int{roles.ClassicForward: 1}

	owned := []OwnedPlayer{ownedForward(10)}
	err := CheckAcquisition(lg, owned, ownedForward(10))
	if !errors.Is(err, ErrRosterLimitExceeded) {
		t.Fatalf("expected role cap rejection, got %v", err)
	}

	// Mantra leagues ignore role caps entirely.
	lg.Mode = roles.ModeMantra
	mantra := OwnedPlayer{Cost: 10, Roles: []roles.Role{roles.MantraPc}}
	if err := CheckAcquisition(lg, []OwnedPlayer{mantra}, mantra); err != nil {
		t.Fatalf("mantra league must not apply classic caps: %v", err)
	}
}

func TestSummarize_MantraCountsEveryBucket(t *testing.T) {
	lg := classicLeague()
	lg.Mode = roles.ModeMantra

	owned := []OwnedPlayer{
		{Cost: 30, Roles: []roles.Role{roles.MantraW, roles.MantraT}},
		{Cost: 20, Roles: []roles.Role{roles.MantraPc}},
	}
	summary := Summarize(lg, owned)

	if summary.Spent != 50 || summary.Remaining != 450 || summary.OwnedCount != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.RoleDistribution[roles.MantraW] != 1 || summary.RoleDistribution[roles.MantraT] != 1 {
		t.Fatalf("mantra player must count toward every tag: %+v", summary.RoleDistribution)
	}
}

// Property: a sequence of accepted acquisitions never drives spending past
// the budget or the owned count past the squad size.
func TestCheckAcquisition_InvariantsOverRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	allRoles := []roles.Role{
		roles.ClassicGoalkeeper, roles.ClassicDefender,
		roles.ClassicMidfielder, roles.ClassicForward,
	}

	for trial := 0; trial < 50; trial++ {
		lg := classicLeague()
		lg.Budget = int64(100 + rng.Intn(400))
		lg.MaxPlayersPerTeam = 3 + rng.Intn(22)
		lg.RoleCaps = nil

		var owned []OwnedPlayer
		for step := 0; step < 60; step++ {
			candidate := OwnedPlayer{
				Cost:  int64(1 + rng.Intn(80)),
				Roles: []roles.Role{allRoles[rng.Intn(len(allRoles))]},
			}
			if err := CheckAcquisition(lg, owned, candidate); err == nil {
				owned = append(owned, candidate)
			}
		}

		summary := Summarize(lg, owned)
		if summary.Spent > lg.Budget {
			t.Fatalf("spent %d exceeds budget %d", summary.Spent, lg.Budget)
		}
		if summary.OwnedCount > lg.MaxPlayersPerTeam {
			t.Fatalf("owned %d exceeds squad size %d", summary.OwnedCount, lg.MaxPlayersPerTeam)
		}
	}
}
