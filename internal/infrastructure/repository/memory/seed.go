package memory

import (
	"time"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

const (
	SeedLeagueID = "demo-classic-2026"
	SeedUserID   = "demo-master"
	SeedSeason   = "2026-27"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:                SeedLeagueID,
			Name:              "Lega Demo",
			JoinCode:          "DEMO2345",
			OwnerID:           SeedUserID,
			Mode:              roles.ModeClassic,
			Season:            SeedSeason,
			Budget:            500,
			MaxPlayersPerTeam: 25,
			MaxMembers:        10,
			RoleCaps:          league.DefaultRoleCaps(),
			Status:            league.StatusActive,
			CreatedAt:         time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedMemberships() []league.Membership {
	return []league.Membership{
		{
			LeagueID: SeedLeagueID,
			UserID:   SeedUserID,
			Role:     league.RoleMaster,
			JoinedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedCatalog() []catalog.Player {
	return []catalog.Player{
		{ID: "seed-gk-01", Name: "Maignan", Team: "Milan", Roles: []roles.Role{roles.ClassicGoalkeeper}, Price: 18, ValueScore: 75, Season: SeedSeason},
		{ID: "seed-gk-02", Name: "Sommer", Team: "Inter", Roles: []roles.Role{roles.ClassicGoalkeeper}, Price: 16, ValueScore: 70, Season: SeedSeason},
		{ID: "seed-df-01", Name: "Bastoni", Team: "Inter", Roles: []roles.Role{roles.ClassicDefender}, Price: 15, ValueScore: 60, Season: SeedSeason},
		{ID: "seed-df-02", Name: "Bremer", Team: "Juventus", Roles: []roles.Role{roles.ClassicDefender}, Price: 14, ValueScore: 55, Season: SeedSeason},
		{ID: "seed-df-03", Name: "Buongiorno", Team: "Napoli", Roles: []roles.Role{roles.ClassicDefender}, Price: 13, ValueScore: 50, Season: SeedSeason},
		{ID: "seed-mf-01", Name: "Barella", Team: "Inter", Roles: []roles.Role{roles.ClassicMidfielder}, Price: 22, ValueScore: 80, Season: SeedSeason},
		{ID: "seed-mf-02", Name: "Pulisic", Team: "Milan", Roles: []roles.Role{roles.ClassicMidfielder}, Price: 25, ValueScore: 90, Season: SeedSeason},
		{ID: "seed-mf-03", Name: "Koopmeiners", Team: "Juventus", Roles: []roles.Role{roles.ClassicMidfielder}, Price: 20, ValueScore: 72, Season: SeedSeason},
		{ID: "seed-fw-01", Name: "Lautaro Martinez", Team: "Inter", Roles: []roles.Role{roles.ClassicForward}, Price: 40, ValueScore: 98, Season: SeedSeason},
		{ID: "seed-fw-02", Name: "Vlahovic", Team: "Juventus", Roles: []roles.Role{roles.ClassicForward}, Price: 32, ValueScore: 85, Season: SeedSeason},
		{ID: "seed-fw-03", Name: "Leao", Team: "Milan", Roles: []roles.Role{roles.ClassicForward}, Price: 30, ValueScore: 82, Season: SeedSeason},
		{ID: "seed-fw-04", Name: "Lukaku", Team: "Napoli", Roles: []roles.Role{roles.ClassicForward}, Price: 28, ValueScore: 78, Season: SeedSeason},
	}
}
