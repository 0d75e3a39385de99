package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

type leagueTableModel struct {
	ID                  string    `db:"id"`
	Name                string    `db:"name"`
	JoinCode            string    `db:"join_code"`
	OwnerID             string    `db:"owner_id"`
	Mode                string    `db:"mode"`
	Season              string    `db:"season"`
	Budget              int64     `db:"budget"`
	MaxPlayersPerTeam   int       `db:"max_players_per_team"`
	MaxMembers          int       `db:"max_members"`
	AllowNegativeBudget bool      `db:"allow_negative_budget"`
	RoleCaps            []byte    `db:"role_caps"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
}

func leagueToRow(l league.League) (leagueTableModel, error) {
	var capsJSON []byte
	if len(l.RoleCaps) > 0 {
		caps := make(map[string]int, len(l.RoleCaps))
		for role, max := range l.RoleCaps {
			caps[string(role)] = max
		}
		var err error
		capsJSON, err = sonic.Marshal(caps)
		if err != nil {
			return leagueTableModel{}, fmt.Errorf("marshal role caps: %w", err)
		}
	}

	return leagueTableModel{
		ID:                  l.ID,
		Name:                l.Name,
		JoinCode:            l.JoinCode,
		OwnerID:             l.OwnerID,
		Mode:                string(l.Mode),
		Season:              l.Season,
		Budget:              l.Budget,
		MaxPlayersPerTeam:   l.MaxPlayersPerTeam,
		MaxMembers:          l.MaxMembers,
		AllowNegativeBudget: l.AllowNegativeBudget,
		RoleCaps:            capsJSON,
		Status:              string(l.Status),
		CreatedAt:           l.CreatedAt,
	}, nil
}

func leagueFromRow(row leagueTableModel) (league.League, error) {
	var roleCaps map[roles.Role]int
	if len(row.RoleCaps) > 0 {
		caps := make(map[string]int)
		if err := sonic.Unmarshal(row.RoleCaps, &caps); err != nil {
			return league.League{}, fmt.Errorf("unmarshal role caps: %w", err)
		}
		roleCaps = make(map[roles.Role]int, len(caps))
		for role, max := range caps {
			roleCaps[roles.Role(role)] = max
		}
	}

	return league.League{
		ID:                  row.ID,
		Name:                row.Name,
		JoinCode:            row.JoinCode,
		OwnerID:             row.OwnerID,
		Mode:                roles.GameMode(row.Mode),
		Season:              row.Season,
		Budget:              row.Budget,
		MaxPlayersPerTeam:   row.MaxPlayersPerTeam,
		MaxMembers:          row.MaxMembers,
		AllowNegativeBudget: row.AllowNegativeBudget,
		RoleCaps:            roleCaps,
		Status:              league.Status(row.Status),
		CreatedAt:           row.CreatedAt,
	}, nil
}

type membershipTableModel struct {
	LeagueID string    `db:"league_id"`
	UserID   string    `db:"user_id"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

func membershipFromRow(row membershipTableModel) league.Membership {
	return league.Membership{
		LeagueID: row.LeagueID,
		UserID:   row.UserID,
		Role:     league.MemberRole(row.Role),
		JoinedAt: row.JoinedAt,
	}
}
