package league

import (
	"fmt"
	"time"

	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

// Status tracks whether a league still accepts edits.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// MemberRole separates the league owner from regular members.
type MemberRole string

const (
	RoleMaster MemberRole = "master"
	RoleMember MemberRole = "member"
)

// League is an isolated draft context shared by its members. The join code
// is unique and immutable after creation.
type League struct {
	ID                  string
	Name                string
	JoinCode            string
	OwnerID             string
	Mode                roles.GameMode
	Season              string
	Budget              int64
	MaxPlayersPerTeam   int
	MaxMembers          int
	AllowNegativeBudget bool
	RoleCaps            map[roles.Role]int
	Status              Status
	CreatedAt           time.Time
}

// DefaultRoleCaps is the stock Classic squad shape for a 25-player roster.
func DefaultRoleCaps() map[roles.Role]int {
	return map[roles.Role]int{
		roles.ClassicGoalkeeper: 3,
		roles.ClassicDefender:   8,
		roles.ClassicMidfielder: 8,
		roles.ClassicForward:    6,
	}
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.JoinCode == "" {
		return fmt.Errorf("league join code is required")
	}
	if l.OwnerID == "" {
		return fmt.Errorf("league owner id is required")
	}
	if l.Mode != roles.ModeClassic && l.Mode != roles.ModeMantra {
		return fmt.Errorf("invalid league mode: %s", l.Mode)
	}
	if l.Budget <= 0 {
		return fmt.Errorf("league budget must be greater than zero")
	}
	if l.MaxPlayersPerTeam <= 0 {
		return fmt.Errorf("league max players per team must be greater than zero")
	}
	if l.MaxMembers <= 0 {
		return fmt.Errorf("league max members must be greater than zero")
	}
	if l.Status != StatusActive && l.Status != StatusClosed {
		return fmt.Errorf("invalid league status: %s", l.Status)
	}

	return l.ValidateRoleCaps()
}

// ValidateRoleCaps is the configuration-time check: Classic leagues may not
// configure role caps whose sum exceeds the squad size. Per-write checks
// happen in the budget rules, not here.
func (l League) ValidateRoleCaps() error {
	if l.Mode != roles.ModeClassic {
		return nil
	}
	if len(l.RoleCaps) == 0 {
		return nil
	}

	total := 0
	for role, max := range l.RoleCaps {
		if _, ok := roles.ClassicRoles[role]; !ok {
			return fmt.Errorf("role cap for non-classic role %s", role)
		}
		if max < 0 {
			return fmt.Errorf("role cap for %s cannot be negative", role)
		}
		total += max
	}
	if total > l.MaxPlayersPerTeam {
		return fmt.Errorf("role caps sum %d exceeds max players per team %d", total, l.MaxPlayersPerTeam)
	}

	return nil
}

// Membership ties a user to a league. Exactly one master per league: the
// owner. Derived budget/roster numbers are read-side projections, never
// fields here.
type Membership struct {
	LeagueID string
	UserID   string
	Role     MemberRole
	JoinedAt time.Time
}

func (m Membership) Validate() error {
	if m.LeagueID == "" {
		return fmt.Errorf("membership league id is required")
	}
	if m.UserID == "" {
		return fmt.Errorf("membership user id is required")
	}
	if m.Role != RoleMaster && m.Role != RoleMember {
		return fmt.Errorf("invalid membership role: %s", m.Role)
	}

	return nil
}

func (m Membership) IsMaster() bool {
	return m.Role == RoleMaster
}
