package catalog

import (
	"fmt"
	"strings"

	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

// Player is one entry in the league-agnostic player registry. Identity is
// (name, team, season); rows are upserted on import and only removed by the
// orphan sweep.
type Player struct {
	ID         string
	Name       string
	Team       string
	Roles      []roles.Role
	Price      int64
	ValueScore int
	Season     string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("catalog player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("catalog player name is required")
	}
	if strings.TrimSpace(p.Team) == "" {
		return fmt.Errorf("catalog player team is required")
	}
	if strings.TrimSpace(p.Season) == "" {
		return fmt.Errorf("catalog player season is required")
	}
	if len(p.Roles) == 0 {
		return fmt.Errorf("catalog player role tags are required")
	}
	if p.Price < 0 {
		return fmt.Errorf("catalog player price cannot be negative")
	}
	if p.ValueScore < 0 {
		return fmt.Errorf("catalog player value score cannot be negative")
	}

	return nil
}

// Key is the dedup identity for upserts.
func (p Player) Key() string {
	return KeyOf(p.Name, p.Team, p.Season)
}

func KeyOf(name, team, season string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "::" +
		strings.ToLower(strings.TrimSpace(team)) + "::" +
		strings.TrimSpace(season)
}
