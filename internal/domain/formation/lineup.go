package formation

import (
	"errors"
	"fmt"
	"time"

	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

var (
	// ErrIncompatibleRole rejects a starter whose tags miss the position's
	// allowed-role set.
	ErrIncompatibleRole = errors.New("player role incompatible with position")
	ErrUnknownPosition  = errors.New("unknown position code")
	ErrBenchFull        = errors.New("bench is full")
	ErrUnknownSchema    = errors.New("unknown formation schema")
)

// Lineup maps a schema's positions to owned players plus an ordered bench,
// scoped to (member, league, schema). At most one lineup per (member,
// league) is active.
type Lineup struct {
	UserID     string
	LeagueID   string
	SchemaName string
	// Starters is a partial map position code -> player id.
	Starters  map[string]string
	Bench     []string
	Active    bool
	UpdatedAt time.Time
}

// Build validates and normalizes a full lineup submission against the
// schema. A player holds at most one assignment: bench wins over a starter
// slot, and a player named in two starter slots keeps only the later one in
// schema position order.
func Build(schema Schema, starters map[string]string, bench []string, tagsByPlayer map[string][]roles.Role, maxBench int) (map[string]string, []string, error) {
	benched := make(map[string]struct{}, len(bench))
	normalizedBench := make([]string, 0, len(bench))
	for _, playerID := range bench {
		if playerID == "" {
			continue
		}
		if _, dup := benched[playerID]; dup {
			continue
		}
		if maxBench >= 0 && len(normalizedBench) >= maxBench {
			return nil, nil, fmt.Errorf("%w: at most %d players", ErrBenchFull, maxBench)
		}
		if _, known := tagsByPlayer[playerID]; !known {
			return nil, nil, fmt.Errorf("bench player %s is not owned", playerID)
		}
		benched[playerID] = struct{}{}
		normalizedBench = append(normalizedBench, playerID)
	}

	// Walk positions in schema order so a duplicated starter deterministically
	// keeps the later slot.
	slotByPlayer := make(map[string]string, len(starters))
	for _, position := range schema.Positions {
		playerID, ok := starters[position.Code]
		if !ok || playerID == "" {
			continue
		}

		tags, known := tagsByPlayer[playerID]
		if !known {
			return nil, nil, fmt.Errorf("starter %s is not owned", playerID)
		}
		if !roles.Intersects(tags, position.Allowed) {
			return nil, nil, fmt.Errorf("%w: player %s cannot fill %s", ErrIncompatibleRole, playerID, position.Code)
		}
		if _, onBench := benched[playerID]; onBench {
			// Bench assignment wins; the starter slot stays empty.
			continue
		}
		slotByPlayer[playerID] = position.Code
	}

	for code := range starters {
		if _, ok := schema.position(code); !ok && starters[code] != "" {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownPosition, code)
		}
	}

	normalizedStarters := make(map[string]string, len(slotByPlayer))
	for playerID, code := range slotByPlayer {
		normalizedStarters[code] = playerID
	}

	return normalizedStarters, normalizedBench, nil
}

// Equal reports whether two lineups carry identical assignments; saving an
// identical lineup is a no-op.
func (l Lineup) Equal(other Lineup) bool {
	if l.SchemaName != other.SchemaName || len(l.Starters) != len(other.Starters) || len(l.Bench) != len(other.Bench) {
		return false
	}
	for code, playerID := range l.Starters {
		if other.Starters[code] != playerID {
			return false
		}
	}
	for i, playerID := range l.Bench {
		if other.Bench[i] != playerID {
			return false
		}
	}
	return true
}
