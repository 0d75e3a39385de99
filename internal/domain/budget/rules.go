package budget

import (
	"errors"
	"fmt"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

var (
	ErrBudgetExceeded      = errors.New("budget exceeded")
	ErrRosterLimitExceeded = errors.New("roster limit exceeded")
)

// OwnedPlayer is the slice of an owned draft state the ledger needs: what it
// cost and which role buckets it counts toward.
type OwnedPlayer struct {
	PlayerID string
	Cost     int64
	Roles    []roles.Role
}

// Summary is the derived budget view for one member in one league. It is
// recomputed from owned rows at query time and never stored.
type Summary struct {
	Total            int64
	Spent            int64
	Remaining        int64
	OwnedCount       int
	RoleDistribution map[roles.Role]int
}

// Summarize derives the full budget view from the owned set.
func Summarize(lg league.League, owned []OwnedPlayer) Summary {
	var spent int64
	distribution := make(map[roles.Role]int)
	for _, p := range owned {
		spent += p.Cost
		for _, bucket := range roles.Buckets(p.Roles, lg.Mode) {
			distribution[bucket]++
		}
	}

	return Summary{
		Total:            lg.Budget,
		Spent:            spent,
		Remaining:        lg.Budget - spent,
		OwnedCount:       len(owned),
		RoleDistribution: distribution,
	}
}

// CheckAcquisition validates buying one more player against the soft budget
// invariant and the hard roster invariants. candidate.Cost is the actual
// auction cost; the owned slice is the member's current owned set, excluding
// the candidate.
func CheckAcquisition(lg league.League, owned []OwnedPlayer, candidate OwnedPlayer) error {
	if err := checkBudget(lg, owned, candidate.Cost); err != nil {
		return err
	}
	return checkRoster(lg, owned, candidate)
}

func checkBudget(lg league.League, owned []OwnedPlayer, cost int64) error {
	if lg.AllowNegativeBudget {
		return nil
	}

	var spent int64
	for _, p := range owned {
		spent += p.Cost
	}
	if spent+cost > lg.Budget {
		return fmt.Errorf("%w: budget=%d spent=%d cost=%d", ErrBudgetExceeded, lg.Budget, spent, cost)
	}

	return nil
}

func checkRoster(lg league.League, owned []OwnedPlayer, candidate OwnedPlayer) error {
	if len(owned)+1 > lg.MaxPlayersPerTeam {
		return fmt.Errorf("%w: max players per team is %d", ErrRosterLimitExceeded, lg.MaxPlayersPerTeam)
	}

	// Per-role caps apply to Classic leagues only; Mantra players count in
	// several buckets and are capped by squad size alone.
	if lg.Mode != roles.ModeClassic || len(lg.RoleCaps) == 0 {
		return nil
	}

	counts := make(map[roles.Role]int)
	for _, p := range owned {
		for _, bucket := range roles.Buckets(p.Roles, lg.Mode) {
			counts[bucket]++
		}
	}
	for _, bucket := range roles.Buckets(candidate.Roles, lg.Mode) {
		max, capped := lg.RoleCaps[bucket]
		if !capped {
			continue
		}
		if counts[bucket]+1 > max {
			return fmt.Errorf("%w: role %s cap is %d", ErrRosterLimitExceeded, bucket, max)
		}
	}

	return nil
}
