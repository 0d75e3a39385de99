package tiering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

// Mode selects how an import batch is bucketed.
type Mode string

const (
	ModeAuto      Mode = "auto"
	ModeAutoPrune Mode = "auto+prune"
	ModeFlat      Mode = "flat"
	ModeFlatPrune Mode = "flat+prune"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.TrimSpace(raw)) {
	case ModeAuto:
		return ModeAuto, nil
	case ModeAutoPrune:
		return ModeAutoPrune, nil
	case ModeFlat:
		return ModeFlat, nil
	case ModeFlatPrune:
		return ModeFlatPrune, nil
	default:
		return "", fmt.Errorf("invalid tiering mode: %q", raw)
	}
}

func (m Mode) prunes() bool {
	return m == ModeAutoPrune || m == ModeFlatPrune
}

func (m Mode) auto() bool {
	return m == ModeAuto || m == ModeAutoPrune
}

// Tier is a classification bucket assigned on bulk import.
type Tier string

const (
	TierTop         Tier = "Top"
	TierTitolari    Tier = "Titolari"
	TierLowCost     Tier = "Low cost"
	TierJolly       Tier = "Jolly"
	TierRiserve     Tier = "Riserve"
	TierNonInseriti Tier = "Non inseriti"
)

// Result is the classification for one input row, index-aligned with the
// Classify input.
type Result struct {
	Tier Tier
	// Prune marks rows whose value score is exactly 1 under a prune mode:
	// the draft state goes straight to removed instead of a tiered entry.
	Prune bool
}

// Percentile cut points for auto modes, over each role's ascending value
// score distribution.
const (
	cutRiserve  = 20
	cutJolly    = 40
	cutLowCost  = 70
	cutTitolari = 90
)

// minSamplesForCuts is the engine default for degenerate distributions:
// below this many samples in a role the percentile cuts collapse and every
// player in that role gets Jolly, same as a role with no samples at all.
const minSamplesForCuts = 5

// thresholds holds the four non-decreasing cut values for one role.
type thresholds struct {
	p20, p40, p70, p90 int
}

// Classify assigns a tier (or prune flag) to every row in the batch. It is
// pure: deterministic for a fixed input ordering, the input is not mutated,
// and re-running it on the same batch yields identical results.
func Classify(players []catalog.Player, mode Mode) []Result {
	results := make([]Result, len(players))

	var cutsByRole map[roles.Role]thresholds
	if mode.auto() {
		cutsByRole = computeCuts(players)
	}

	for i, p := range players {
		if p.ValueScore == 1 {
			if mode.prunes() {
				results[i] = Result{Prune: true}
			} else {
				results[i] = Result{Tier: TierNonInseriti}
			}
			continue
		}

		if !mode.auto() {
			results[i] = Result{Tier: TierNonInseriti}
			continue
		}

		role, ok := roles.Primary(p.Roles)
		if !ok {
			results[i] = Result{Tier: TierJolly}
			continue
		}
		cuts, ok := cutsByRole[role]
		if !ok {
			// Role never accumulated enough samples.
			results[i] = Result{Tier: TierJolly}
			continue
		}
		results[i] = Result{Tier: tierFor(p.ValueScore, cuts)}
	}

	return results
}

func tierFor(score int, cuts thresholds) Tier {
	switch {
	case score >= cuts.p90:
		return TierTop
	case score >= cuts.p70:
		return TierTitolari
	case score >= cuts.p40:
		return TierLowCost
	case score >= cuts.p20:
		return TierJolly
	default:
		return TierRiserve
	}
}

// computeCuts partitions rows with value score > 1 by primary role and takes
// nearest-rank percentiles over each role's ascending scores. Roles with
// fewer than minSamplesForCuts samples are left out, which routes their
// players to the Jolly default.
func computeCuts(players []catalog.Player) map[roles.Role]thresholds {
	samples := make(map[roles.Role][]int)
	for _, p := range players {
		if p.ValueScore <= 1 {
			continue
		}
		role, ok := roles.Primary(p.Roles)
		if !ok {
			continue
		}
		samples[role] = append(samples[role], p.ValueScore)
	}

	cuts := make(map[roles.Role]thresholds, len(samples))
	for role, scores := range samples {
		if len(scores) < minSamplesForCuts {
			continue
		}
		sorted := append([]int(nil), scores...)
		sort.Ints(sorted)
		cuts[role] = thresholds{
			p20: nearestRank(sorted, cutRiserve),
			p40: nearestRank(sorted, cutJolly),
			p70: nearestRank(sorted, cutLowCost),
			p90: nearestRank(sorted, cutTitolari),
		}
	}

	return cuts
}

// nearestRank returns the p-th percentile of an ascending sample using the
// nearest-rank method. Thresholds are non-decreasing in p by construction.
func nearestRank(sorted []int, p int) int {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
