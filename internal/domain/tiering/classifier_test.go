package tiering

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

func forward(score int) catalog.Player {
	return catalog.Player{
		Name:       "p",
		Team:       "t",
		Roles:      []roles.Role{roles.ClassicForward},
		ValueScore: score,
		Season:     "2025-26",
	}
}

func TestClassify_SmallSampleDefaultsToJolly(t *testing.T) {
	// Two usable samples in role A: the cuts collapse, both land in Jolly,
	// and the score-1 row is pruned.
	batch := []catalog.Player{forward(25), forward(15), forward(1)}

	results := Classify(batch, ModeAutoPrune)

	if results[0].Tier != TierJolly || results[1].Tier != TierJolly {
		t.Fatalf("expected Jolly for both sampled players, got %+v", results)
	}
	if !results[2].Prune {
		t.Fatal("expected value score 1 row to be pruned")
	}
}

func TestClassify_FlatModes(t *testing.T) {
	batch := []catalog.Player{forward(80), forward(1)}

	flat := Classify(batch, ModeFlat)
	if flat[0].Tier != TierNonInseriti || flat[1].Tier != TierNonInseriti {
		t.Fatalf("flat mode should assign Non inseriti to every row, got %+v", flat)
	}
	if flat[1].Prune {
		t.Fatal("flat mode must not prune")
	}

	pruned := Classify(batch, ModeFlatPrune)
	if pruned[0].Tier != TierNonInseriti {
		t.Fatalf("expected Non inseriti for surviving row, got %+v", pruned[0])
	}
	if !pruned[1].Prune {
		t.Fatal("flat+prune must prune score 1 rows")
	}
}

func TestClassify_AutoTiersWithFullDistribution(t *testing.T) {
	scores := []int{2, 3, 5, 8, 10, 14, 18, 25, 40, 70}
	batch := make([]catalog.Player, 0, len(scores))
	for _, s := range scores {
		batch = append(batch, forward(s))
	}

	results := Classify(batch, ModeAuto)

	if got := results[len(results)-1].Tier; got != TierTop {
		t.Fatalf("expected top score to be Top, got %s", got)
	}
	if got := results[0].Tier; got != TierRiserve {
		t.Fatalf("expected bottom score to be Riserve, got %s", got)
	}

	// Tier order must follow score order.
	rank := map[Tier]int{TierRiserve: 0, TierJolly: 1, TierLowCost: 2, TierTitolari: 3, TierTop: 4}
	for i := 1; i < len(results); i++ {
		if rank[results[i].Tier] < rank[results[i-1].Tier] {
			t.Fatalf("tier rank decreased at index %d: %s -> %s", i, results[i-1].Tier, results[i].Tier)
		}
	}
}

func TestClassify_DeterministicAndPure(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	batch := make([]catalog.Player, 0, 40)
	for i := 0; i < 40; i++ {
		batch = append(batch, forward(2+rng.Intn(100)))
	}
	before := append([]catalog.Player(nil), batch...)

	first := Classify(batch, ModeAuto)
	second := Classify(batch, ModeAuto)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("classification not idempotent at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	for i := range batch {
		if batch[i].ValueScore != before[i].ValueScore {
			t.Fatal("Classify mutated its input")
		}
	}
}

func TestNearestRank_NonDecreasingCuts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(50)
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(500)
		}
		sort.Ints(sample)

		p20 := nearestRank(sample, cutRiserve)
		p40 := nearestRank(sample, cutJolly)
		p70 := nearestRank(sample, cutLowCost)
		p90 := nearestRank(sample, cutTitolari)
		if p20 > p40 || p40 > p70 || p70 > p90 {
			t.Fatalf("thresholds must be non-decreasing: %d %d %d %d (n=%d)", p20, p40, p70, p90, n)
		}
	}
}
