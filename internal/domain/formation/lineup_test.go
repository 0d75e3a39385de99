package formation

import (
	"errors"
	"testing"

	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

func TestBuild_RejectsIncompatibleRole(t *testing.T) {
	schema, ok := SchemaByName(roles.ModeMantra, "4-3-3")
	if !ok {
		t.Fatal("missing mantra 4-3-3 schema")
	}

	tags := map[string][]roles.Role{
		"striker": {roles.MantraA, roles.MantraPc},
	}

	_, _, err := Build(schema, map[string]string{"Por": "striker"}, nil, tags, 14)
	if !errors.Is(err, ErrIncompatibleRole) {
		t.Fatalf("expected ErrIncompatibleRole, got %v", err)
	}
}

func TestBuild_BenchWinsOverStarterSlot(t *testing.T) {
	schema, _ := SchemaByName(roles.ModeClassic, "4-3-3")
	tags := map[string][]roles.Role{
		"gk": {roles.ClassicGoalkeeper},
	}

	starters, bench, err := Build(schema, map[string]string{"P": "gk"}, []string{"gk"}, tags, 14)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, filled := starters["P"]; filled {
		t.Fatalf("starter slot should be vacated when player is benched: %v", starters)
	}
	if len(bench) != 1 || bench[0] != "gk" {
		t.Fatalf("expected gk on bench, got %v", bench)
	}
}

func TestBuild_DuplicateStarterKeepsLaterSlot(t *testing.T) {
	schema, _ := SchemaByName(roles.ModeClassic, "4-4-2")
	tags := map[string][]roles.Role{
		"mid": {roles.ClassicMidfielder},
	}

	starters, _, err := Build(schema, map[string]string{"C1": "mid", "C3": "mid"}, nil, tags, 14)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if starters["C1"] != "" && starters["C3"] != "" {
		t.Fatalf("player must hold a single slot: %v", starters)
	}
	if starters["C3"] != "mid" {
		t.Fatalf("later slot in schema order should win: %v", starters)
	}
}

func TestBuild_UnknownPositionAndBenchBounds(t *testing.T) {
	schema, _ := SchemaByName(roles.ModeClassic, "4-3-3")
	tags := map[string][]roles.Role{
		"a": {roles.ClassicForward}, "b": {roles.ClassicForward}, "c": {roles.ClassicForward},
	}

	if _, _, err := Build(schema, map[string]string{"X9": "a"}, nil, tags, 14); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}
	if _, _, err := Build(schema, nil, []string{"a", "b", "c"}, tags, 2); !errors.Is(err, ErrBenchFull) {
		t.Fatalf("expected ErrBenchFull, got %v", err)
	}
	if _, _, err := Build(schema, nil, []string{"ghost"}, tags, 14); err == nil {
		t.Fatal("expected error for unowned bench player")
	}
}

func TestLineup_Equal(t *testing.T) {
	a := Lineup{SchemaName: "4-3-3", Starters: map[string]string{"P": "gk"}, Bench: []string{"x"}}
	b := Lineup{SchemaName: "4-3-3", Starters: map[string]string{"P": "gk"}, Bench: []string{"x"}}
	if !a.Equal(b) {
		t.Fatal("identical lineups must compare equal")
	}

	b.Bench = []string{"y"}
	if a.Equal(b) {
		t.Fatal("different bench must not compare equal")
	}
}

func TestSchemaByName_ElevenPositionsEverywhere(t *testing.T) {
	for _, mode := range []roles.GameMode{roles.ModeClassic, roles.ModeMantra} {
		for _, name := range SchemaNames(mode) {
			schema, ok := SchemaByName(mode, name)
			if !ok {
				t.Fatalf("schema %s/%s not resolvable", mode, name)
			}
			if len(schema.Positions) != 11 {
				t.Fatalf("schema %s/%s has %d positions", mode, name, len(schema.Positions))
			}
			seen := map[string]struct{}{}
			for _, p := range schema.Positions {
				if _, dup := seen[p.Code]; dup {
					t.Fatalf("schema %s/%s duplicates code %s", mode, name, p.Code)
				}
				seen[p.Code] = struct{}{}
			}
		}
	}
}
