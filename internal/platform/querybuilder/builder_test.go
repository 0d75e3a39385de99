package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBasic(t *testing.T) {
	sql, args, err := Select("id", "name").
		From("players").
		Where(Eq("season", "2026-27")).
		OrderBy("name ASC").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "SELECT id, name FROM players WHERE season = $1 ORDER BY name ASC"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"2026-27"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestSelectMultipleConditions(t *testing.T) {
	sql, args, err := Select("id").
		From("draft_states").
		Where(
			Eq("user_id", "u-1"),
			Eq("league_id", "l-1"),
			In("status", []any{"owned", "removed"}),
		).
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "SELECT id FROM draft_states WHERE user_id = $1 AND league_id = $2 AND status IN ($3, $4) LIMIT 10"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if len(args) != 4 {
		t.Fatalf("args = %v", args)
	}
}

func TestEmptyInNeverMatches(t *testing.T) {
	sql, args, err := Select("id").
		From("players").
		Where(In("id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if sql != "SELECT id FROM players WHERE 1=0" {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v", args)
	}
}

func TestILikeWrapsPattern(t *testing.T) {
	sql, args, err := Select("id").
		From("players").
		Where(ILike("name", "lauta")).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if sql != "SELECT id FROM players WHERE name ILIKE $1" {
		t.Fatalf("sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"%lauta%"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestMissingTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}
