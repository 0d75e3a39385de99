package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/fantasta-tools/asta-ledger/internal/domain/formation"
	qb "github.com/fantasta-tools/asta-ledger/internal/platform/querybuilder"
)

type lineupTableModel struct {
	UserID     string    `db:"user_id"`
	LeagueID   string    `db:"league_id"`
	SchemaName string    `db:"schema_name"`
	Starters   []byte    `db:"starters"`
	Bench      []byte    `db:"bench"`
	Active     bool      `db:"active"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func lineupToRow(l formation.Lineup) (lineupTableModel, error) {
	starters, err := sonic.Marshal(l.Starters)
	if err != nil {
		return lineupTableModel{}, fmt.Errorf("marshal starters: %w", err)
	}
	bench, err := sonic.Marshal(l.Bench)
	if err != nil {
		return lineupTableModel{}, fmt.Errorf("marshal bench: %w", err)
	}

	return lineupTableModel{
		UserID:     l.UserID,
		LeagueID:   l.LeagueID,
		SchemaName: l.SchemaName,
		Starters:   starters,
		Bench:      bench,
		Active:     l.Active,
		UpdatedAt:  l.UpdatedAt,
	}, nil
}

func lineupFromRow(row lineupTableModel) (formation.Lineup, error) {
	l := formation.Lineup{
		UserID:     row.UserID,
		LeagueID:   row.LeagueID,
		SchemaName: row.SchemaName,
		Active:     row.Active,
		UpdatedAt:  row.UpdatedAt,
	}
	if len(row.Starters) > 0 {
		if err := sonic.Unmarshal(row.Starters, &l.Starters); err != nil {
			return formation.Lineup{}, fmt.Errorf("unmarshal starters: %w", err)
		}
	}
	if len(row.Bench) > 0 {
		if err := sonic.Unmarshal(row.Bench, &l.Bench); err != nil {
			return formation.Lineup{}, fmt.Errorf("unmarshal bench: %w", err)
		}
	}

	return l, nil
}

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) Get(ctx context.Context, userID, leagueID, schemaName string) (formation.Lineup, bool, error) {
	query, args, err := qb.Select("*").From("lineups").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("league_id", leagueID),
			qb.Eq("schema_name", schemaName),
		).
		ToSQL()
	if err != nil {
		return formation.Lineup{}, false, fmt.Errorf("build get lineup query: %w", err)
	}

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return formation.Lineup{}, false, nil
		}
		return formation.Lineup{}, false, fmt.Errorf("get lineup: %w", err)
	}

	l, err := lineupFromRow(row)
	if err != nil {
		return formation.Lineup{}, false, err
	}

	return l, true, nil
}

func (r *LineupRepository) ListByUserAndLeague(ctx context.Context, userID, leagueID string) ([]formation.Lineup, error) {
	query, args, err := qb.Select("*").From("lineups").
		Where(qb.Eq("user_id", userID), qb.Eq("league_id", leagueID)).
		OrderBy("schema_name ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineups query: %w", err)
	}

	var rows []lineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select lineups: %w", err)
	}

	out := make([]formation.Lineup, 0, len(rows))
	for _, row := range rows {
		l, err := lineupFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, nil
}

func (r *LineupRepository) Upsert(ctx context.Context, l formation.Lineup) error {
	row, err := lineupToRow(l)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO lineups (user_id, league_id, schema_name, starters, bench, active, updated_at)
VALUES (:user_id, :league_id, :schema_name, :starters, :bench, :active, :updated_at)
ON CONFLICT (user_id, league_id, schema_name)
DO UPDATE SET
    starters = EXCLUDED.starters,
    bench = EXCLUDED.bench,
    active = EXCLUDED.active,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert lineup: %w", err)
	}

	return nil
}

// Activate flips one lineup active and the member's others inactive in a
// single statement, so no reader ever sees two active lineups.
func (r *LineupRepository) Activate(ctx context.Context, userID, leagueID, schemaName string) error {
	const query = `
UPDATE lineups
SET active = (schema_name = $3)
WHERE user_id = $1 AND league_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, leagueID, schemaName); err != nil {
		return fmt.Errorf("activate lineup: %w", err)
	}

	return nil
}
