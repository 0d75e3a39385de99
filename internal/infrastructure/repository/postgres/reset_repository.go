package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ResetRepository runs the derived-row cascade as one transaction, in
// dependency order: assignments, participants, draft states, lineups.
type ResetRepository struct {
	db *sqlx.DB
}

func NewResetRepository(db *sqlx.DB) *ResetRepository {
	return &ResetRepository{db: db}
}

func (r *ResetRepository) ResetMemberData(ctx context.Context, userID, leagueID string) error {
	return r.cascade(ctx, " WHERE user_id = $1 AND league_id = $2", userID, leagueID)
}

func (r *ResetRepository) PurgeLeague(ctx context.Context, leagueID string) error {
	return r.cascade(ctx, " WHERE league_id = $1", leagueID)
}

func (r *ResetRepository) cascade(ctx context.Context, where string, args ...any) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for reset cascade: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	tables := []string{
		"participant_assignments",
		"participants",
		"draft_states",
		"lineups",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+where, args...); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset cascade: %w", err)
	}

	return nil
}
