package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fantasta-tools/asta-ledger/internal/domain/draft"
	qb "github.com/fantasta-tools/asta-ledger/internal/platform/querybuilder"
)

type draftTableModel struct {
	UserID        string     `db:"user_id"`
	LeagueID      string     `db:"league_id"`
	PlayerID      string     `db:"player_id"`
	Status        string     `db:"status"`
	ExpectedPrice int64      `db:"expected_price"`
	Cost          int64      `db:"cost"`
	Buyer         string     `db:"buyer"`
	Note          string     `db:"note"`
	Tier          string     `db:"tier"`
	AcquiredAt    *time.Time `db:"acquired_at"`
	RemovedAt     *time.Time `db:"removed_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func draftToRow(s draft.State) draftTableModel {
	return draftTableModel{
		UserID:        s.UserID,
		LeagueID:      s.LeagueID,
		PlayerID:      s.PlayerID,
		Status:        string(s.Status),
		ExpectedPrice: s.ExpectedPrice,
		Cost:          s.Cost,
		Buyer:         s.Buyer,
		Note:          s.Note,
		Tier:          s.Tier,
		AcquiredAt:    s.AcquiredAt,
		RemovedAt:     s.RemovedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func draftFromRow(row draftTableModel) draft.State {
	return draft.State{
		UserID:        row.UserID,
		LeagueID:      row.LeagueID,
		PlayerID:      row.PlayerID,
		Status:        draft.Status(row.Status),
		ExpectedPrice: row.ExpectedPrice,
		Cost:          row.Cost,
		Buyer:         row.Buyer,
		Note:          row.Note,
		Tier:          row.Tier,
		AcquiredAt:    row.AcquiredAt,
		RemovedAt:     row.RemovedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Get(ctx context.Context, userID, leagueID, playerID string) (draft.State, bool, error) {
	query, args, err := qb.Select("*").From("draft_states").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("league_id", leagueID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return draft.State{}, false, fmt.Errorf("build get draft state query: %w", err)
	}

	var row draftTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return draft.State{}, false, nil
		}
		return draft.State{}, false, fmt.Errorf("get draft state: %w", err)
	}

	return draftFromRow(row), true, nil
}

// Upsert applies the whole row atomically on the (user, league, player) key;
// last writer wins at row granularity and readers never see a mix of two
// writes.
func (r *DraftRepository) Upsert(ctx context.Context, s draft.State) error {
	const query = `
INSERT INTO draft_states (user_id, league_id, player_id, status, expected_price,
                          cost, buyer, note, tier, acquired_at, removed_at, updated_at)
VALUES (:user_id, :league_id, :player_id, :status, :expected_price,
        :cost, :buyer, :note, :tier, :acquired_at, :removed_at, :updated_at)
ON CONFLICT (user_id, league_id, player_id)
DO UPDATE SET
    status = EXCLUDED.status,
    expected_price = EXCLUDED.expected_price,
    cost = EXCLUDED.cost,
    buyer = EXCLUDED.buyer,
    note = EXCLUDED.note,
    tier = EXCLUDED.tier,
    acquired_at = EXCLUDED.acquired_at,
    removed_at = EXCLUDED.removed_at,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, draftToRow(s)); err != nil {
		return fmt.Errorf("upsert draft state: %w", err)
	}

	return nil
}

func (r *DraftRepository) ListByUserAndLeague(ctx context.Context, userID, leagueID string) ([]draft.State, error) {
	return r.list(ctx,
		qb.Eq("user_id", userID),
		qb.Eq("league_id", leagueID),
	)
}

func (r *DraftRepository) ListOwned(ctx context.Context, userID, leagueID string) ([]draft.State, error) {
	return r.list(ctx,
		qb.Eq("user_id", userID),
		qb.Eq("league_id", leagueID),
		qb.Eq("status", string(draft.StatusOwned)),
	)
}

func (r *DraftRepository) list(ctx context.Context, conds ...qb.Condition) ([]draft.State, error) {
	query, args, err := qb.Select("*").From("draft_states").
		Where(conds...).
		OrderBy("player_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list draft states query: %w", err)
	}

	var rows []draftTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select draft states: %w", err)
	}

	out := make([]draft.State, 0, len(rows))
	for _, row := range rows {
		out = append(out, draftFromRow(row))
	}

	return out, nil
}
