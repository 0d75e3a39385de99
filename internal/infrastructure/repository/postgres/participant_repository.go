package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fantasta-tools/asta-ledger/internal/domain/participant"
	qb "github.com/fantasta-tools/asta-ledger/internal/platform/querybuilder"
)

type participantTableModel struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	LeagueID  string    `db:"league_id"`
	Name      string    `db:"name"`
	Budget    int64     `db:"budget"`
	CreatedAt time.Time `db:"created_at"`
}

func participantFromRow(row participantTableModel) participant.Participant {
	return participant.Participant{
		ID:        row.ID,
		UserID:    row.UserID,
		LeagueID:  row.LeagueID,
		Name:      row.Name,
		Budget:    row.Budget,
		CreatedAt: row.CreatedAt,
	}
}

type assignmentTableModel struct {
	UserID        string    `db:"user_id"`
	LeagueID      string    `db:"league_id"`
	ParticipantID string    `db:"participant_id"`
	PlayerID      string    `db:"player_id"`
	Cost          int64     `db:"cost"`
	AssignedAt    time.Time `db:"assigned_at"`
}

func assignmentFromRow(row assignmentTableModel) participant.Assignment {
	return participant.Assignment{
		UserID:        row.UserID,
		LeagueID:      row.LeagueID,
		ParticipantID: row.ParticipantID,
		PlayerID:      row.PlayerID,
		Cost:          row.Cost,
		AssignedAt:    row.AssignedAt,
	}
}

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Create(ctx context.Context, p participant.Participant) error {
	const query = `
INSERT INTO participants (id, user_id, league_id, name, budget, created_at)
VALUES (:id, :user_id, :league_id, :name, :budget, :created_at)`

	row := participantTableModel{
		ID:        p.ID,
		UserID:    p.UserID,
		LeagueID:  p.LeagueID,
		Name:      p.Name,
		Budget:    p.Budget,
		CreatedAt: p.CreatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, "participants_scope_name_key") {
			return participant.ErrDuplicateName
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) Get(ctx context.Context, userID, leagueID, participantID string) (participant.Participant, bool, error) {
	query, args, err := qb.Select("*").From("participants").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("league_id", leagueID),
			qb.Eq("id", participantID),
		).
		ToSQL()
	if err != nil {
		return participant.Participant{}, false, fmt.Errorf("build get participant query: %w", err)
	}

	var row participantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}

	return participantFromRow(row), true, nil
}

func (r *ParticipantRepository) ListByUserAndLeague(ctx context.Context, userID, leagueID string) ([]participant.Participant, error) {
	query, args, err := qb.Select("*").From("participants").
		Where(qb.Eq("user_id", userID), qb.Eq("league_id", leagueID)).
		OrderBy("name ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select participants: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}

	return out, nil
}

// Delete removes the participant and their assignments in one transaction.
func (r *ParticipantRepository) Delete(ctx context.Context, userID, leagueID, participantID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for participant delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM participant_assignments WHERE user_id = $1 AND league_id = $2 AND participant_id = $3`,
		userID, leagueID, participantID); err != nil {
		return fmt.Errorf("delete participant assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM participants WHERE user_id = $1 AND league_id = $2 AND id = $3`,
		userID, leagueID, participantID); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit participant delete: %w", err)
	}

	return nil
}

// Assign relies on the unique (user_id, league_id, player_id) index: the
// loser of a racing double-assign gets the conflict error, never a second
// row.
func (r *ParticipantRepository) Assign(ctx context.Context, a participant.Assignment) error {
	const query = `
INSERT INTO participant_assignments (user_id, league_id, participant_id, player_id, cost, assigned_at)
VALUES (:user_id, :league_id, :participant_id, :player_id, :cost, :assigned_at)`

	row := assignmentTableModel{
		UserID:        a.UserID,
		LeagueID:      a.LeagueID,
		ParticipantID: a.ParticipantID,
		PlayerID:      a.PlayerID,
		Cost:          a.Cost,
		AssignedAt:    a.AssignedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, "") {
			return participant.ErrPlayerAlreadyAssigned
		}
		return fmt.Errorf("insert assignment: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) Unassign(ctx context.Context, userID, leagueID, participantID, playerID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM participant_assignments
		 WHERE user_id = $1 AND league_id = $2 AND participant_id = $3 AND player_id = $4`,
		userID, leagueID, participantID, playerID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) ListAssignments(ctx context.Context, userID, leagueID, participantID string) ([]participant.Assignment, error) {
	query, args, err := qb.Select("*").From("participant_assignments").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("league_id", leagueID),
			qb.Eq("participant_id", participantID),
		).
		OrderBy("player_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list assignments query: %w", err)
	}

	var rows []assignmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select assignments: %w", err)
	}

	out := make([]participant.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, assignmentFromRow(row))
	}

	return out, nil
}
