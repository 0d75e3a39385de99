package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	qb "github.com/fantasta-tools/asta-ledger/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	row, err := leagueToRow(l)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO leagues (id, name, join_code, owner_id, mode, season, budget,
                     max_players_per_team, max_members, allow_negative_budget,
                     role_caps, status, created_at)
VALUES (:id, :name, :join_code, :owner_id, :mode, :season, :budget,
        :max_players_per_team, :max_members, :allow_negative_budget,
        :role_caps, :status, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, "leagues_join_code_key") {
			return league.ErrJoinCodeTaken
		}
		return fmt.Errorf("insert league: %w", err)
	}

	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("id", leagueID))
}

func (r *LeagueRepository) GetByJoinCode(ctx context.Context, joinCode string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("join_code", joinCode))
}

func (r *LeagueRepository) getOne(ctx context.Context, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").Where(cond).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	l, err := leagueFromRow(row)
	if err != nil {
		return league.League{}, false, err
	}

	return l, true, nil
}

func (r *LeagueRepository) Update(ctx context.Context, l league.League) error {
	row, err := leagueToRow(l)
	if err != nil {
		return err
	}

	const query = `
UPDATE leagues
SET name = :name,
    budget = :budget,
    max_players_per_team = :max_players_per_team,
    max_members = :max_members,
    allow_negative_budget = :allow_negative_budget,
    role_caps = :role_caps,
    status = :status
WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("update league: %w", err)
	}

	return nil
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, leagueID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}

	return nil
}

type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, m league.Membership) error {
	const query = `
INSERT INTO memberships (league_id, user_id, role, joined_at)
VALUES (:league_id, :user_id, :role, :joined_at)`

	row := membershipTableModel{
		LeagueID: m.LeagueID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	return nil
}

func (r *MembershipRepository) Get(ctx context.Context, leagueID, userID string) (league.Membership, bool, error) {
	query, args, err := qb.Select("*").From("memberships").
		Where(qb.Eq("league_id", leagueID), qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return league.Membership{}, false, fmt.Errorf("build get membership query: %w", err)
	}

	var row membershipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Membership{}, false, nil
		}
		return league.Membership{}, false, fmt.Errorf("get membership: %w", err)
	}

	return membershipFromRow(row), true, nil
}

func (r *MembershipRepository) ListByLeague(ctx context.Context, leagueID string) ([]league.Membership, error) {
	return r.list(ctx, qb.Eq("league_id", leagueID))
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]league.Membership, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *MembershipRepository) list(ctx context.Context, cond qb.Condition) ([]league.Membership, error) {
	query, args, err := qb.Select("*").From("memberships").
		Where(cond).
		OrderBy("joined_at ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select memberships: %w", err)
	}

	out := make([]league.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipFromRow(row))
	}

	return out, nil
}

func (r *MembershipRepository) Delete(ctx context.Context, leagueID, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE league_id = $1 AND user_id = $2`, leagueID, userID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	return nil
}
