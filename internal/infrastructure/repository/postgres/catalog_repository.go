package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
	qb "github.com/fantasta-tools/asta-ledger/internal/platform/querybuilder"
)

type catalogTableModel struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Team       string    `db:"team"`
	Roles      string    `db:"roles"`
	Price      int64     `db:"price"`
	ValueScore int       `db:"value_score"`
	Season     string    `db:"season"`
	DedupKey   string    `db:"dedup_key"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func catalogFromRow(row catalogTableModel) catalog.Player {
	tags := make([]roles.Role, 0, 2)
	for _, part := range splitTags(row.Roles) {
		tags = append(tags, roles.Role(part))
	}

	return catalog.Player{
		ID:         row.ID,
		Name:       row.Name,
		Team:       row.Team,
		Roles:      tags,
		Price:      row.Price,
		ValueScore: row.ValueScore,
		Season:     row.Season,
	}
}

type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// UpsertBatch writes the whole chunk in one transaction keyed on the
// (name, team, season) dedup key; a concurrent import of the same key can
// never produce a second row.
func (r *CatalogRepository) UpsertBatch(ctx context.Context, players []catalog.Player) (catalog.UpsertResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return catalog.UpsertResult{}, fmt.Errorf("begin tx for catalog upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO catalog_players (id, name, team, roles, price, value_score, season, dedup_key, updated_at)
VALUES (:id, :name, :team, :roles, :price, :value_score, :season, :dedup_key, NOW())
ON CONFLICT (dedup_key)
DO UPDATE SET
    name = EXCLUDED.name,
    team = EXCLUDED.team,
    roles = EXCLUDED.roles,
    price = EXCLUDED.price,
    value_score = EXCLUDED.value_score,
    updated_at = NOW()
RETURNING id, (xmax = 0) AS inserted`

	result := catalog.UpsertResult{IDByKey: make(map[string]string, len(players))}
	for _, p := range players {
		row := catalogTableModel{
			ID:         p.ID,
			Name:       p.Name,
			Team:       p.Team,
			Roles:      roles.FormatTags(p.Roles),
			Price:      p.Price,
			ValueScore: p.ValueScore,
			Season:     p.Season,
			DedupKey:   p.Key(),
		}

		namedSQL, args, err := sqlx.Named(query, row)
		if err != nil {
			return catalog.UpsertResult{}, fmt.Errorf("bind catalog upsert query: %w", err)
		}
		namedSQL = tx.Rebind(namedSQL)

		var outcome struct {
			ID       string `db:"id"`
			Inserted bool   `db:"inserted"`
		}
		if err := tx.GetContext(ctx, &outcome, namedSQL, args...); err != nil {
			return catalog.UpsertResult{}, fmt.Errorf("upsert catalog player: %w", err)
		}

		result.IDByKey[p.Key()] = outcome.ID
		if outcome.Inserted {
			result.Created++
		} else {
			result.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return catalog.UpsertResult{}, fmt.Errorf("commit catalog upsert: %w", err)
	}

	return result, nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, playerID string) (catalog.Player, bool, error) {
	query, args, err := qb.Select("*").From("catalog_players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return catalog.Player{}, false, fmt.Errorf("build get catalog player query: %w", err)
	}

	var row catalogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return catalog.Player{}, false, nil
		}
		return catalog.Player{}, false, fmt.Errorf("get catalog player: %w", err)
	}

	return catalogFromRow(row), true, nil
}

func (r *CatalogRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]catalog.Player, error) {
	if len(playerIDs) == 0 {
		return []catalog.Player{}, nil
	}

	ids := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		ids[i] = id
	}

	query, args, err := qb.Select("*").From("catalog_players").
		Where(qb.In("id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get catalog players query: %w", err)
	}

	var rows []catalogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select catalog players: %w", err)
	}

	out := make([]catalog.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalogFromRow(row))
	}

	return out, nil
}

func (r *CatalogRepository) List(ctx context.Context, season string) ([]catalog.Player, error) {
	builder := qb.Select("*").From("catalog_players").OrderBy("name ASC")
	if season != "" {
		builder = builder.Where(qb.Eq("season", season))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list catalog query: %w", err)
	}

	var rows []catalogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select catalog players: %w", err)
	}

	out := make([]catalog.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalogFromRow(row))
	}

	return out, nil
}

func (r *CatalogRepository) DeleteOrphans(ctx context.Context) (int, error) {
	const query = `
DELETE FROM catalog_players p
WHERE NOT EXISTS (SELECT 1 FROM draft_states d WHERE d.player_id = p.id)
  AND NOT EXISTS (SELECT 1 FROM participant_assignments a WHERE a.player_id = p.id)`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete catalog orphans: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted orphans: %w", err)
	}

	return int(removed), nil
}

func splitTags(raw string) []string {
	out := make([]string, 0, 2)
	for _, part := range strings.Split(raw, ";") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
