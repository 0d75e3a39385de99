package catalog

import "context"

// UpsertResult reports what a batch upsert did per key.
type UpsertResult struct {
	Created int
	Updated int
	// IDByKey maps Player.Key() to the stored row id, whether the row was
	// inserted now or already existed.
	IDByKey map[string]string
}

// Repository is the dedup-safe catalog store. UpsertBatch must be atomic:
// concurrent imports of the same (name, team, season) key never produce two
// rows, last committed writer wins on field values.
type Repository interface {
	UpsertBatch(ctx context.Context, players []Player) (UpsertResult, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	List(ctx context.Context, season string) ([]Player, error)
	// DeleteOrphans removes players no draft state or participant
	// assignment references anymore.
	DeleteOrphans(ctx context.Context) (int, error)
}
