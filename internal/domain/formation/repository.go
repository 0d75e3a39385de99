package formation

import "context"

// Repository stores lineups per (member, league, schema).
type Repository interface {
	Get(ctx context.Context, userID, leagueID, schemaName string) (Lineup, bool, error)
	ListByUserAndLeague(ctx context.Context, userID, leagueID string) ([]Lineup, error)
	Upsert(ctx context.Context, l Lineup) error
	// Activate marks one lineup active and deactivates every other lineup
	// of the same (user, league) in the same write.
	Activate(ctx context.Context, userID, leagueID, schemaName string) error
}
