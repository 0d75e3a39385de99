package draft

import "context"

// Repository stores per-member draft state rows. Upsert must be a single
// atomic write keyed by (user, league, player); readers never observe a row
// with fields from two different writes.
type Repository interface {
	Get(ctx context.Context, userID, leagueID, playerID string) (State, bool, error)
	Upsert(ctx context.Context, s State) error
	ListByUserAndLeague(ctx context.Context, userID, leagueID string) ([]State, error)
	ListOwned(ctx context.Context, userID, leagueID string) ([]State, error)
}
