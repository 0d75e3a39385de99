package league

import (
	"context"
	"errors"
)

// ErrJoinCodeTaken is returned by Create when the generated join code
// collides with an existing league.
var ErrJoinCodeTaken = errors.New("join code already taken")

// Repository describes league persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByJoinCode(ctx context.Context, joinCode string) (League, bool, error)
	Update(ctx context.Context, l League) error
	Delete(ctx context.Context, leagueID string) error
}

// MembershipRepository stores (league, user) membership pairs.
type MembershipRepository interface {
	Create(ctx context.Context, m Membership) error
	Get(ctx context.Context, leagueID, userID string) (Membership, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Membership, error)
	ListByUser(ctx context.Context, userID string) ([]Membership, error)
	Delete(ctx context.Context, leagueID, userID string) error
}

// ResetRepository deletes a member's (or a whole league's) derived rows in
// dependency order inside one transaction: assignments, draft states,
// participants, lineups. The catalog orphan sweep runs separately after.
type ResetRepository interface {
	ResetMemberData(ctx context.Context, userID, leagueID string) error
	PurgeLeague(ctx context.Context, leagueID string) error
}
