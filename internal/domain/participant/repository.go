package participant

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateName rejects a second participant with the same name in
	// one member's league bookkeeping.
	ErrDuplicateName = errors.New("participant name already exists")
	// ErrPlayerAlreadyAssigned rejects assigning a player that another
	// participant of the same member already holds.
	ErrPlayerAlreadyAssigned = errors.New("player already assigned to a participant")
)

// Repository stores participants and their player assignments.
type Repository interface {
	Create(ctx context.Context, p Participant) error
	Get(ctx context.Context, userID, leagueID, participantID string) (Participant, bool, error)
	ListByUserAndLeague(ctx context.Context, userID, leagueID string) ([]Participant, error)
	Delete(ctx context.Context, userID, leagueID, participantID string) error

	// Assign must be atomic over the (user, league, player) uniqueness
	// scope: two racing assignments of the same player return
	// ErrPlayerAlreadyAssigned for the loser.
	Assign(ctx context.Context, a Assignment) error
	Unassign(ctx context.Context, userID, leagueID, participantID, playerID string) error
	ListAssignments(ctx context.Context, userID, leagueID, participantID string) ([]Assignment, error)
}
