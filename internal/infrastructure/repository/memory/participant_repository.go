package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fantasta-tools/asta-ledger/internal/domain/participant"
)

type ParticipantRepository struct {
	mu          sync.RWMutex
	items       map[string]participant.Participant
	assignments map[string]participant.Assignment
}

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{
		items:       make(map[string]participant.Participant),
		assignments: make(map[string]participant.Assignment),
	}
}

func (r *ParticipantRepository) Create(_ context.Context, p participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.UserID == p.UserID && existing.LeagueID == p.LeagueID &&
			strings.EqualFold(existing.Name, p.Name) {
			return participant.ErrDuplicateName
		}
	}
	r.items[participantKey(p.UserID, p.LeagueID, p.ID)] = p

	return nil
}

func (r *ParticipantRepository) Get(_ context.Context, userID, leagueID, participantID string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[participantKey(userID, leagueID, participantID)]
	if !ok {
		return participant.Participant{}, false, nil
	}

	return p, true, nil
}

func (r *ParticipantRepository) ListByUserAndLeague(_ context.Context, userID, leagueID string) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0)
	for _, p := range r.items {
		if p.UserID == userID && p.LeagueID == leagueID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *ParticipantRepository) Delete(_ context.Context, userID, leagueID, participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, participantKey(userID, leagueID, participantID))
	for key, a := range r.assignments {
		if a.UserID == userID && a.LeagueID == leagueID && a.ParticipantID == participantID {
			delete(r.assignments, key)
		}
	}

	return nil
}

func (r *ParticipantRepository) Assign(_ context.Context, a participant.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// One assignment per player within the member's (user, league) scope,
	// regardless of which participant holds it.
	for _, existing := range r.assignments {
		if existing.UserID == a.UserID && existing.LeagueID == a.LeagueID && existing.PlayerID == a.PlayerID {
			return participant.ErrPlayerAlreadyAssigned
		}
	}
	r.assignments[assignmentKey(a.UserID, a.LeagueID, a.ParticipantID, a.PlayerID)] = a

	return nil
}

func (r *ParticipantRepository) Unassign(_ context.Context, userID, leagueID, participantID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.assignments, assignmentKey(userID, leagueID, participantID, playerID))
	return nil
}

func (r *ParticipantRepository) ListAssignments(_ context.Context, userID, leagueID, participantID string) ([]participant.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Assignment, 0)
	for _, a := range r.assignments {
		if a.UserID == userID && a.LeagueID == leagueID && a.ParticipantID == participantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

// ReferencedPlayerIDs keeps assigned catalog rows alive for the orphan sweep.
func (r *ParticipantRepository) ReferencedPlayerIDs(_ context.Context) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]struct{}, len(r.assignments))
	for _, a := range r.assignments {
		ids[a.PlayerID] = struct{}{}
	}

	return ids, nil
}

func (r *ParticipantRepository) deleteByUserAndLeague(userID, leagueID string) {
	for key, p := range r.items {
		if p.UserID == userID && p.LeagueID == leagueID {
			delete(r.items, key)
		}
	}
	for key, a := range r.assignments {
		if a.UserID == userID && a.LeagueID == leagueID {
			delete(r.assignments, key)
		}
	}
}

func (r *ParticipantRepository) deleteByLeague(leagueID string) {
	for key, p := range r.items {
		if p.LeagueID == leagueID {
			delete(r.items, key)
		}
	}
	for key, a := range r.assignments {
		if a.LeagueID == leagueID {
			delete(r.assignments, key)
		}
	}
}

func participantKey(userID, leagueID, participantID string) string {
	return userID + "::" + leagueID + "::" + participantID
}

func assignmentKey(userID, leagueID, participantID, playerID string) string {
	return userID + "::" + leagueID + "::" + participantID + "::" + playerID
}
