package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasta-tools/asta-ledger/internal/domain/draft"
)

type DraftRepository struct {
	mu    sync.RWMutex
	items map[string]draft.State
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{items: make(map[string]draft.State)}
}

func (r *DraftRepository) Get(_ context.Context, userID, leagueID, playerID string) (draft.State, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[draftKey(userID, leagueID, playerID)]
	if !ok {
		return draft.State{}, false, nil
	}

	return cloneState(s), true, nil
}

func (r *DraftRepository) Upsert(_ context.Context, s draft.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[draftKey(s.UserID, s.LeagueID, s.PlayerID)] = cloneState(s)
	return nil
}

func (r *DraftRepository) ListByUserAndLeague(_ context.Context, userID, leagueID string) ([]draft.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]draft.State, 0)
	for _, s := range r.items {
		if s.UserID == userID && s.LeagueID == leagueID {
			out = append(out, cloneState(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func (r *DraftRepository) ListOwned(_ context.Context, userID, leagueID string) ([]draft.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]draft.State, 0)
	for _, s := range r.items {
		if s.UserID == userID && s.LeagueID == leagueID && s.Status == draft.StatusOwned {
			out = append(out, cloneState(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

// ReferencedPlayerIDs keeps catalog rows alive for the orphan sweep.
func (r *DraftRepository) ReferencedPlayerIDs(_ context.Context) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]struct{}, len(r.items))
	for _, s := range r.items {
		ids[s.PlayerID] = struct{}{}
	}

	return ids, nil
}

func (r *DraftRepository) deleteByUserAndLeague(userID, leagueID string) {
	for key, s := range r.items {
		if s.UserID == userID && s.LeagueID == leagueID {
			delete(r.items, key)
		}
	}
}

func (r *DraftRepository) deleteByLeague(leagueID string) {
	for key, s := range r.items {
		if s.LeagueID == leagueID {
			delete(r.items, key)
		}
	}
}

func draftKey(userID, leagueID, playerID string) string {
	return userID + "::" + leagueID + "::" + playerID
}

func cloneState(s draft.State) draft.State {
	copied := s
	if s.AcquiredAt != nil {
		t := *s.AcquiredAt
		copied.AcquiredAt = &t
	}
	if s.RemovedAt != nil {
		t := *s.RemovedAt
		copied.RemovedAt = &t
	}
	return copied
}
