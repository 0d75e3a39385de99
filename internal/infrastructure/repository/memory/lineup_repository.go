package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasta-tools/asta-ledger/internal/domain/formation"
)

type LineupRepository struct {
	mu    sync.RWMutex
	items map[string]formation.Lineup
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{items: make(map[string]formation.Lineup)}
}

func (r *LineupRepository) Get(_ context.Context, userID, leagueID, schemaName string) (formation.Lineup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[lineupKey(userID, leagueID, schemaName)]
	if !ok {
		return formation.Lineup{}, false, nil
	}

	return cloneLineup(l), true, nil
}

func (r *LineupRepository) ListByUserAndLeague(_ context.Context, userID, leagueID string) ([]formation.Lineup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]formation.Lineup, 0)
	for _, l := range r.items {
		if l.UserID == userID && l.LeagueID == leagueID {
			out = append(out, cloneLineup(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SchemaName < out[j].SchemaName })

	return out, nil
}

func (r *LineupRepository) Upsert(_ context.Context, l formation.Lineup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[lineupKey(l.UserID, l.LeagueID, l.SchemaName)] = cloneLineup(l)
	return nil
}

func (r *LineupRepository) Activate(_ context.Context, userID, leagueID, schemaName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, l := range r.items {
		if l.UserID != userID || l.LeagueID != leagueID {
			continue
		}
		l.Active = l.SchemaName == schemaName
		r.items[key] = l
	}

	return nil
}

func (r *LineupRepository) deleteByUserAndLeague(userID, leagueID string) {
	for key, l := range r.items {
		if l.UserID == userID && l.LeagueID == leagueID {
			delete(r.items, key)
		}
	}
}

func (r *LineupRepository) deleteByLeague(leagueID string) {
	for key, l := range r.items {
		if l.LeagueID == leagueID {
			delete(r.items, key)
		}
	}
}

func lineupKey(userID, leagueID, schemaName string) string {
	return userID + "::" + leagueID + "::" + schemaName
}

func cloneLineup(l formation.Lineup) formation.Lineup {
	copied := l
	if l.Starters != nil {
		copied.Starters = make(map[string]string, len(l.Starters))
		for code, playerID := range l.Starters {
			copied.Starters[code] = playerID
		}
	}
	copied.Bench = append([]string(nil), l.Bench...)
	return copied
}
