package memory

import (
	"context"
	"sync"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	items map[string]league.League
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	for _, l := range leagues {
		items[l.ID] = cloneLeague(l)
	}

	return &LeagueRepository{items: items}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.JoinCode == l.JoinCode {
			return league.ErrJoinCodeTaken
		}
	}
	r.items[l.ID] = cloneLeague(l)

	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(l), true, nil
}

func (r *LeagueRepository) GetByJoinCode(_ context.Context, joinCode string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.items {
		if l.JoinCode == joinCode {
			return cloneLeague(l), true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) Update(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[l.ID] = cloneLeague(l)
	return nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, leagueID)
	return nil
}

func cloneLeague(l league.League) league.League {
	copied := l
	if l.RoleCaps != nil {
		copied.RoleCaps = make(map[roles.Role]int, len(l.RoleCaps))
		for role, max := range l.RoleCaps {
			copied.RoleCaps[role] = max
		}
	}
	return copied
}
