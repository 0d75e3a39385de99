package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

// PlayerReferencer reports which catalog player ids a store still points
// at; the orphan sweep keeps every referenced row.
type PlayerReferencer interface {
	ReferencedPlayerIDs(ctx context.Context) (map[string]struct{}, error)
}

type CatalogRepository struct {
	mu    sync.RWMutex
	items map[string]catalog.Player
	// byKey maps the (name, team, season) dedup key to the stored row id.
	byKey       map[string]string
	referencers []PlayerReferencer
}

func NewCatalogRepository(players []catalog.Player) *CatalogRepository {
	r := &CatalogRepository{
		items: make(map[string]catalog.Player, len(players)),
		byKey: make(map[string]string, len(players)),
	}
	for _, p := range players {
		r.items[p.ID] = clonePlayer(p)
		r.byKey[p.Key()] = p.ID
	}

	return r
}

// AddReferencer registers a store consulted by DeleteOrphans.
func (r *CatalogRepository) AddReferencer(ref PlayerReferencer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.referencers = append(r.referencers, ref)
}

func (r *CatalogRepository) UpsertBatch(_ context.Context, players []catalog.Player) (catalog.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := catalog.UpsertResult{IDByKey: make(map[string]string, len(players))}
	for _, p := range players {
		key := p.Key()
		if existingID, ok := r.byKey[key]; ok {
			stored := p
			stored.ID = existingID
			r.items[existingID] = clonePlayer(stored)
			result.IDByKey[key] = existingID
			result.Updated++
			continue
		}

		r.items[p.ID] = clonePlayer(p)
		r.byKey[key] = p.ID
		result.IDByKey[key] = p.ID
		result.Created++
	}

	return result, nil
}

func (r *CatalogRepository) GetByID(_ context.Context, playerID string) (catalog.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	if !ok {
		return catalog.Player{}, false, nil
	}

	return clonePlayer(p), true, nil
}

func (r *CatalogRepository) GetByIDs(_ context.Context, playerIDs []string) ([]catalog.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, clonePlayer(p))
		}
	}

	return out, nil
}

func (r *CatalogRepository) List(_ context.Context, season string) ([]catalog.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Player, 0, len(r.items))
	for _, p := range r.items {
		if season == "" || p.Season == season {
			out = append(out, clonePlayer(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *CatalogRepository) DeleteOrphans(ctx context.Context) (int, error) {
	referenced := make(map[string]struct{})

	r.mu.RLock()
	referencers := append([]PlayerReferencer(nil), r.referencers...)
	r.mu.RUnlock()

	for _, ref := range referencers {
		ids, err := ref.ReferencedPlayerIDs(ctx)
		if err != nil {
			return 0, err
		}
		for id := range ids {
			referenced[id] = struct{}{}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, p := range r.items {
		if _, ok := referenced[id]; ok {
			continue
		}
		delete(r.items, id)
		delete(r.byKey, p.Key())
		removed++
	}

	return removed, nil
}

func clonePlayer(p catalog.Player) catalog.Player {
	copied := p
	copied.Roles = append([]roles.Role(nil), p.Roles...)
	return copied
}
