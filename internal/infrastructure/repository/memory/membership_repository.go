package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
)

type MembershipRepository struct {
	mu    sync.RWMutex
	items map[string]league.Membership
}

func NewMembershipRepository(memberships []league.Membership) *MembershipRepository {
	items := make(map[string]league.Membership, len(memberships))
	for _, m := range memberships {
		items[membershipKey(m.LeagueID, m.UserID)] = m
	}

	return &MembershipRepository{items: items}
}

func (r *MembershipRepository) Create(_ context.Context, m league.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[membershipKey(m.LeagueID, m.UserID)] = m
	return nil
}

func (r *MembershipRepository) Get(_ context.Context, leagueID, userID string) (league.Membership, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[membershipKey(leagueID, userID)]
	if !ok {
		return league.Membership{}, false, nil
	}

	return m, true, nil
}

func (r *MembershipRepository) ListByLeague(_ context.Context, leagueID string) ([]league.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Membership, 0)
	for _, m := range r.items {
		if m.LeagueID == leagueID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })

	return out, nil
}

func (r *MembershipRepository) ListByUser(_ context.Context, userID string) ([]league.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Membership, 0)
	for _, m := range r.items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })

	return out, nil
}

func (r *MembershipRepository) Delete(_ context.Context, leagueID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, membershipKey(leagueID, userID))
	return nil
}

func membershipKey(leagueID, userID string) string {
	return leagueID + "::" + userID
}
