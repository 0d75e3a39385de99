package memory

import "context"

// ResetRepository clears derived rows across the member-scoped stores in
// dependency order: assignments and participants, then draft states, then
// lineups. Memberships and the league row are the caller's concern.
type ResetRepository struct {
	draft        *DraftRepository
	participants *ParticipantRepository
	lineups      *LineupRepository
}

func NewResetRepository(draft *DraftRepository, participants *ParticipantRepository, lineups *LineupRepository) *ResetRepository {
	return &ResetRepository{
		draft:        draft,
		participants: participants,
		lineups:      lineups,
	}
}

func (r *ResetRepository) ResetMemberData(_ context.Context, userID, leagueID string) error {
	r.participants.mu.Lock()
	r.participants.deleteByUserAndLeague(userID, leagueID)
	r.participants.mu.Unlock()

	r.draft.mu.Lock()
	r.draft.deleteByUserAndLeague(userID, leagueID)
	r.draft.mu.Unlock()

	r.lineups.mu.Lock()
	r.lineups.deleteByUserAndLeague(userID, leagueID)
	r.lineups.mu.Unlock()

	return nil
}

func (r *ResetRepository) PurgeLeague(_ context.Context, leagueID string) error {
	r.participants.mu.Lock()
	r.participants.deleteByLeague(leagueID)
	r.participants.mu.Unlock()

	r.draft.mu.Lock()
	r.draft.deleteByLeague(leagueID)
	r.draft.mu.Unlock()

	r.lineups.mu.Lock()
	r.lineups.deleteByLeague(leagueID)
	r.lineups.mu.Unlock()

	return nil
}
