package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
)

// LeagueGuard resolves the caller's membership for a target league before
// any draft, participant or lineup operation runs. It fails closed: an
// absent membership row means ErrNotAMember, never a silent fallthrough.
type LeagueGuard struct {
	leagueRepo     league.Repository
	membershipRepo league.MembershipRepository
}

func NewLeagueGuard(leagueRepo league.Repository, membershipRepo league.MembershipRepository) *LeagueGuard {
	return &LeagueGuard{
		leagueRepo:     leagueRepo,
		membershipRepo: membershipRepo,
	}
}

// RequireMember loads the league and the caller's membership in it.
func (g *LeagueGuard) RequireMember(ctx context.Context, userID, leagueID string) (league.League, league.Membership, error) {
	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return league.League{}, league.Membership{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return league.League{}, league.Membership{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := g.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, league.Membership{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, league.Membership{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	membership, exists, err := g.membershipRepo.Get(ctx, leagueID, userID)
	if err != nil {
		return league.League{}, league.Membership{}, fmt.Errorf("get membership: %w", err)
	}
	if !exists {
		return league.League{}, league.Membership{}, fmt.Errorf("%w: league=%s", ErrNotAMember, leagueID)
	}

	return lg, membership, nil
}

// RequireMaster is RequireMember plus the master-role check for league-wide
// actions such as settings updates, member removal and deletion.
func (g *LeagueGuard) RequireMaster(ctx context.Context, userID, leagueID string) (league.League, league.Membership, error) {
	lg, membership, err := g.RequireMember(ctx, userID, leagueID)
	if err != nil {
		return league.League{}, league.Membership{}, err
	}
	if !membership.IsMaster() {
		return league.League{}, league.Membership{}, fmt.Errorf("%w: league=%s", ErrNotMaster, leagueID)
	}

	return lg, membership, nil
}
