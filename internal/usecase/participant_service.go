package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/participant"
	idgen "github.com/fantasta-tools/asta-ledger/internal/platform/id"
)

// ParticipantView joins a participant with their derived budget numbers,
// computed from assignment rows at query time.
type ParticipantView struct {
	Participant   participant.Participant
	Spent         int64
	Remaining     int64
	AssignedCount int
}

type ParticipantService struct {
	participantRepo participant.Repository
	catalogRepo     catalog.Repository
	guard           *LeagueGuard
	idGen           idgen.Generator
	logger          *slog.Logger
	now             func() time.Time
}

func NewParticipantService(
	participantRepo participant.Repository,
	catalogRepo catalog.Repository,
	guard *LeagueGuard,
	idGen idgen.Generator,
	logger *slog.Logger,
) *ParticipantService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ParticipantService{
		participantRepo: participantRepo,
		catalogRepo:     catalogRepo,
		guard:           guard,
		idGen:           idGen,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateParticipant registers one rival drafter in the caller's private
// bookkeeping. Budget defaults to the league's total budget.
func (s *ParticipantService) CreateParticipant(ctx context.Context, userID, leagueID, name string, budgetOverride *int64) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "ParticipantService.CreateParticipant")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return participant.Participant{}, fmt.Errorf("%w: participant name is required", ErrInvalidInput)
	}

	lg, _, err := s.guard.RequireMember(ctx, userID, leagueID)
	if err != nil {
		return participant.Participant{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return participant.Participant{}, fmt.Errorf("generate participant id: %w", err)
	}

	budget := lg.Budget
	if budgetOverride != nil {
		budget = *budgetOverride
	}

	p := participant.Participant{
		ID:        id,
		UserID:    strings.TrimSpace(userID),
		LeagueID:  strings.TrimSpace(leagueID),
		Name:      name,
		Budget:    budget,
		CreatedAt: s.now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return participant.Participant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.participantRepo.Create(ctx, p); err != nil {
		return participant.Participant{}, fmt.Errorf("create participant: %w", err)
	}

	s.logger.InfoContext(ctx, "participant created",
		"league_id", p.LeagueID,
		"participant_id", p.ID,
	)

	return p, nil
}

// ListParticipants returns every participant with their derived budget view.
// The per-participant assignment loads fan out concurrently; result order
// follows the repository listing.
func (s *ParticipantService) ListParticipants(ctx context.Context, userID, leagueID string) ([]ParticipantView, error) {
	ctx, span := startUsecaseSpan(ctx, "ParticipantService.ListParticipants")
	defer span.End()

	if _, _, err := s.guard.RequireMember(ctx, userID, leagueID); err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.ListByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	views, err := iter.MapErr(participants, func(p *participant.Participant) (ParticipantView, error) {
		assignments, err := s.participantRepo.ListAssignments(ctx, p.UserID, p.LeagueID, p.ID)
		if err != nil {
			return ParticipantView{}, fmt.Errorf("list assignments for participant %s: %w", p.ID, err)
		}

		var spent int64
		for _, a := range assignments {
			spent += a.Cost
		}

		return ParticipantView{
			Participant:   *p,
			Spent:         spent,
			Remaining:     p.Budget - spent,
			AssignedCount: len(assignments),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

// AssignPlayer links a catalog player to one participant at a cost. A
// player can belong to at most one participant per (member, league); the
// loser of a race gets the conflict error from the repository.
func (s *ParticipantService) AssignPlayer(ctx context.Context, userID, leagueID, participantID, playerID string, cost int64) (participant.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "ParticipantService.AssignPlayer")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	playerID = strings.TrimSpace(playerID)
	if participantID == "" {
		return participant.Assignment{}, fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}
	if playerID == "" {
		return participant.Assignment{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	if _, _, err := s.guard.RequireMember(ctx, userID, leagueID); err != nil {
		return participant.Assignment{}, err
	}

	if _, exists, err := s.participantRepo.Get(ctx, userID, leagueID, participantID); err != nil {
		return participant.Assignment{}, fmt.Errorf("get participant: %w", err)
	} else if !exists {
		return participant.Assignment{}, fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}

	if _, exists, err := s.catalogRepo.GetByID(ctx, playerID); err != nil {
		return participant.Assignment{}, fmt.Errorf("get catalog player: %w", err)
	} else if !exists {
		return participant.Assignment{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	a := participant.Assignment{
		UserID:        strings.TrimSpace(userID),
		LeagueID:      strings.TrimSpace(leagueID),
		ParticipantID: participantID,
		PlayerID:      playerID,
		Cost:          cost,
		AssignedAt:    s.now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return participant.Assignment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.participantRepo.Assign(ctx, a); err != nil {
		return participant.Assignment{}, fmt.Errorf("assign player: %w", err)
	}

	s.logger.InfoContext(ctx, "player assigned to participant",
		"league_id", a.LeagueID,
		"participant_id", participantID,
		"player_id", playerID,
	)

	return a, nil
}

// UnassignPlayer releases a player from one participant.
func (s *ParticipantService) UnassignPlayer(ctx context.Context, userID, leagueID, participantID, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "ParticipantService.UnassignPlayer")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	playerID = strings.TrimSpace(playerID)
	if participantID == "" || playerID == "" {
		return fmt.Errorf("%w: participant id and player id are required", ErrInvalidInput)
	}

	if _, _, err := s.guard.RequireMember(ctx, userID, leagueID); err != nil {
		return err
	}

	if err := s.participantRepo.Unassign(ctx, userID, leagueID, participantID, playerID); err != nil {
		return fmt.Errorf("unassign player: %w", err)
	}

	return nil
}

// DeleteParticipant removes one participant and, through the repository,
// their assignments.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, userID, leagueID, participantID string) error {
	ctx, span := startUsecaseSpan(ctx, "ParticipantService.DeleteParticipant")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}

	if _, _, err := s.guard.RequireMember(ctx, userID, leagueID); err != nil {
		return err
	}

	if _, exists, err := s.participantRepo.Get(ctx, userID, leagueID, participantID); err != nil {
		return fmt.Errorf("get participant: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}

	if err := s.participantRepo.Delete(ctx, userID, leagueID, participantID); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}

	s.logger.InfoContext(ctx, "participant deleted",
		"league_id", leagueID,
		"participant_id", participantID,
	)

	return nil
}
