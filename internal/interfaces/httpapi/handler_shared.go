package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fantasta-tools/asta-ledger/internal/domain/budget"
	"github.com/fantasta-tools/asta-ledger/internal/domain/catalog"
	"github.com/fantasta-tools/asta-ledger/internal/domain/draft"
	"github.com/fantasta-tools/asta-ledger/internal/domain/formation"
	"github.com/fantasta-tools/asta-ledger/internal/domain/league"
	"github.com/fantasta-tools/asta-ledger/internal/domain/participant"
	"github.com/fantasta-tools/asta-ledger/internal/platform/logging"
	"github.com/fantasta-tools/asta-ledger/internal/usecase"
)

type Handler struct {
	leagueService      *usecase.LeagueService
	draftService       *usecase.DraftService
	importService      *usecase.ImportService
	participantService *usecase.ParticipantService
	lineupService      *usecase.LineupService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	draftService *usecase.DraftService,
	importService *usecase.ImportService,
	participantService *usecase.ParticipantService,
	lineupService *usecase.LineupService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:      leagueService,
		draftService:       draftService,
		importService:      importService,
		participantService: participantService,
		lineupService:      lineupService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type createLeagueRequest struct {
	Name                string         `json:"name" validate:"required,max=120"`
	Mode                string         `json:"mode" validate:"required"`
	Season              string         `json:"season" validate:"required,max=20"`
	Budget              int64          `json:"budget" validate:"required,gt=0"`
	MaxPlayersPerTeam   int            `json:"maxPlayersPerTeam" validate:"required,gt=0"`
	MaxMembers          int            `json:"maxMembers" validate:"required,gt=0"`
	AllowNegativeBudget bool           `json:"allowNegativeBudget"`
	RoleCaps            map[string]int `json:"roleCaps" validate:"omitempty,dive,gte=0"`
}

type joinLeagueRequest struct {
	JoinCode string `json:"joinCode" validate:"required,min=4,max=16"`
}

type updateLeagueSettingsRequest struct {
	Name                *string        `json:"name" validate:"omitempty,max=120"`
	Budget              *int64         `json:"budget" validate:"omitempty,gt=0"`
	MaxPlayersPerTeam   *int           `json:"maxPlayersPerTeam" validate:"omitempty,gt=0"`
	MaxMembers          *int           `json:"maxMembers" validate:"omitempty,gt=0"`
	AllowNegativeBudget *bool          `json:"allowNegativeBudget"`
	RoleCaps            map[string]int `json:"roleCaps" validate:"omitempty,dive,gte=0"`
}

type transitionDraftRequest struct {
	Status        string  `json:"status" validate:"required,max=20"`
	Cost          *int64  `json:"cost" validate:"omitempty,gte=0"`
	Buyer         *string `json:"buyer" validate:"omitempty,max=120"`
	ExpectedPrice *int64  `json:"expectedPrice" validate:"omitempty,gte=0"`
	Note          *string `json:"note" validate:"omitempty,max=500"`
}

type importCatalogRequest struct {
	Mode string             `json:"mode" validate:"required,max=20"`
	Rows []importRowRequest `json:"rows" validate:"required,min=1,dive"`
}

type importRowRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Team       string `json:"team" validate:"required,max=120"`
	Roles      string `json:"roles" validate:"required,max=40"`
	Price      int64  `json:"price" validate:"gte=0"`
	ValueScore int    `json:"valueScore" validate:"gte=0"`
}

type createParticipantRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Budget *int64 `json:"budget" validate:"omitempty,gt=0"`
}

type assignPlayerRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Cost     int64  `json:"cost" validate:"required,gt=0"`
}

type saveLineupRequest struct {
	SchemaName string            `json:"schemaName" validate:"required,max=10"`
	Starters   map[string]string `json:"starters" validate:"required"`
	Bench      []string          `json:"bench" validate:"omitempty,dive,required"`
	Activate   bool              `json:"activate"`
}

type leagueDTO struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	JoinCode            string         `json:"joinCode"`
	OwnerID             string         `json:"ownerId"`
	Mode                string         `json:"mode"`
	Season              string         `json:"season"`
	Budget              int64          `json:"budget"`
	MaxPlayersPerTeam   int            `json:"maxPlayersPerTeam"`
	MaxMembers          int            `json:"maxMembers"`
	AllowNegativeBudget bool           `json:"allowNegativeBudget"`
	RoleCaps            map[string]int `json:"roleCaps,omitempty"`
	Status              string         `json:"status"`
	CreatedAt           string         `json:"createdAt"`
}

type membershipDTO struct {
	LeagueID string `json:"leagueId"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

type playerDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Team       string   `json:"team"`
	Roles      []string `json:"roles"`
	Price      int64    `json:"price"`
	ValueScore int      `json:"valueScore"`
	Season     string   `json:"season"`
}

type draftStateDTO struct {
	PlayerID      string `json:"playerId"`
	Status        string `json:"status"`
	ExpectedPrice int64  `json:"expectedPrice"`
	Cost          int64  `json:"cost"`
	Buyer         string `json:"buyer,omitempty"`
	Note          string `json:"note,omitempty"`
	Tier          string `json:"tier,omitempty"`
	AcquiredAt    string `json:"acquiredAt,omitempty"`
	RemovedAt     string `json:"removedAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

type draftEntryDTO struct {
	Player playerDTO     `json:"player"`
	State  draftStateDTO `json:"state"`
}

type budgetSummaryDTO struct {
	Total            int64          `json:"total"`
	Spent            int64          `json:"spent"`
	Remaining        int64          `json:"remaining"`
	OwnedCount       int            `json:"ownedCount"`
	RoleDistribution map[string]int `json:"roleDistribution"`
}

type importRowErrorDTO struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type importResultDTO struct {
	Created   int                 `json:"created"`
	Updated   int                 `json:"updated"`
	Skipped   int                 `json:"skipped"`
	RowErrors []importRowErrorDTO `json:"rowErrors,omitempty"`
}

type participantDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Budget    int64  `json:"budget"`
	CreatedAt string `json:"createdAt"`
}

type participantViewDTO struct {
	Participant   participantDTO `json:"participant"`
	Spent         int64          `json:"spent"`
	Remaining     int64          `json:"remaining"`
	AssignedCount int            `json:"assignedCount"`
}

type assignmentDTO struct {
	ParticipantID string `json:"participantId"`
	PlayerID      string `json:"playerId"`
	Cost          int64  `json:"cost"`
	AssignedAt    string `json:"assignedAt"`
}

type lineupDTO struct {
	SchemaName string            `json:"schemaName"`
	Starters   map[string]string `json:"starters"`
	Bench      []string          `json:"bench"`
	Active     bool              `json:"active"`
	UpdatedAt  string            `json:"updatedAt"`
}

func leagueToDTO(lg league.League) leagueDTO {
	var roleCaps map[string]int
	if len(lg.RoleCaps) > 0 {
		roleCaps = make(map[string]int, len(lg.RoleCaps))
		for role, limit := range lg.RoleCaps {
			roleCaps[string(role)] = limit
		}
	}

	return leagueDTO{
		ID:                  lg.ID,
		Name:                lg.Name,
		JoinCode:            lg.JoinCode,
		OwnerID:             lg.OwnerID,
		Mode:                string(lg.Mode),
		Season:              lg.Season,
		Budget:              lg.Budget,
		MaxPlayersPerTeam:   lg.MaxPlayersPerTeam,
		MaxMembers:          lg.MaxMembers,
		AllowNegativeBudget: lg.AllowNegativeBudget,
		RoleCaps:            roleCaps,
		Status:              string(lg.Status),
		CreatedAt:           formatTime(lg.CreatedAt),
	}
}

func membershipToDTO(m league.Membership) membershipDTO {
	return membershipDTO{
		LeagueID: m.LeagueID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: formatTime(m.JoinedAt),
	}
}

func playerToDTO(p catalog.Player) playerDTO {
	tags := make([]string, 0, len(p.Roles))
	for _, role := range p.Roles {
		tags = append(tags, string(role))
	}

	return playerDTO{
		ID:         p.ID,
		Name:       p.Name,
		Team:       p.Team,
		Roles:      tags,
		Price:      p.Price,
		ValueScore: p.ValueScore,
		Season:     p.Season,
	}
}

func draftStateToDTO(s draft.State) draftStateDTO {
	return draftStateDTO{
		PlayerID:      s.PlayerID,
		Status:        string(s.Status),
		ExpectedPrice: s.ExpectedPrice,
		Cost:          s.Cost,
		Buyer:         s.Buyer,
		Note:          s.Note,
		Tier:          s.Tier,
		AcquiredAt:    formatTimePtr(s.AcquiredAt),
		RemovedAt:     formatTimePtr(s.RemovedAt),
		UpdatedAt:     formatTime(s.UpdatedAt),
	}
}

func draftEntryToDTO(entry usecase.DraftEntry) draftEntryDTO {
	return draftEntryDTO{
		Player: playerToDTO(entry.Player),
		State:  draftStateToDTO(entry.State),
	}
}

func budgetSummaryToDTO(summary budget.Summary) budgetSummaryDTO {
	distribution := make(map[string]int, len(summary.RoleDistribution))
	for role, count := range summary.RoleDistribution {
		distribution[string(role)] = count
	}

	return budgetSummaryDTO{
		Total:            summary.Total,
		Spent:            summary.Spent,
		Remaining:        summary.Remaining,
		OwnedCount:       summary.OwnedCount,
		RoleDistribution: distribution,
	}
}

func importResultToDTO(result usecase.ImportResult) importResultDTO {
	var rowErrors []importRowErrorDTO
	for _, rowErr := range result.RowErrors {
		rowErrors = append(rowErrors, importRowErrorDTO{Index: rowErr.Index, Message: rowErr.Message})
	}

	return importResultDTO{
		Created:   result.Created,
		Updated:   result.Updated,
		Skipped:   result.Skipped,
		RowErrors: rowErrors,
	}
}

func participantViewToDTO(view usecase.ParticipantView) participantViewDTO {
	return participantViewDTO{
		Participant:   participantToDTO(view.Participant),
		Spent:         view.Spent,
		Remaining:     view.Remaining,
		AssignedCount: view.AssignedCount,
	}
}

func participantToDTO(p participant.Participant) participantDTO {
	return participantDTO{
		ID:        p.ID,
		Name:      p.Name,
		Budget:    p.Budget,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func assignmentToDTO(a participant.Assignment) assignmentDTO {
	return assignmentDTO{
		ParticipantID: a.ParticipantID,
		PlayerID:      a.PlayerID,
		Cost:          a.Cost,
		AssignedAt:    formatTime(a.AssignedAt),
	}
}

func lineupToDTO(l formation.Lineup) lineupDTO {
	starters := make(map[string]string, len(l.Starters))
	for code, playerID := range l.Starters {
		starters[code] = playerID
	}
	bench := make([]string, 0, len(l.Bench))
	bench = append(bench, l.Bench...)

	return lineupDTO{
		SchemaName: l.SchemaName,
		Starters:   starters,
		Bench:      bench,
		Active:     l.Active,
		UpdatedAt:  formatTime(l.UpdatedAt),
	}
}

func importRowsFromRequest(rows []importRowRequest) []usecase.ImportRow {
	out := make([]usecase.ImportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, usecase.ImportRow{
			Name:       row.Name,
			Team:       row.Team,
			Roles:      row.Roles,
			Price:      row.Price,
			ValueScore: row.ValueScore,
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
