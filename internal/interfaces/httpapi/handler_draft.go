package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/fantasta-tools/asta-ledger/internal/usecase"
)

func (h *Handler) ListDraftBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDraftBoard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	query := r.URL.Query()
	filters := usecase.DraftFilters{
		Status:     strings.TrimSpace(query.Get("status")),
		Role:       strings.TrimSpace(query.Get("role")),
		SearchText: strings.TrimSpace(query.Get("q")),
	}

	entries, err := h.draftService.ListDraftStates(ctx, principal.UserID, leagueID, filters)
	if err != nil {
		h.logger.WarnContext(ctx, "list draft board failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]draftEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, draftEntryToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) TransitionDraftStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TransitionDraftStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))

	var req transitionDraftRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.draftService.TransitionStatus(ctx, usecase.TransitionInput{
		UserID:        principal.UserID,
		LeagueID:      leagueID,
		PlayerID:      playerID,
		Status:        req.Status,
		Cost:          req.Cost,
		Buyer:         req.Buyer,
		ExpectedPrice: req.ExpectedPrice,
		Note:          req.Note,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "draft transition failed", "user_id", principal.UserID, "league_id", leagueID, "player_id", playerID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftStateToDTO(state))
}

func (h *Handler) ResetDraftState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetDraftState")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))

	state, err := h.draftService.ResetState(ctx, principal.UserID, leagueID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "draft reset failed", "user_id", principal.UserID, "league_id", leagueID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftStateToDTO(state))
}

func (h *Handler) GetBudgetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBudgetSummary")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	summary, err := h.draftService.GetBudgetSummary(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "budget summary failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, budgetSummaryToDTO(summary))
}
