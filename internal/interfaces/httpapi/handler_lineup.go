package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/fantasta-tools/asta-ledger/internal/usecase"
)

func (h *Handler) ListLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLineups")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	lineups, err := h.lineupService.ListLineups(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list lineups failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]lineupDTO, 0, len(lineups))
	for _, lineup := range lineups {
		items = append(items, lineupToDTO(lineup))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SaveLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	var req saveLineupRequest
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

	lineup, err := h.lineupService.SaveLineup(ctx, usecase.SaveLineupInput{
		UserID:     principal.UserID,
		LeagueID:   leagueID,
		SchemaName: req.SchemaName,
		Starters:   req.Starters,
		Bench:      req.Bench,
		Activate:   req.Activate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save lineup failed", "user_id", principal.UserID, "league_id", leagueID, "schema", req.SchemaName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(lineup))
}

func (h *Handler) ListLineupSchemas(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLineupSchemas")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	schemas, err := h.lineupService.ListSchemas(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list lineup schemas failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schemas)
}
