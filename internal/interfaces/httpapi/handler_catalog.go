package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/fantasta-tools/asta-ledger/internal/usecase"
)

func (h *Handler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportCatalog")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	var req importCatalogRequest
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

	result, err := h.importService.ImportCatalogBatch(ctx, usecase.ImportInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		Mode:     req.Mode,
		Rows:     importRowsFromRequest(req.Rows),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "catalog import failed", "user_id", principal.UserID, "league_id", leagueID, "rows", len(req.Rows), "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "catalog import finished",
		"league_id", leagueID,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"row_errors", len(result.RowErrors),
	)
	writeSuccess(ctx, w, http.StatusOK, importResultToDTO(result))
}
