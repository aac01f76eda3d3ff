package httpapi

import (
	"fmt"
	"net/http"

	"github.com/galclan/openfront-clanstats/internal/usecase"
)

func (h *Handler) GetClanSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClanSummary")
	defer span.End()

	if h.clans == nil {
		writeError(ctx, w, errClanViewsDisabled)
		return
	}

	summary, err := h.clans.Summary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "clan summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, clanSummaryToDTO(summary))
}

func (h *Handler) ListTopClans(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopClans")
	defer span.End()

	if h.clans == nil {
		writeError(ctx, w, errClanViewsDisabled)
		return
	}

	top, err := queryInt(r.URL.Query(), "top")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := topClansQuery{Top: top}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.clans.TopClans(ctx, query.Top)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, clanTableToDTO(table))
}

func (h *Handler) GetGameLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameLineup")
	defer span.End()

	if h.clans == nil {
		writeError(ctx, w, errClanViewsDisabled)
		return
	}

	lineup, err := h.clans.GameLineup(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(lineup))
}

func (h *Handler) ListPlayerSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerSessions")
	defer span.End()

	if h.clans == nil {
		writeError(ctx, w, errClanViewsDisabled)
		return
	}

	sessions, err := h.clans.PlayerSessions(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionToDTO(s))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

var errClanViewsDisabled = fmt.Errorf("%w: clan views are not configured", usecase.ErrDependencyUnavailable)
