package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/galclan/openfront-clanstats/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	values := r.URL.Query()
	page, err := queryInt(values, "page")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	pageSize, err := queryInt(values, "page_size")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := leaderboardQuery{
		Board:    strings.ToLower(strings.TrimSpace(values.Get("board"))),
		Page:     page,
		PageSize: pageSize,
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.leaderboard.GetPage(ctx, query.Board, query.Page, query.PageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardPageToDTO(result))
}

func (h *Handler) GetOfficialRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOfficialRanking")
	defer span.End()

	if h.official == nil {
		writeError(ctx, w, fmt.Errorf("%w: official ranking is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	values := r.URL.Query()
	clanOnly, err := queryBool(values, "clan_only")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(values, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if limit < 0 {
		writeError(ctx, w, fmt.Errorf("%w: limit must be >= 0", usecase.ErrInvalidInput))
		return
	}

	if clanOnly {
		snap, err := h.official.ClanView(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "official clan view failed", "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, officialRankingToDTO(snap, true))
		return
	}

	snap, err := h.official.Get(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "official ranking failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, officialRankingToDTO(snap, false))
}

func (h *Handler) GetBackfillStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBackfillStatus")
	defer span.End()

	status, err := h.backfill.Status(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, backfillStatusToDTO(status))
}

func (h *Handler) ListSweepRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSweepRuns")
	defer span.End()

	limit, err := queryInt(r.URL.Query(), "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := runsQuery{Limit: limit}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.journal.ListRecent(ctx, query.Limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]sweepRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, sweepRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
