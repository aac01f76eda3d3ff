package httpapi

import (
	"net/http"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
)

func (h *Handler) RunBackfillStepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfillStepJob")
	defer span.End()

	result, err := h.backfill.Step(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run backfill step job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if result.Status == backfill.StepFailed {
		h.logger.WarnContext(ctx, "backfill step window failed",
			"window_start", result.WindowStart,
			"window_end", result.WindowEnd,
			"error", result.Err,
		)
	}

	writeSuccess(ctx, w, http.StatusOK, stepResultToDTO(result))
}

func (h *Handler) RunLiveSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLiveSweepJob")
	defer span.End()

	result, err := h.ingestion.LiveSweep(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run live sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rangeResultToDTO(result))
}

func (h *Handler) RunRefreshRangeJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshRangeJob")
	defer span.End()

	var req refreshRangeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestion.RefreshRange(ctx, req.Start.UTC(), req.End.UTC())
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh range job failed", "start", req.Start, "end", req.End, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rangeResultToDTO(result))
}

func (h *Handler) RunResetJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResetJob")
	defer span.End()

	var req resetRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var start time.Time
	if req.Start != nil {
		start = req.Start.UTC()
	}
	cursor, err := h.admin.ResetAll(ctx, start)
	if err != nil {
		h.logger.ErrorContext(ctx, "run reset job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cursorToDTO(cursor))
}
