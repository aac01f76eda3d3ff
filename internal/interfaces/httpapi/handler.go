package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/galclan/openfront-clanstats/internal/platform/logging"
	"github.com/galclan/openfront-clanstats/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type Handler struct {
	leaderboard *usecase.LeaderboardService
	official    *usecase.OfficialRankingService
	clans       *usecase.ClanSummaryService
	backfill    *usecase.BackfillService
	ingestion   *usecase.IngestionService
	journal     *usecase.SweepJournal
	admin       *usecase.AdminService
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(
	leaderboard *usecase.LeaderboardService,
	official *usecase.OfficialRankingService,
	clans *usecase.ClanSummaryService,
	backfillService *usecase.BackfillService,
	ingestion *usecase.IngestionService,
	journal *usecase.SweepJournal,
	admin *usecase.AdminService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leaderboard: leaderboard,
		official:    official,
		clans:       clans,
		backfill:    backfillService,
		ingestion:   ingestion,
		journal:     journal,
		admin:       admin,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody fills dst from the request body. An empty body leaves dst
// untouched.
func decodeJSONBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := strictJSON.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func queryInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

func queryBool(values url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, key)
	}
	return v, nil
}
