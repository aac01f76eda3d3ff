package openfront

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/galclan/openfront-clanstats/internal/domain/ranking"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
	"github.com/galclan/openfront-clanstats/internal/usecase"
)

const (
	defaultRankingURL = "https://api.openfront.io/public/leaderboard/ranked"
	rankingPageSize   = 50
)

type RankingClientConfig struct {
	URL       string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
	Logger    *logging.Logger
}

// RateLimitInfo mirrors the X-Ratelimit-* headers of the last response.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	// seconds until reset
	Reset     int
	UpdatedAt time.Time
}

// RankingClient pages through the official 1v1 leaderboard.
type RankingClient struct {
	url       string
	apiKey    string
	userAgent string
	timeout   time.Duration
	logger    *logging.Logger
	client    *fasthttp.Client

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

func NewRankingClient(cfg RankingClientConfig) *RankingClient {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rankingURL := strings.TrimSpace(cfg.URL)
	if rankingURL == "" {
		rankingURL = defaultRankingURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &RankingClient{
		url:       rankingURL,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

func (c *RankingClient) RateLimit() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RankingClient) FetchOfficialRanking(ctx context.Context, limit int) ([]ranking.OfficialEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	entries := make([]ranking.OfficialEntry, 0, limit)
	for page := 1; len(entries) < limit; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		payload, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch official ranking page=%d: %w", page, err)
		}

		rows := rankingRows(payload)
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			entry, ok := parseRankingRow(row)
			if !ok {
				continue
			}
			entry.Rank = len(entries) + 1
			entries = append(entries, entry)
			if len(entries) >= limit {
				break
			}
		}
		if len(rows) < rankingPageSize {
			break
		}
	}
	return entries, nil
}

func (c *RankingClient) fetchPage(ctx context.Context, page int) (any, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.URI().QueryArgs().Set("page", strconv.Itoa(page))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.SetUserAgent(c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errOpenFrontTransient, err)
	}

	c.updateRateLimit(resp)

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusOK:
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return nil, fmt.Errorf("%w: status=%d body=%s", usecase.ErrUpstreamAuth, status, abbreviateBody(resp.Body()))
	case isRetryableStatus(status):
		return nil, fmt.Errorf("%w: status=%d body=%s", errOpenFrontTransient, status, abbreviateBody(resp.Body()))
	default:
		return nil, fmt.Errorf("openfront ranking status=%d body=%s", status, abbreviateBody(resp.Body()))
	}

	var payload any
	if err := sonic.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode ranking payload: %v", errOpenFrontTransient, err)
	}
	return payload, nil
}

func (c *RankingClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Limit"))); err == nil {
		c.rateLimit.Limit = v
	}
	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Remaining"))); err == nil {
		c.rateLimit.Remaining = v
	}
	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Reset"))); err == nil {
		c.rateLimit.Reset = v
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func rankingRows(payload any) []any {
	if root, ok := payload.(map[string]any); ok {
		for _, key := range []string{"1v1", "oneVone"} {
			if rows, ok := root[key].([]any); ok && len(rows) > 0 {
				return rows
			}
		}
	}
	return extractList(payload, "items", "data", "players", "leaderboard", "results")
}

func parseRankingRow(raw any) (ranking.OfficialEntry, bool) {
	row, ok := raw.(map[string]any)
	if !ok {
		return ranking.OfficialEntry{}, false
	}
	name := getStringAny(row, "username", "player", "name", "displayName", "user")
	if name == "" {
		return ranking.OfficialEntry{}, false
	}
	if tag := getString(row, "clanTag"); tag != "" {
		prefix := "[" + strings.ToUpper(tag) + "]"
		if !strings.Contains(strings.ToUpper(name), prefix) {
			name = "[" + tag + "] " + name
		}
	}

	entry := ranking.OfficialEntry{
		Username: name,
		Wins:     getInt64Any(row, "wins", "win", "victories"),
		Losses:   getInt64Any(row, "losses", "loss", "defeats"),
	}
	if elo, ok := asFloat64(firstValue(row, "elo", "rating", "mmr", "score")); ok {
		entry.Elo = elo
	}
	if games, ok := asFloat64(firstValue(row, "games", "matches", "totalGames", "played")); ok {
		entry.Games = int64(games)
	} else {
		entry.Games = entry.Wins + entry.Losses
	}

	ratio, ok := asFloat64(firstValue(row, "winRate", "winrate", "ratio", "winLossRatio"))
	switch {
	case ok && ratio <= 1:
		entry.WinRate = ratio * 100
	case ok:
		entry.WinRate = ratio
	case entry.Games > 0:
		entry.WinRate = float64(entry.Wins) / float64(entry.Games) * 100
	}
	return entry, true
}
