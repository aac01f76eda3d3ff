package openfront

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/galclan/openfront-clanstats/internal/domain/clan"
	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
	"github.com/galclan/openfront-clanstats/internal/platform/resilience"
	"github.com/galclan/openfront-clanstats/internal/usecase"
)

const (
	defaultBaseURL     = "https://api.openfront.io/public"
	defaultUserAgent   = "openfront-clanstats/1.0"
	defaultTimeout     = 25 * time.Second
	maxResponseBytes   = 8 << 20
	publicGamesMaxPage = 1000
)

var errOpenFrontTransient = crerr.Wrap(usecase.ErrTransientFetch, "openfront")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the OpenFront public REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		userAgent:  userAgent,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
	}
	c.breaker = resilience.NewCircuitBreaker("openfront", cfg.CircuitBreaker,
		resilience.WithStateListener(func(name string, from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "dependency", name, "from", from, "to", to)
		}),
	)
	return c
}

// FetchClanSessions lists the clan's sessions in [start, end).
func (c *Client) FetchClanSessions(ctx context.Context, clanTag string, start, end time.Time) ([]match.Session, error) {
	tag := strings.TrimSpace(clanTag)
	if tag == "" {
		return nil, fmt.Errorf("%w: clan tag is required", usecase.ErrInvalidInput)
	}

	path := "/clan/" + url.PathEscape(tag) + "/sessions"
	payload, err := c.doJSON(ctx, path, url.Values{
		"start": {formatTime(start)},
		"end":   {formatTime(end)},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch clan sessions tag=%s: %w", tag, err)
	}
	return parseSessions(payload), nil
}

func (c *Client) FetchGame(ctx context.Context, gameID string) (match.Game, error) {
	id := strings.TrimSpace(gameID)
	if id == "" {
		return match.Game{}, fmt.Errorf("%w: game id is required", usecase.ErrInvalidInput)
	}

	payload, err := c.doJSON(ctx, "/game/"+url.PathEscape(id), url.Values{"turns": {"false"}})
	if err != nil {
		return match.Game{}, fmt.Errorf("fetch game id=%s: %w", id, err)
	}
	return parseGame(payload, id), nil
}

// FetchPlayerSessions lists one player's recent sessions. GroupWon carries
// the player's own outcome.
func (c *Client) FetchPlayerSessions(ctx context.Context, playerID string) ([]match.Session, error) {
	id := strings.TrimSpace(playerID)
	if id == "" {
		return nil, fmt.Errorf("%w: player id is required", usecase.ErrInvalidInput)
	}

	payload, err := c.doJSON(ctx, "/player/"+url.PathEscape(id)+"/sessions", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch player sessions id=%s: %w", id, err)
	}
	return parseSessions(payload), nil
}

// FetchClanLeaderboard reads the public clan table.
func (c *Client) FetchClanLeaderboard(ctx context.Context) (clan.Leaderboard, error) {
	payload, err := c.doJSON(ctx, "/leaderboard", nil)
	if err != nil {
		return clan.Leaderboard{}, fmt.Errorf("fetch clan leaderboard: %w", err)
	}
	return parseClanLeaderboard(payload), nil
}

// ListPublicGames pages through /games until max rows or a short page.
func (c *Client) ListPublicGames(ctx context.Context, start, end time.Time, maxGames int) ([]match.PublicGame, error) {
	if maxGames <= 0 {
		return nil, nil
	}

	out := make([]match.PublicGame, 0, min(maxGames, publicGamesMaxPage))
	offset := 0
	for len(out) < maxGames {
		limit := min(publicGamesMaxPage, maxGames-len(out))
		payload, err := c.doJSON(ctx, "/games", url.Values{
			"start":  {formatTime(start)},
			"end":    {formatTime(end)},
			"type":   {"Public"},
			"limit":  {strconv.Itoa(limit)},
			"offset": {strconv.Itoa(offset)},
		})
		if err != nil {
			return out, fmt.Errorf("list public games offset=%d: %w", offset, err)
		}

		batch := parsePublicGames(payload)
		if len(batch) == 0 {
			break
		}
		out = append(out, batch...)
		offset += len(batch)
		if len(batch) < limit {
			break
		}
	}
	if len(out) > maxGames {
		out = out[:maxGames]
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values) (any, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "openfront circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: %w: openfront api is temporarily unavailable", errOpenFrontTransient, usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil && isCircuitFailure(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var payload any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", errOpenFrontTransient, err)
	}
	return payload, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.send(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %s", errOpenFrontTransient, c.sanitize(err.Error()))
		case status >= 200 && status < 300:
			return raw, nil
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return nil, fmt.Errorf("%w: status=%d body=%s", usecase.ErrUpstreamAuth, status, abbreviateBody(raw))
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: status=%d", usecase.ErrNotFound, status)
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: status=%d body=%s", errOpenFrontTransient, status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("openfront status=%d body=%s", status, abbreviateBody(raw))
		}

		if ctx.Err() != nil || attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", errOpenFrontTransient, ctx.Err())
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: request failed", errOpenFrontTransient)
	}
	c.logger.WarnContext(ctx, "openfront request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return append([]byte(nil), buf.B...), resp.StatusCode, nil
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return value
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errOpenFrontTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

const maxErrorBodyLength = 240

func abbreviateBody(body []byte) string {
	text := strings.ToValidUTF8(strings.TrimSpace(string(body)), "\uFFFD")
	if len(text) <= maxErrorBodyLength {
		return text
	}
	cut := maxErrorBodyLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
