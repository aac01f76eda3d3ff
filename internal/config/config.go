package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

var (
	ErrMissingConfig = errors.New("missing required configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

const defaultBackfillStart = "2025-01-01T00:00:00Z"

// Config stores runtime configuration for the service and the operator CLI.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	StoreDriver             string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	DBMaxIdleConns          int
	CacheEnabled            bool
	CacheTTL                time.Duration

	OpenFrontBaseURL               string
	OpenFrontAPIKey                string
	OpenFrontUserAgent             string
	OpenFrontTimeout               time.Duration
	OpenFrontMaxRetries            int
	OpenFrontCircuitEnabled        bool
	OpenFrontCircuitFailureCount   int
	OpenFrontCircuitOpenTimeout    time.Duration
	OpenFrontCircuitHalfOpenMaxReq int

	OneV1LeaderboardURL  string
	OneV1RefreshInterval time.Duration
	OneV1Limit           int

	ClanLeaderboardTTL time.Duration

	ClanTag             string
	ClanDisplay         string
	AliasPrefixes       []string
	FuzzyMergeMaxDiff   int
	FuzzyMergeMinLength int
	ScoreRatioWeight    float64
	ScoreGamesWeight    float64
	LeaderboardMinGames int
	LeaderboardPageSize int

	BackfillStart        time.Time
	BackfillWindow       time.Duration
	BackfillSkipHistory  bool
	SessionsMaxPerWindow int
	DetailFetchWorkers   int
	JobsEnabled          bool
	JobBackfillInterval  time.Duration
	JobLiveInterval      time.Duration
	LiveWindow           time.Duration
	SweepRunRetention    int
	InternalJobToken     string

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "openfront-clanstats"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		StoreDriver:        strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreDriverPostgres))),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		OpenFrontBaseURL:   strings.TrimRight(strings.TrimSpace(getEnv("OPENFRONT_API_BASE", "https://api.openfront.io/public")), "/"),
		OpenFrontAPIKey:    strings.TrimSpace(getEnv("OPENFRONT_API_KEY", "")),
		OpenFrontUserAgent: strings.TrimSpace(getEnv("OPENFRONT_USER_AGENT", "openfront-clanstats/1.0")),
		ClanTag:            strings.ToUpper(strings.TrimSpace(getEnv("CLAN_TAG", ""))),
		AliasPrefixes:      splitCSV(getEnv("ALIAS_PREFIXES", "")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}

	if cfg.ClanTag == "" {
		return Config{}, fmt.Errorf("%w: CLAN_TAG is required", ErrMissingConfig)
	}
	cfg.ClanDisplay = strings.TrimSpace(getEnv("CLAN_DISPLAY", "["+cfg.ClanTag+"]"))
	cfg.OneV1LeaderboardURL = strings.TrimSpace(getEnv("ONEV1_LEADERBOARD_URL", "https://api.openfront.io/public/leaderboard/ranked"))

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("%w: DB_URL is required when STORE_DRIVER=postgres", ErrMissingConfig)
		}
	case StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("%w: STORE_DRIVER %q: valid values are %s, %s", ErrInvalidConfig, cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}

	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", true); err != nil {
		return Config{}, err
	}
	if cfg.DBMaxOpenConns, err = getEnvAsIntAtLeast("DB_MAX_OPEN_CONNS", 5, 1); err != nil {
		return Config{}, err
	}
	if cfg.DBMaxIdleConns, err = getEnvAsIntAtLeast("DB_MAX_IDLE_CONNS", 2, 0); err != nil {
		return Config{}, err
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "30s"); err != nil {
		return Config{}, err
	}

	if cfg.OpenFrontTimeout, err = getEnvAsPositiveDuration("OPENFRONT_TIMEOUT", "25s"); err != nil {
		return Config{}, err
	}
	if cfg.OpenFrontMaxRetries, err = getEnvAsIntAtLeast("OPENFRONT_MAX_RETRIES", 1, 0); err != nil {
		return Config{}, err
	}
	if cfg.OpenFrontCircuitEnabled, err = getEnvAsBool("OPENFRONT_CIRCUIT_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.OpenFrontCircuitFailureCount, err = getEnvAsIntAtLeast("OPENFRONT_CIRCUIT_FAILURE_COUNT", 5, 1); err != nil {
		return Config{}, err
	}
	if cfg.OpenFrontCircuitOpenTimeout, err = getEnvAsPositiveDuration("OPENFRONT_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.OpenFrontCircuitHalfOpenMaxReq, err = getEnvAsIntAtLeast("OPENFRONT_CIRCUIT_HALF_OPEN_MAX_REQ", 1, 1); err != nil {
		return Config{}, err
	}

	if cfg.OneV1RefreshInterval, err = getEnvAsPositiveDuration("ONEV1_REFRESH_INTERVAL", "10m"); err != nil {
		return Config{}, err
	}
	if cfg.OneV1Limit, err = getEnvAsIntAtLeast("ONEV1_LIMIT", 100, 1); err != nil {
		return Config{}, err
	}
	if cfg.ClanLeaderboardTTL, err = getEnvAsPositiveDuration("CLAN_LEADERBOARD_TTL", "5m"); err != nil {
		return Config{}, err
	}

	if cfg.FuzzyMergeMaxDiff, err = getEnvAsIntAtLeast("FUZZY_MERGE_MAX_DIFF", 6, 0); err != nil {
		return Config{}, err
	}
	if cfg.FuzzyMergeMinLength, err = getEnvAsIntAtLeast("FUZZY_MERGE_MIN_LENGTH", 6, 0); err != nil {
		return Config{}, err
	}
	if cfg.ScoreRatioWeight, err = getEnvAsFloat("SCORE_RATIO_WEIGHT", 100); err != nil {
		return Config{}, err
	}
	if cfg.ScoreGamesWeight, err = getEnvAsFloat("SCORE_GAMES_WEIGHT", 0.5); err != nil {
		return Config{}, err
	}
	if cfg.LeaderboardMinGames, err = getEnvAsIntAtLeast("LEADERBOARD_MIN_GAMES", 1, 0); err != nil {
		return Config{}, err
	}
	if cfg.LeaderboardPageSize, err = getEnvAsIntAtLeast("LEADERBOARD_PAGE_SIZE", 20, 1); err != nil {
		return Config{}, err
	}
	if cfg.LeaderboardPageSize > 100 {
		return Config{}, fmt.Errorf("%w: LEADERBOARD_PAGE_SIZE must be <= 100", ErrInvalidConfig)
	}

	backfillStart, err := time.Parse(time.RFC3339, strings.TrimSpace(getEnv("BACKFILL_START", defaultBackfillStart)))
	if err != nil {
		return Config{}, fmt.Errorf("%w: parse BACKFILL_START: %w", ErrInvalidConfig, err)
	}
	cfg.BackfillStart = backfillStart.UTC()
	if cfg.BackfillWindow, err = getEnvAsPositiveDuration("BACKFILL_WINDOW", "48h"); err != nil {
		return Config{}, err
	}
	if cfg.BackfillSkipHistory, err = getEnvAsBool("BACKFILL_SKIP_HISTORY", false); err != nil {
		return Config{}, err
	}
	if cfg.SessionsMaxPerWindow, err = getEnvAsIntAtLeast("SESSIONS_MAX_PER_WINDOW", 500, 1); err != nil {
		return Config{}, err
	}
	if cfg.DetailFetchWorkers, err = getEnvAsIntAtLeast("DETAIL_FETCH_WORKERS", 4, 1); err != nil {
		return Config{}, err
	}

	if cfg.JobsEnabled, err = getEnvAsBool("JOBS_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.JobBackfillInterval, err = getEnvAsPositiveDuration("JOB_BACKFILL_INTERVAL", "2m"); err != nil {
		return Config{}, err
	}
	if cfg.JobLiveInterval, err = getEnvAsPositiveDuration("JOB_LIVE_INTERVAL", "5m"); err != nil {
		return Config{}, err
	}
	if cfg.LiveWindow, err = getEnvAsPositiveDuration("LIVE_WINDOW", "6h"); err != nil {
		return Config{}, err
	}
	if cfg.SweepRunRetention, err = getEnvAsIntAtLeast("SWEEP_RUN_RETENTION", 500, 0); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("%w: UPTRACE_DSN is required when UPTRACE_ENABLED=true", ErrMissingConfig)
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("%w: PPROF_ADDR is required when PPROF_ENABLED=true", ErrMissingConfig)
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("%w: PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true", ErrMissingConfig)
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsIntAtLeast(key string, fallback, floor int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, key, err)
	}
	if out < floor {
		return 0, fmt.Errorf("%w: %s must be >= %d", ErrInvalidConfig, key, floor)
	}
	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, key, err)
	}
	if out < 0 {
		return 0, fmt.Errorf("%w: %s must be >= 0", ErrInvalidConfig, key)
	}
	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return false, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%w: %s must be > 0", ErrInvalidConfig, key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("%w: APP_ENV %q: valid values are %s, %s, %s", ErrInvalidConfig, v, EnvDev, EnvStage, EnvProd)
	}
}
