package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level
	PprofEnabled   bool
	PprofAddr      string

	SleeperBaseURL               string
	SleeperTimeout               time.Duration
	SleeperCircuitEnabled        bool
	SleeperCircuitFailureCount   int
	SleeperCircuitOpenTimeout    time.Duration
	SleeperCircuitHalfOpenMaxReq int
	SleeperUserID                string
	SleeperSeason                string

	QueryCacheTTL        time.Duration
	PlayerCachePath      string
	PlayerCacheTTL       time.Duration
	AggregatorMaxWorkers int

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	return load(time.Now())
}

func load(now time.Time) (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsPositiveDuration("APP_READ_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "60s")
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	sleeperTimeout, err := getEnvAsPositiveDuration("SLEEPER_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	sleeperCircuitEnabled, err := strconv.ParseBool(getEnv("SLEEPER_CIRCUIT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SLEEPER_CIRCUIT_ENABLED: %w", err)
	}
	sleeperCircuitFailureCount, err := getEnvAsInt("SLEEPER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SLEEPER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if sleeperCircuitFailureCount <= 0 {
		return Config{}, fmt.Errorf("SLEEPER_CIRCUIT_FAILURE_COUNT must be > 0")
	}
	sleeperCircuitOpenTimeout, err := getEnvAsPositiveDuration("SLEEPER_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	sleeperCircuitHalfOpenMaxReq, err := getEnvAsInt("SLEEPER_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SLEEPER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if sleeperCircuitHalfOpenMaxReq <= 0 {
		return Config{}, fmt.Errorf("SLEEPER_CIRCUIT_HALF_OPEN_MAX_REQ must be > 0")
	}

	season := strings.TrimSpace(getEnv("SLEEPER_SEASON", strconv.Itoa(now.Year())))
	if _, err := strconv.Atoi(season); err != nil || len(season) != 4 {
		return Config{}, fmt.Errorf("invalid SLEEPER_SEASON %q: expected a four digit year", season)
	}

	queryCacheTTL, err := getEnvAsPositiveDuration("QUERY_CACHE_TTL", "5m")
	if err != nil {
		return Config{}, err
	}
	playerCacheTTL, err := getEnvAsPositiveDuration("PLAYER_CACHE_TTL", "24h")
	if err != nil {
		return Config{}, err
	}
	playerCachePath := strings.TrimSpace(getEnv("PLAYER_CACHE_PATH", ""))
	if playerCachePath == "" {
		playerCachePath, err = defaultPlayerCachePath()
		if err != nil {
			return Config{}, err
		}
	}

	maxWorkers, err := getEnvAsInt("AGGREGATOR_MAX_WORKERS", 16)
	if err != nil {
		return Config{}, fmt.Errorf("parse AGGREGATOR_MAX_WORKERS: %w", err)
	}
	if maxWorkers <= 0 {
		return Config{}, fmt.Errorf("AGGREGATOR_MAX_WORKERS must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	serviceName := getEnv("APP_SERVICE_NAME", "fantasy-insights")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		PprofEnabled:   pprofEnabled,
		PprofAddr:      pprofAddr,

		SleeperBaseURL:               strings.TrimRight(getEnv("SLEEPER_BASE_URL", "https://api.sleeper.app"), "/"),
		SleeperTimeout:               sleeperTimeout,
		SleeperCircuitEnabled:        sleeperCircuitEnabled,
		SleeperCircuitFailureCount:   sleeperCircuitFailureCount,
		SleeperCircuitOpenTimeout:    sleeperCircuitOpenTimeout,
		SleeperCircuitHalfOpenMaxReq: sleeperCircuitHalfOpenMaxReq,
		SleeperUserID:                strings.TrimSpace(getEnv("SLEEPER_USER_ID", "")),
		SleeperSeason:                season,

		QueryCacheTTL:        queryCacheTTL,
		PlayerCachePath:      playerCachePath,
		PlayerCacheTTL:       playerCacheTTL,
		AggregatorMaxWorkers: maxWorkers,

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}, nil
}

func defaultPlayerCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	if dir == "" {
		return "", fmt.Errorf("PLAYER_CACHE_PATH is required: no user cache directory")
	}
	return filepath.Join(dir, "fantasy-insights", "players.json"), nil
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

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
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
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
