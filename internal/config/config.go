package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable through STORE_BACKEND.
const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
	StoreBackendPebble   = "pebble"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Store        StoreConfig
	Crisis       CrisisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
	RatePerMinute         int
	RateBurst             int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
	HealthCheckSec int32
	AppName        string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	DialTimeoutSec int
	IOTimeoutSec   int
}

// StoreConfig selects where message records live.
type StoreConfig struct {
	Backend    string
	RedisKey   string
	PebblePath string
}

// CrisisConfig tunes the escalation engine.
type CrisisConfig struct {
	EscalationPolicy string
	KeywordsFile     string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Output string
	Format string
}

// AuthConfig defines counselor authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	BootstrapName         string
	BootstrapEmail        string
	BootstrapPassword     string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	QueueSize  int
	Workers    int
}

// Load reads configuration from the environment, after merging a local .env
// file when present, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	app := AppConfig{
		Name:                  getEnv("APP_NAME", "peer-support"),
		Env:                   getEnv("APP_ENV", "development"),
		Host:                  getEnv("APP_HOST", "0.0.0.0"),
		Port:                  getEnv("APP_PORT", "8080"),
		Version:               getEnv("APP_VERSION", "dev"),
		RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		CORSOrigins:           getEnv("APP_CORS_ORIGINS", "*"),
		RatePerMinute:         getEnvAsInt("APP_RATE_LIMIT_PER_MINUTE", 30),
		RateBurst:             getEnvAsInt("APP_RATE_LIMIT_BURST", 10),
	}

	cfg := &Config{
		App: app,
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       getEnvAsInt32("POSTGRES_MAX_CONNS", 10),
			MinConns:       getEnvAsInt32("POSTGRES_MIN_CONNS", 2),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: getEnvAsInt32("POSTGRES_CONN_MAX_IDLE_SECONDS", 30),
			ConnMaxLifeSec: getEnvAsInt32("POSTGRES_CONN_MAX_LIFE_SECONDS", 300),
			HealthCheckSec: getEnvAsInt32("POSTGRES_HEALTH_CHECK_SECONDS", 30),
			AppName:        app.Name,
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             redisDB,
			DialTimeoutSec: getEnvAsInt("REDIS_DIAL_TIMEOUT_SECONDS", 5),
			IOTimeoutSec:   getEnvAsInt("REDIS_IO_TIMEOUT_SECONDS", 3),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(getEnv("STORE_BACKEND", StoreBackendMemory)),
			RedisKey:   getEnv("STORE_REDIS_KEY", "peer-support:messages"),
			PebblePath: getEnv("STORE_PEBBLE_PATH", "data/messages"),
		},
		Crisis: CrisisConfig{
			EscalationPolicy: strings.ToLower(getEnv("ESCALATION_POLICY", "literal")),
			KeywordsFile:     os.Getenv("CRISIS_KEYWORDS_FILE"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", devJWTSecret),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			BootstrapName:         getEnv("COUNSELOR_BOOTSTRAP_NAME", "Administrator"),
			BootstrapEmail:        os.Getenv("COUNSELOR_BOOTSTRAP_EMAIL"),
			BootstrapPassword:     os.Getenv("COUNSELOR_BOOTSTRAP_PASSWORD"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			QueueSize:  getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
			Workers:    getEnvAsInt("NOTIFY_WORKERS", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const devJWTSecret = "dev-secret"

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendPebble:
	case StoreBackendPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("STORE_BACKEND=postgres requires POSTGRES_DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STORE_BACKEND: %q", c.Store.Backend))
	}

	switch c.Crisis.EscalationPolicy {
	case "literal", "monotonic":
	default:
		errs = append(errs, fmt.Errorf("invalid ESCALATION_POLICY: %q", c.Crisis.EscalationPolicy))
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT: %q", c.Logger.Format))
	}

	if c.App.IsProduction() && c.Auth.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set in production"))
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		errs = append(errs, fmt.Errorf("POSTGRES_MIN_CONNS (%d) exceeds POSTGRES_MAX_CONNS (%d)",
			c.Postgres.MinConns, c.Postgres.MaxConns))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether APP_ENV names a production deployment.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production") || strings.EqualFold(a.Env, "prod")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsInt32(key string, fallback int32) int32 {
	return int32(getEnvAsInt(key, int(fallback)))
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
