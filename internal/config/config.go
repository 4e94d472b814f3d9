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

// DevJWTSecret is the signing secret used when AUTH_JWT_SECRET is unset.
// Validate rejects it outside development.
const DevJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Sales        SalesConfig
	Notification NotificationConfig
	AdminSeed    AdminSeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	Timezone              string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

type RedisConfig struct {
	Addr               string
	Password           string
	DB                 int
	DialTimeoutSeconds int
}

type LoggerConfig struct {
	Level string
	// Encoding is "json" or "console"; empty picks by environment.
	Encoding string
}

type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SalesConfig tunes sale creation and reporting.
type SalesConfig struct {
	IdempotencyTTLMinutes int
	// ReportSchedule is a cron expression; empty disables the monthly report.
	ReportSchedule string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// AdminSeedConfig names an admin account ensured at API startup. An empty
// Email disables seeding.
type AdminSeedConfig struct {
	Name     string
	Email    string
	Password string
}

// Load reads an optional .env file from the working directory, then the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFile is Load with an explicit, mandatory env file.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var env envReader
	cfg := &Config{
		App:      loadApp(&env),
		Postgres: loadPostgres(&env),
		Redis: RedisConfig{
			Addr:               env.str("REDIS_ADDR", "127.0.0.1:6379"),
			Password:           env.str("REDIS_PASSWORD", ""),
			DB:                 env.intVal("REDIS_DB", 0),
			DialTimeoutSeconds: env.intVal("REDIS_DIAL_TIMEOUT_SECONDS", 5),
		},
		Logger: LoggerConfig{
			Level:    env.str("LOG_LEVEL", "info"),
			Encoding: env.str("LOG_ENCODING", ""),
		},
		Auth: AuthConfig{
			JWTSecret:             env.str("AUTH_JWT_SECRET", DevJWTSecret),
			AccessTokenTTLMinutes: env.intVal("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            env.intVal("AUTH_BCRYPT_COST", 10),
		},
		Sales: SalesConfig{
			IdempotencyTTLMinutes: env.intVal("IDEMPOTENCY_TTL_MINUTES", 24*60),
			ReportSchedule:        env.str("REPORT_CRON_SCHEDULE", ""),
		},
		Notification: NotificationConfig{
			EmailFrom:  env.str("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: env.str("NOTIFY_WEBHOOK_URL", ""),
		},
		AdminSeed: AdminSeedConfig{
			Name:     env.str("ADMIN_SEED_NAME", "Admin"),
			Email:    env.str("ADMIN_SEED_EMAIL", ""),
			Password: env.str("ADMIN_SEED_PASSWORD", ""),
		},
	}
	if err := env.err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadApp(env *envReader) AppConfig {
	return AppConfig{
		Name:                  env.str("APP_NAME", "backoffice"),
		Env:                   env.str("APP_ENV", "development"),
		Host:                  env.str("APP_HOST", "0.0.0.0"),
		Port:                  env.str("APP_PORT", "4000"),
		Version:               env.str("APP_VERSION", "dev"),
		Timezone:              env.str("APP_TIMEZONE", "UTC"),
		RequestTimeoutSeconds: env.intVal("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
	}
}

func loadPostgres(env *envReader) PostgresConfig {
	return PostgresConfig{
		DSN:            env.str("POSTGRES_DSN", ""),
		MaxConns:       int32(env.intVal("POSTGRES_MAX_CONNS", 10)),
		MinConns:       int32(env.intVal("POSTGRES_MIN_CONNS", 2)),
		RunMigrations:  env.boolVal("POSTGRES_RUN_MIGRATIONS", true),
		MigrationsDir:  env.str("POSTGRES_MIGRATIONS_DIR", "migrations"),
		ConnMaxIdleSec: int32(env.intVal("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
		ConnMaxLifeSec: int32(env.intVal("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
	}
}

// Validate checks values that cannot be caught while parsing.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.App.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid APP_TIMEZONE: %w", err))
	}
	if port, err := strconv.Atoi(c.App.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid APP_PORT %q", c.App.Port))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST must be in [4,31], got %d", c.Auth.BcryptCost))
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive"))
	}
	if !c.App.IsDevelopment() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DevJWTSecret) {
		errs = append(errs, fmt.Errorf("AUTH_JWT_SECRET must be set when APP_ENV=%s", c.App.Env))
	}
	if c.AdminSeed.Email != "" && c.AdminSeed.Password == "" {
		errs = append(errs, errors.New("ADMIN_SEED_PASSWORD is required with ADMIN_SEED_EMAIL"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return a.Host + ":" + a.Port
}

// RequestTimeout is zero when no timeout is configured.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Location resolves the timezone used for calendar month boundaries.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}

// IdempotencyTTL returns how long a sale idempotency key is held.
func (s SalesConfig) IdempotencyTTL() time.Duration {
	if s.IdempotencyTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.IdempotencyTTLMinutes) * time.Minute
}

// envReader reads variables with defaults and remembers every value that
// failed to parse, so a bad environment is reported in one error.
type envReader struct {
	errs []error
}

func (r *envReader) str(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func (r *envReader) intVal(key string, fallback int) int {
	val := r.str(key, "")
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return parsed
}

func (r *envReader) boolVal(key string, fallback bool) bool {
	val := r.str(key, "")
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return parsed
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
