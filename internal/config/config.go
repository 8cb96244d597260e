package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Identity IdentityConfig
	Mail     MailConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	BaseURL               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior. Service tags every log line so
// the api and seed binaries stay distinguishable in aggregated output.
type LoggerConfig struct {
	Level   string
	Service string
}

// IdentityConfig describes how to verify sessions issued by the external
// identity provider.
type IdentityConfig struct {
	JWTSecret string
	Issuer    string
}

// MailConfig covers both outward notification paths: the HTML gateway
// (HTTP API with SMTP fallback) and the templated provider used for
// created/resolved events.
type MailConfig struct {
	OpsMailbox string
	From       string

	// HTTP email API (bearer key, from/to/subject/html)
	APIKey     string
	APIBaseURL string

	// SMTP relay fallback
	SMTPHost     string
	SMTPPort     int
	SMTPSecure   bool
	SMTPUser     string
	SMTPPassword string

	// Templated provider (two keys, service/template ids, flat params)
	TemplateBaseURL    string
	TemplateServiceID  string
	TemplateCreatedID  string
	TemplateResolvedID string
	TemplatePublicKey  string
	TemplatePrivateKey string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "complaint-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			BaseURL:               getEnv("APP_BASE_URL", "http://localhost:3000"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Service: getEnv("APP_NAME", "complaint-console"),
		},
		Identity: IdentityConfig{
			JWTSecret: getEnv("IDENTITY_JWT_SECRET", "dev-secret"),
			Issuer:    getEnv("IDENTITY_ISSUER", ""),
		},
		Mail: MailConfig{
			OpsMailbox: getEnv("NOTIFY_OPS_MAILBOX", "it@gilanimobility.ae"),
			From:       getEnv("EMAIL_FROM", "onboarding@resend.dev"),

			APIKey:     os.Getenv("RESEND_API_KEY"),
			APIBaseURL: getEnv("RESEND_API_BASE_URL", "https://api.resend.com"),

			SMTPHost:     os.Getenv("EMAIL_HOST"),
			SMTPPort:     getEnvAsInt("EMAIL_PORT", 587),
			SMTPSecure:   getEnvAsBool("EMAIL_SECURE", false),
			SMTPUser:     os.Getenv("EMAIL_USER"),
			SMTPPassword: os.Getenv("EMAIL_PASSWORD"),

			TemplateBaseURL:    getEnv("EMAILJS_API_BASE_URL", "https://api.emailjs.com"),
			TemplateServiceID:  getEnv("EMAILJS_SERVICE_ID", "service_f1gdkek"),
			TemplateCreatedID:  getEnv("EMAILJS_TEMPLATE_CREATED", "template_bjen6qr"),
			TemplateResolvedID: getEnv("EMAILJS_TEMPLATE_RESOLVED", "template_ble8pmn"),
			TemplatePublicKey:  os.Getenv("EMAILJS_PUBLIC_KEY"),
			TemplatePrivateKey: os.Getenv("EMAILJS_PRIVATE_KEY"),
		},
	}

	return cfg, nil
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
