package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis backs rate-limit counters and sessions. Empty means in-process.
	RedisURL string

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// SMTP
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // "none", "tls", "starttls"

	// Kafka. When brokers are set, new-submission notifications are published
	// as events instead of being mailed directly.
	KafkaBrokers []string
	KafkaTopic   string

	// Tracing
	OTELEndpoint string

	// Anonymous submission limits
	SubmissionRateLimit  int           // per token per window
	SubmissionRateWindow time.Duration // fixed window length
	IPRateLimit          int           // per client IP per window, 0 disables

	// Site Branding
	SiteTitle string // env: SITE_TITLE, default: "Birthdays"

	// Policy holds the sharing rules; overridable from the YAML policy file.
	Policy Policy
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                  getEnv("ENV", "development"),
		ServerAddr:           getEnv("SERVER_ADDR", ":3000"),
		BaseURL:              strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/"),
		DatabaseURL:          getEnv("DATABASE_URL", "postgres://localhost:5432/birthdays?sslmode=disable"),
		RedisURL:             getEnv("REDIS_URL", ""),
		OIDCIssuer:           getEnv("OIDC_ISSUER", ""),
		OIDCClientID:         getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret:     getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:      getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:        getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:          getEnv("CORS_ORIGINS", ""),
		SMTPEnabled:          getEnv("SMTP_ENABLED", "") != "",
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:             getEnv("SMTP_FROM", ""),
		SMTPFromName:         getEnv("SMTP_FROM_NAME", "Birthdays"),
		SMTPTLS:              getEnv("SMTP_TLS", "starttls"),
		KafkaBrokers:         splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:           getEnv("KAFKA_TOPIC", "birthday.submissions"),
		OTELEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SubmissionRateLimit:  getEnvInt("SUBMISSION_RATE_LIMIT", 10),
		SubmissionRateWindow: getEnvDuration("SUBMISSION_RATE_WINDOW", time.Hour),
		IPRateLimit:          getEnvInt("IP_RATE_LIMIT", 30),
		SiteTitle:            getEnv("SITE_TITLE", "Birthdays"),
		Policy:               DefaultPolicy(),
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsEmailEnabled returns true if SMTP is switched on and minimally configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsKafkaEnabled returns true if notification events go to Kafka.
func (c *Config) IsKafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}

// ShareURL returns the public submission URL for a sharing token.
func (c *Config) ShareURL(token string) string {
	return c.BaseURL + "/share/" + token
}
