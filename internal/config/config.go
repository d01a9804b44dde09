package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/engabdalla/portfolio-api/internal/logging"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Email providers understood by the mailer
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
)

// resendKeyPrefix marks a real Resend API key; anything else runs the contact
// form in dev mode.
const resendKeyPrefix = "re_"

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string   `env:"LOG_FILE"`
	LogRequests    bool     `env:"LOG_REQUESTS" envDefault:"false"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"65536"`

	// Per-client token bucket applied to every route
	GlobalRateRPS   float64 `env:"GLOBAL_RATE_RPS" envDefault:"10"`
	GlobalRateBurst int     `env:"GLOBAL_RATE_BURST" envDefault:"20"`

	Contact   ContactConfig
	RateStore RateStoreConfig

	// Telemetry Configuration
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure   bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"portfolio-api"`
}

// ContactConfig drives the contact submission flow
type ContactConfig struct {
	RateLimit   int           `env:"CONTACT_RATE_LIMIT" envDefault:"8"`
	RateWindow  time.Duration `env:"CONTACT_RATE_WINDOW" envDefault:"10m"`
	To          string        `env:"CONTACT_TO"`
	From        string        `env:"CONTACT_FROM"`
	SendTimeout time.Duration `env:"CONTACT_SEND_TIMEOUT" envDefault:"8s"`

	Provider     string `env:"EMAIL_PROVIDER" envDefault:"resend"`
	ResendAPIKey string `env:"RESEND_API_KEY"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
}

// RateStoreConfig selects a shared store for the contact rate limiter.
// An empty address keeps the limiter in process memory.
type RateStoreConfig struct {
	RedisAddr     string `env:"RATE_LIMIT_REDIS_ADDR"`
	RedisPassword string `env:"RATE_LIMIT_REDIS_PASSWORD"`
	RedisDB       int    `env:"RATE_LIMIT_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"RATE_LIMIT_REDIS_PREFIX" envDefault:"portfolio:contact:rl"`
}

// HasDestination reports whether both CONTACT_TO and CONTACT_FROM are set
func (c ContactConfig) HasDestination() bool {
	return strings.TrimSpace(c.To) != "" && strings.TrimSpace(c.From) != ""
}

// HasProviderCredential reports whether the selected provider can actually
// deliver mail. Without it submissions are accepted in dev mode.
func (c ContactConfig) HasProviderCredential() bool {
	switch c.ProviderName() {
	case ProviderSMTP:
		return c.SMTPHost != "" && c.SMTPPassword != ""
	default:
		return strings.HasPrefix(c.ResendAPIKey, resendKeyPrefix)
	}
}

// ProviderName normalizes EMAIL_PROVIDER
func (c ContactConfig) ProviderName() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderResend
	}
	return p
}

// IsProduction reports whether ENV=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overwrites variables that are already set
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	return Parse()
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Set default log file if not set
	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Contact.RateLimit < 0 {
		return fmt.Errorf("CONTACT_RATE_LIMIT must be >= 0")
	}
	if c.Contact.RateWindow <= 0 {
		return fmt.Errorf("CONTACT_RATE_WINDOW must be > 0")
	}
	if c.Contact.SendTimeout <= 0 {
		return fmt.Errorf("CONTACT_SEND_TIMEOUT must be > 0")
	}
	switch c.Contact.ProviderName() {
	case ProviderResend, ProviderSMTP:
	default:
		return fmt.Errorf("unknown EMAIL_PROVIDER %q", c.Contact.Provider)
	}
	if c.GlobalRateRPS <= 0 || c.GlobalRateBurst <= 0 {
		return fmt.Errorf("GLOBAL_RATE_RPS and GLOBAL_RATE_BURST must be > 0")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be > 0")
	}
	return nil
}

// LogConfig derives the logger settings
func (c *Config) LogConfig() *logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.LogLevel
	lc.File = c.LogFile
	lc.LogRequests = c.LogRequests
	return lc
}

// MaskSecret keeps the first characters of a secret for display
func MaskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "******"
}
