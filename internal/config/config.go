// Package config loads the service configuration once at startup. Nothing else
// in the module reads the process environment.
package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	GHL      GHLConfig
	Sheets   SheetsConfig
	Mail     MailConfig
	Queue    QueueConfig
	Log      LogConfig
}

// HTTPConfig configures the public API.
type HTTPConfig struct {
	Port           int      `env:"HTTP_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimit      int      `env:"SUBMIT_RATE_LIMIT" envDefault:"10"` // requests per minute per IP
}

// DatabaseConfig selects the local lead store.
type DatabaseConfig struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	URL    string `env:"DATABASE_URL,required"`
}

// GHLConfig holds the LeadConnector (GoHighLevel) CRM settings.
type GHLConfig struct {
	APIKey     string        `env:"GHL_API_KEY"`
	LocationID string        `env:"GHL_LOCATION_ID"`
	PipelineID string        `env:"GHL_PIPELINE_ID"`
	StageName  string        `env:"GHL_STAGE_NAME" envDefault:"New Lead"`
	BaseURL    string        `env:"GHL_BASE_URL" envDefault:"https://services.leadconnectorhq.com"`
	Timeout    time.Duration `env:"GHL_TIMEOUT" envDefault:"8s"`
	RateLimit  float64       `env:"GHL_RATE_LIMIT" envDefault:"0"`
}

// Enabled reports whether CRM sync should run at all.
func (c GHLConfig) Enabled() bool { return c.APIKey != "" }

// SheetsConfig holds the Google Sheets log settings.
type SheetsConfig struct {
	SpreadsheetID   string        `env:"GOOGLE_SHEET_ID"`
	Range           string        `env:"GOOGLE_SHEET_RANGE" envDefault:"A1"`
	CredentialsFile string        `env:"GOOGLE_SHEETS_CREDENTIALS_FILE"`
	ClientEmail     string        `env:"GOOGLE_SHEETS_CLIENT_EMAIL"`
	PrivateKey      string        `env:"GOOGLE_SHEETS_PRIVATE_KEY"`
	Timeout         time.Duration `env:"GOOGLE_SHEETS_TIMEOUT" envDefault:"8s"`
}

func (c SheetsConfig) Enabled() bool { return c.SpreadsheetID != "" }

// MailConfig configures the internal new-lead notification.
type MailConfig struct {
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
	User     string `env:"MAIL_USER"`
	Password string `env:"MAIL_PASS"`
	From     string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`
	NotifyTo string `env:"LEAD_NOTIFY_TO"`
}

func (c MailConfig) Enabled() bool { return c.Host != "" && c.NotifyTo != "" }

// QueueConfig enables the RabbitMQ replay queue.
type QueueConfig struct {
	URL string `env:"RABBITMQ_URL"`
}

func (c QueueConfig) Enabled() bool { return c.URL != "" }

// LogConfig configures logging.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file and then parses the process environment.
func Load() (*Config, error) {
	// .env is a convenience for local runs; its absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: parse env")
	}
	cfg.normalize()
	return &cfg, nil
}

// LoadFromMap parses configuration from the given variables only.
func LoadFromMap(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, eris.Wrap(err, "config: parse env")
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.GHL.APIKey = strings.TrimSpace(c.GHL.APIKey)
	c.GHL.LocationID = strings.TrimSpace(c.GHL.LocationID)
	c.GHL.PipelineID = strings.TrimSpace(c.GHL.PipelineID)
	c.GHL.BaseURL = strings.TrimRight(strings.TrimSpace(c.GHL.BaseURL), "/")
	c.Sheets.SpreadsheetID = strings.TrimSpace(c.Sheets.SpreadsheetID)
	// Private keys pasted into env files usually carry literal "\n".
	c.Sheets.PrivateKey = strings.ReplaceAll(c.Sheets.PrivateKey, `\n`, "\n")
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
}

// NewLogger builds the zap logger described by cfg.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}
