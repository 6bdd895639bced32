package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	SignalNumber    string
	SignalGroupID   string
	AffiliateLink   string
	AdminNumber     string
	DatabaseURI     string
	DBPoolSize      int
	WebhookURL      string
	WebhookEnabled  bool
	WebhookTimeout  time.Duration
	WebhookRetries  int
	PollInterval    time.Duration
	MaxRetries      int
	SendTimeout     time.Duration
	ReceiveTimeout  time.Duration
	TokenLength     int
	Timezone        string
	TemplatesFile   string
	LogDir          string
	RunAddress      string
	ShutdownTimeout time.Duration
}

const (
	defaultDBPoolSize      = 5
	defaultWebhookTimeout  = 10 * time.Second
	defaultWebhookRetries  = 3
	defaultPollInterval    = 5 * time.Second
	defaultMaxRetries      = 3
	defaultSendTimeout     = 30 * time.Second
	defaultReceiveTimeout  = 10 * time.Second
	defaultTokenLength     = 12
	defaultTimezone        = "Europe/Paris"
	defaultTemplatesFile   = "config/templates.yaml"
	defaultLogDir          = "logs"
	defaultRunAddress      = ":8080"
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		SignalNumber:    getString(lookup, "SIGNAL_NUMBER", ""),
		SignalGroupID:   getString(lookup, "SIGNAL_GROUP_ID", ""),
		AffiliateLink:   getString(lookup, "AFFILIATE_LINK", ""),
		AdminNumber:     getString(lookup, "ADMIN_PHONE_NUMBER", ""),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		DBPoolSize:      getInt(lookup, "DB_POOL_SIZE", defaultDBPoolSize),
		WebhookURL:      getString(lookup, "WEBHOOK_URL", ""),
		WebhookEnabled:  getBool(lookup, "WEBHOOK_ENABLED", false),
		WebhookTimeout:  getDuration(lookup, "WEBHOOK_TIMEOUT", defaultWebhookTimeout),
		WebhookRetries:  getInt(lookup, "WEBHOOK_RETRIES", defaultWebhookRetries),
		PollInterval:    getDuration(lookup, "POLL_INTERVAL", defaultPollInterval),
		MaxRetries:      getInt(lookup, "MAX_RETRIES", defaultMaxRetries),
		SendTimeout:     getDuration(lookup, "SEND_TIMEOUT", defaultSendTimeout),
		ReceiveTimeout:  getDuration(lookup, "RECEIVE_TIMEOUT", defaultReceiveTimeout),
		TokenLength:     getInt(lookup, "TOKEN_LENGTH", defaultTokenLength),
		Timezone:        getString(lookup, "TIMEZONE", defaultTimezone),
		TemplatesFile:   getString(lookup, "TEMPLATES_FILE", defaultTemplatesFile),
		LogDir:          getString(lookup, "LOG_DIR", defaultLogDir),
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("ordernotify", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.PollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP status server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.TemplatesFile, "templates", cfg.TemplatesFile, "Message templates YAML file")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between poll iterations")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "Delivery attempts per message")
	fs.IntVar(&cfg.TokenLength, "token-length", cfg.TokenLength, "Generated token length")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.DBPoolSize <= 0 {
		cfg.DBPoolSize = defaultDBPoolSize
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	if cfg.WebhookRetries <= 0 {
		cfg.WebhookRetries = defaultWebhookRetries
	}

	if cfg.TokenLength <= 0 {
		cfg.TokenLength = defaultTokenLength
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	required := []struct {
		name  string
		value string
	}{
		{"SIGNAL_NUMBER", cfg.SignalNumber},
		{"SIGNAL_GROUP_ID", cfg.SignalGroupID},
		{"AFFILIATE_LINK", cfg.AffiliateLink},
		{"ADMIN_PHONE_NUMBER", cfg.AdminNumber},
		{"DATABASE_URI", cfg.DatabaseURI},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%s must be provided", r.name)
		}
	}

	if cfg.WebhookEnabled && cfg.WebhookURL == "" {
		return nil, fmt.Errorf("WEBHOOK_URL must be provided when webhook is enabled")
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location resolves the configured timezone. Load already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
