// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Completed-listing sources.
const (
	CompletedSourceFinding = "finding"
	CompletedSourceNone    = "none"
)

// Config is the top-level application configuration.
type Config struct {
	Server           ServerConfig      `yaml:"server"`
	Ebay             EbayConfig        `yaml:"ebay"`
	CredentialsCache CredentialsCache  `yaml:"credentials_cache"`
	Comparables      ComparablesConfig `yaml:"comparables"`
	Pricing          PricingConfig     `yaml:"pricing"`
	Database         DatabaseConfig    `yaml:"database"`
	Telemetry        TelemetryConfig   `yaml:"telemetry"`
	Schedule         ScheduleConfig    `yaml:"schedule"`
	Logging          LoggingConfig     `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RequestTimeout bounds a single valuation or routing request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// EbayConfig defines eBay API settings.
type EbayConfig struct {
	AppID           string          `yaml:"app_id"`
	CertID          string          `yaml:"cert_id"`
	TokenURL        string          `yaml:"token_url"`
	BrowseURL       string          `yaml:"browse_url"`
	FindingURL      string          `yaml:"finding_url"`
	AnalyticsURL    string          `yaml:"analytics_url"`
	Marketplace     string          `yaml:"marketplace"`
	GlobalID        string          `yaml:"global_id"`
	Scope           string          `yaml:"scope"`
	CompletedSource string          `yaml:"completed_source"` // finding, none
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// Enabled reports whether marketplace credentials are configured.
func (e *EbayConfig) Enabled() bool {
	return e.AppID != "" && e.CertID != ""
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// CredentialsCache configures the Redis cache shared by replicas for
// marketplace access tokens.
type CredentialsCache struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// ComparablesConfig bounds the comparables search.
type ComparablesConfig struct {
	MaxQueries         int           `yaml:"max_queries"`
	PerQueryLimit      int           `yaml:"per_query_limit"`
	TargetComparables  int           `yaml:"target_comparables"`
	CallTimeout        time.Duration `yaml:"call_timeout"`
	EstimateSampleSize int           `yaml:"estimate_sample_size"`
}

// PricingConfig points at an optional YAML file overriding the built-in
// lookup tables.
type PricingConfig struct {
	TablesFile string `yaml:"tables_file"`
}

// DatabaseConfig defines PostgreSQL connection settings. An empty host
// disables audit persistence.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a database is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// TelemetryConfig defines OpenTelemetry tracing settings. An empty endpoint
// disables export.
type TelemetryConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// ScheduleConfig defines background job intervals. A negative interval
// disables the job.
type ScheduleConfig struct {
	TokenRefreshInterval time.Duration `yaml:"token_refresh_interval"`
	QuotaPollInterval    time.Duration `yaml:"quota_poll_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied and no
// external services enabled.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyEbayDefaults(&cfg.Ebay)
	applyCredentialsCacheDefaults(&cfg.CredentialsCache)
	applyComparablesDefaults(&cfg.Comparables)
	applyDatabaseDefaults(&cfg.Database)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 60 * time.Second
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 45 * time.Second
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.BrowseURL == "" {
		e.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if e.FindingURL == "" {
		e.FindingURL = "https://svcs.ebay.com/services/search/FindingService/v1"
	}
	if e.AnalyticsURL == "" {
		e.AnalyticsURL = "https://api.ebay.com/developer/analytics/v1_beta/rate_limit/"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_US"
	}
	if e.GlobalID == "" {
		e.GlobalID = "EBAY-US"
	}
	if e.Scope == "" {
		e.Scope = "https://api.ebay.com/oauth/api_scope"
	}
	if e.CompletedSource == "" {
		e.CompletedSource = CompletedSourceFinding
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyCredentialsCacheDefaults(c *CredentialsCache) {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "rr:ebay:token:"
	}
}

func applyComparablesDefaults(c *ComparablesConfig) {
	if c.MaxQueries == 0 {
		c.MaxQueries = 3
	}
	if c.PerQueryLimit == 0 {
		c.PerQueryLimit = 50
	}
	if c.TargetComparables == 0 {
		c.TargetComparables = 20
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.EstimateSampleSize == 0 {
		c.EstimateSampleSize = 10
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "resale-router"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.TokenRefreshInterval == 0 {
		s.TokenRefreshInterval = 90 * time.Minute
	}
	if s.QuotaPollInterval == 0 {
		s.QuotaPollInterval = 15 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}

	if (cfg.Ebay.AppID == "") != (cfg.Ebay.CertID == "") {
		errs = append(errs, errors.New("ebay.app_id and ebay.cert_id must be set together"))
	}
	switch cfg.Ebay.CompletedSource {
	case CompletedSourceFinding, CompletedSourceNone:
	default:
		errs = append(errs, fmt.Errorf(
			"ebay.completed_source must be one of: finding, none (got %q)",
			cfg.Ebay.CompletedSource,
		))
	}
	if cfg.Ebay.RateLimit.PerSecond < 0 || cfg.Ebay.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("ebay.rate_limit.per_second must be >= 0 and burst >= 1"))
	}

	c := cfg.Comparables
	if c.MaxQueries < 1 || c.PerQueryLimit < 1 || c.TargetComparables < 1 || c.EstimateSampleSize < 1 {
		errs = append(errs, errors.New("comparables limits must be positive"))
	}
	if c.CallTimeout < 0 {
		errs = append(errs, errors.New("comparables.call_timeout must not be negative"))
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, errors.New("database.user is required when database.host is set"))
		}
	}

	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf(
			"telemetry.sample_ratio must be in [0, 1] (got %v)", cfg.Telemetry.SampleRatio,
		))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
