package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the emergency service.
// Environment variables are automatically parsed from the MOTOGUARD_ prefix.
type Config struct {
	// Build target selects the deployment shape: local (single rider
	// device, sqlite) or server (shared backend, postgres).
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// DBDriver is derived from BuildTarget when set to "auto".
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	// Storage
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/motoguard.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Hold-to-confirm countdown shape
	CountdownTicks       int `envconfig:"COUNTDOWN_TICKS" default:"3"`
	CountdownTickSeconds int `envconfig:"COUNTDOWN_TICK_SECONDS" default:"1"`

	// SessionHistoryLimit bounds stored session history. 0 keeps the
	// built-in limit of 10.
	SessionHistoryLimit int `envconfig:"SESSION_HISTORY_LIMIT" default:"0"`

	// Location provider
	LocationMode           string  `envconfig:"LOCATION_MODE" default:"gateway"` // gateway|static
	LocationGatewayURL     string  `envconfig:"LOCATION_GATEWAY_URL" default:"http://localhost:9110"`
	LocationTimeoutSeconds int     `envconfig:"LOCATION_TIMEOUT_SECONDS" default:"10"`
	StaticLat              float64 `envconfig:"STATIC_LAT" default:"19.4326"`
	StaticLng              float64 `envconfig:"STATIC_LNG" default:"-99.1332"`

	// Reverse geocoding
	GeocoderMode string `envconfig:"GEOCODER_MODE" default:"coordinate"` // coordinate|nominatim
	NominatimURL string `envconfig:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org"`

	// Alert delivery
	NotifierMode string `envconfig:"NOTIFIER_MODE" default:"log"` // log|webhook
	WebhookURL   string `envconfig:"WEBHOOK_URL" default:""`

	// Facility lookup
	FacilityMode       string `envconfig:"FACILITY_MODE" default:"static"` // static|gateway
	FacilityGatewayURL string `envconfig:"FACILITY_GATEWAY_URL" default:""`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"10"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "server":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"sqlite": true, "postgres": true, "memory": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required when DB_DRIVER is postgres")
	}
	if c.NotifierMode == "webhook" && c.WebhookURL == "" {
		return fmt.Errorf("WEBHOOK_URL is required when NOTIFIER_MODE is webhook")
	}
	if c.FacilityMode == "gateway" && c.FacilityGatewayURL == "" {
		return fmt.Errorf("FACILITY_GATEWAY_URL is required when FACILITY_MODE is gateway")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with MOTOGUARD_
// Example: MOTOGUARD_HTTP_PORT, MOTOGUARD_BUILD_TARGET
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MOTOGUARD", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Int("countdown_ticks", cfg.CountdownTicks).
		Str("location_mode", cfg.LocationMode).
		Str("geocoder_mode", cfg.GeocoderMode).
		Str("notifier_mode", cfg.NotifierMode).
		Str("facility_mode", cfg.FacilityMode).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		BuildTarget:               "local",
		DBDriver:                  "memory",
		HTTPPort:                  8080,
		CountdownTicks:            3,
		CountdownTickSeconds:      1,
		LocationMode:              "static",
		StaticLat:                 19.4326,
		StaticLng:                 -99.1332,
		GeocoderMode:              "coordinate",
		NotifierMode:              "log",
		FacilityMode:              "static",
		LocationTimeoutSeconds:    10,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// CountdownTickDuration returns the tick interval as a duration.
func (c *Config) CountdownTickDuration() time.Duration {
	return time.Duration(c.CountdownTickSeconds) * time.Second
}

// LocationTimeout returns the acquisition timeout as a duration.
func (c *Config) LocationTimeout() time.Duration {
	return time.Duration(c.LocationTimeoutSeconds) * time.Second
}

// HealthInterval returns the checker interval as a duration.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

// HealthProbeTimeout returns the per-probe timeout as a duration.
func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}
