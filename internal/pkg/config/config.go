package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Location  LocationConfig  `mapstructure:"location"`
	Map       MapConfig       `mapstructure:"map"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	RateLimit    int `mapstructure:"rate_limit"` // requests per minute per IP
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// LocationConfig selects and tunes the platform location service.
type LocationConfig struct {
	Source              string  `mapstructure:"source"` // "nats" | "simulated"
	DeviceID            string  `mapstructure:"device_id"`
	PermissionTimeoutMs int     `mapstructure:"permission_timeout_ms"`
	MinIntervalMs       int     `mapstructure:"min_interval_ms"`
	MinDistanceM        float64 `mapstructure:"min_distance_m"`
	AutoStart           bool    `mapstructure:"auto_start"`

	// Simulated source and device simulator only.
	Permission       string `mapstructure:"permission"` // "granted" | "denied"
	TrackFile        string `mapstructure:"track_file"`
	ReplayIntervalMs int    `mapstructure:"replay_interval_ms"`
}

// SimulatedPermission is the answer given to permission prompts by simulators.
func (l LocationConfig) SimulatedPermission() domain.Permission {
	if l.Permission == "denied" {
		return domain.PermissionDenied
	}
	return domain.PermissionGranted
}

// ReplayInterval is the delay between replayed fixes.
func (l LocationConfig) ReplayInterval() time.Duration {
	return time.Duration(l.ReplayIntervalMs) * time.Millisecond
}

// WatchOptions converts the thresholds into subscription options.
func (l LocationConfig) WatchOptions() domain.WatchOptions {
	return domain.WatchOptions{
		Accuracy:          domain.AccuracyHighest,
		MinInterval:       time.Duration(l.MinIntervalMs) * time.Millisecond,
		MinDistanceMeters: l.MinDistanceM,
	}
}

// PermissionTimeout is the bound on a permission prompt.
func (l LocationConfig) PermissionTimeout() time.Duration {
	return time.Duration(l.PermissionTimeoutMs) * time.Millisecond
}

type MapConfig struct {
	LatitudeDelta         float64 `mapstructure:"latitude_delta"`
	AspectRatio           float64 `mapstructure:"aspect_ratio"` // screen width / height
	DefaultAccuracyRadius float64 `mapstructure:"default_accuracy_radius"`
}

// Span returns the viewport span for the configured screen.
func (m MapConfig) Span() domain.Span {
	return domain.SpanFor(m.LatitudeDelta, m.AspectRatio)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", true)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("location.source", "nats")
	v.SetDefault("location.device_id", "default")
	v.SetDefault("location.permission_timeout_ms", 30000)
	v.SetDefault("location.min_interval_ms", 1000)
	v.SetDefault("location.min_distance_m", 1.0)
	v.SetDefault("location.auto_start", true)
	v.SetDefault("location.permission", "granted")
	v.SetDefault("location.track_file", "")
	v.SetDefault("location.replay_interval_ms", 1000)
	v.SetDefault("map.latitude_delta", domain.DefaultLatitudeDelta)
	v.SetDefault("map.aspect_ratio", 1.0)
	v.SetDefault("map.default_accuracy_radius", domain.DefaultAccuracyRadius)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: MYGEO_NATS_URL → nats.url
	v.SetEnvPrefix("MYGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RateLimit <= 0 {
		errs = append(errs, "server.rate_limit must be positive")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}

	switch c.Location.Source {
	case "nats":
		if c.NATS.URL == "" {
			errs = append(errs, "nats.url is required for the nats location source")
		}
		if c.Location.DeviceID == "" {
			errs = append(errs, "location.device_id is required for the nats location source")
		}
	case "simulated":
	default:
		errs = append(errs, fmt.Sprintf("location.source must be nats or simulated, got %q", c.Location.Source))
	}
	if c.Location.PermissionTimeoutMs <= 0 {
		errs = append(errs, "location.permission_timeout_ms must be positive")
	}
	if c.Location.Permission != "granted" && c.Location.Permission != "denied" {
		errs = append(errs, fmt.Sprintf("location.permission must be granted or denied, got %q", c.Location.Permission))
	}
	if c.Location.ReplayIntervalMs <= 0 {
		errs = append(errs, "location.replay_interval_ms must be positive")
	}
	if c.Location.MinIntervalMs < 0 {
		errs = append(errs, "location.min_interval_ms must not be negative")
	}
	if c.Location.MinDistanceM < 0 {
		errs = append(errs, "location.min_distance_m must not be negative")
	}

	if c.Map.LatitudeDelta <= 0 || c.Map.LatitudeDelta > 180 {
		errs = append(errs, fmt.Sprintf("map.latitude_delta must be in (0, 180], got %g", c.Map.LatitudeDelta))
	}
	if c.Map.AspectRatio <= 0 {
		errs = append(errs, "map.aspect_ratio must be positive")
	}
	if c.Map.DefaultAccuracyRadius <= 0 {
		errs = append(errs, "map.default_accuracy_radius must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
