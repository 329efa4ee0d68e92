// Package config loads service configuration with koanf.
//
// Sources, later overriding earlier: built-in defaults, an optional YAML file, then
// environment variables prefixed with TRAVELTINDER_ (TRAVELTINDER_HTTP_PORT -> http.port).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "TRAVELTINDER_"

type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	Log     LogConfig     `koanf:"log"`
	CORS    CORSConfig    `koanf:"cors"`
	Auth    AuthConfig    `koanf:"auth"`
	Static  StaticConfig  `koanf:"static"`
	Metrics MetricsConfig `koanf:"metrics"`

	Idempotency IdempotencyConfig `koanf:"idempotency"`
}

type HTTPConfig struct {
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"readheadertimeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdowntimeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type AuthConfig struct {
	// RateLimit is the sustained per-client request rate on credential endpoints, per second.
	RateLimit float64 `koanf:"ratelimit"`
	Burst     int     `koanf:"burst"`
	// BcryptCost is the credential digest work factor.
	BcryptCost int `koanf:"bcryptcost"`
}

type StaticConfig struct {
	// Dir holds index.html, served at /, and a static/ subdirectory served at /static/.
	Dir string `koanf:"dir"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// IdempotencyConfig bounds how long Idempotency-Key records are replayable.
type IdempotencyConfig struct {
	Retention     time.Duration `koanf:"retention"`
	PruneInterval time.Duration `koanf:"pruneinterval"`
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

func defaults() map[string]any {
	return map[string]any{
		"http.port":              8080,
		"http.readheadertimeout": 5 * time.Second,
		"http.shutdowntimeout":   10 * time.Second,
		"log.level":              "info",
		"log.format":             "text",
		"cors.origins":           []string{"*"},
		"auth.ratelimit":         5.0,
		"auth.burst":             10,
		"auth.bcryptcost":        bcrypt.DefaultCost,
		"static.dir":             "",
		"metrics.enabled":        true,

		"idempotency.retention":     24 * time.Hour,
		"idempotency.pruneinterval": 10 * time.Minute,
	}
}

// Load reads configuration. path may be empty, in which case no file is read.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults()), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformer), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be in 1..65535, got %d", c.HTTP.Port))
	}
	if c.HTTP.ReadHeaderTimeout <= 0 {
		errs = append(errs, errors.New("http.readheadertimeout must be positive"))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http.shutdowntimeout must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Auth.RateLimit <= 0 {
		errs = append(errs, errors.New("auth.ratelimit must be positive"))
	}
	if c.Auth.Burst <= 0 {
		errs = append(errs, errors.New("auth.burst must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcryptcost must be in %d..%d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Idempotency.Retention <= 0 {
		errs = append(errs, errors.New("idempotency.retention must be positive"))
	}
	if c.Idempotency.PruneInterval <= 0 {
		errs = append(errs, errors.New("idempotency.pruneinterval must be positive"))
	}
	return errors.Join(errs...)
}
