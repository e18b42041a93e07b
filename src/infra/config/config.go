// Package config handles application configuration via environment variables.
// It uses kelseyhightower/envconfig for parsing and provides sensible defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"fastai/src/core/domain"
)

// Config holds all application configuration.
// Variable names stay flat per section, e.g. APP_PORT, DATABASE_HOSTNAME, LOG_LEVEL.
type Config struct {
	// Server configuration (APP_*)
	Server ServerConfig

	// Database configuration (DATABASE_*)
	Database DatabaseConfig

	// Logging configuration (LOG_*)
	Log LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 10s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`

	// WriteTimeout is the maximum duration before timing out writes of the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// ReadinessTimeout bounds the database probe behind /readyz (default: 2s)
	ReadinessTimeout time.Duration `envconfig:"READINESS_TIMEOUT" default:"2s"`

	// CORSOrigin is the value of Access-Control-Allow-Origin (default: *)
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// When URL is set it takes precedence over the individual fields.
type DatabaseConfig struct {
	Hostname string `envconfig:"DATABASE_HOSTNAME" default:"postgres"`
	Port     int    `envconfig:"DATABASE_PORT" default:"5432"`
	Name     string `envconfig:"DATABASE_NAME" default:"fastai"`
	User     string `envconfig:"DATABASE_USER" default:"postgres"`
	Password Secret `envconfig:"DATABASE_PASSWORD" default:"Password123!"`

	// URL overrides every other connection field when non-empty.
	URL Secret `envconfig:"DATABASE_URL"`

	// SSLMode is appended to composed URLs when set.
	SSLMode string `envconfig:"DATABASE_SSLMODE"`

	// MaxConns is the maximum number of pooled connections (default: 25)
	MaxConns int `envconfig:"DATABASE_MAX_CONNS" default:"25"`

	// MinConns is the number of connections kept open when idle (default: 0)
	MinConns int `envconfig:"DATABASE_MIN_CONNS" default:"0"`

	// ConnMaxLifetime is the maximum lifetime of a connection (default: 5m)
	ConnMaxLifetime time.Duration `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"5m"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// JSONFormat selects the JSON renderer instead of the console one.
	JSONFormat bool `envconfig:"LOG_JSON_FORMAT" default:"false"`

	// Level is one of DEBUG, INFO, WARNING, ERROR, CRITICAL, FATAL (default: INFO)
	Level LogLevel `envconfig:"LOG_LEVEL" default:"INFO"`

	// Verbose forces DEBUG output in command-line mode.
	Verbose bool `envconfig:"LOG_VERBOSE" default:"false"`
}

// LogLevel is the textual log level accepted in LOG_LEVEL.
type LogLevel string

const (
	LevelDebug    LogLevel = "DEBUG"
	LevelInfo     LogLevel = "INFO"
	LevelWarning  LogLevel = "WARNING"
	LevelError    LogLevel = "ERROR"
	LevelCritical LogLevel = "CRITICAL"
	LevelFatal    LogLevel = "FATAL"
)

// Decode implements envconfig.Decoder.
func (l *LogLevel) Decode(value string) error {
	switch lvl := LogLevel(strings.ToUpper(strings.TrimSpace(value))); lvl {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical, LevelFatal:
		*l = lvl
		return nil
	case "WARN":
		*l = LevelWarning
		return nil
	default:
		return fmt.Errorf("unknown log level %q", value)
	}
}

// Secret is a string that never renders its value in logs or fmt output.
type Secret string

const redacted = "**********"

// Value returns the raw secret.
func (s Secret) Value() string { return string(s) }

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// MarshalJSON keeps the secret out of JSON output.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ResolveURL returns the PostgreSQL connection URL.
// The DATABASE_URL override wins; otherwise the URL is composed from the
// individual fields, which requires at least a hostname and a user.
func (c *DatabaseConfig) ResolveURL() (string, error) {
	if c.URL != "" {
		u, err := url.Parse(c.URL.Value())
		if err != nil || u.Scheme == "" {
			return "", domain.NewConfigurationError("DATABASE_URL is not a valid URL")
		}
		return c.URL.Value(), nil
	}

	if strings.TrimSpace(c.Hostname) == "" {
		return "", domain.NewConfigurationError("database hostname is not set")
	}
	if strings.TrimSpace(c.User) == "" {
		return "", domain.NewConfigurationError("database user is not set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return "", domain.NewConfigurationError(fmt.Sprintf("database port %d is out of range", c.Port))
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password.Value()),
		Host:   net.JoinHostPort(c.Hostname, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String(), nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment are never overridden by it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	var cfg Config

	if err := envconfig.Process("APP", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	// Database and log variables carry their full names in the struct tags.
	// With a prefix, envconfig falls back to the bare tag name, which would
	// pick up HOSTNAME and USER from the shell.
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	return &cfg, nil
}
