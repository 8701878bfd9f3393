// Package config loads service configuration from a YAML file with
// environment variable overrides. The loaded Config is passed explicitly into
// the components that need it; nothing reads configuration ambiently.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration object constructed once at startup.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Advisory AdvisoryConfig `yaml:"advisory"`
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig controls persistence. An empty DSN selects the in-memory
// store, which keeps local development working without PostgreSQL.
type DatabaseConfig struct {
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_seconds"`
}

// AuthConfig holds the session signing secret and the bootstrap account.
type AuthConfig struct {
	JWTSecret         string `yaml:"jwt_secret"`
	BootstrapUsername string `yaml:"bootstrap_username"`
	BootstrapPassword string `yaml:"bootstrap_password"`
}

// AdvisoryConfig points at the external text-generation service.
type AdvisoryConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the bounded timeout for one advisory call.
func (c AdvisoryConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoggingConfig mirrors pkg/logger's configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// HTTPConfig groups middleware settings.
type HTTPConfig struct {
	AllowedOrigins    []string `yaml:"allowed_origins"`
	RequestsPerSecond int      `yaml:"requests_per_second"`
	RateBurst         int      `yaml:"rate_burst"`
	AuditLogPath      string   `yaml:"audit_log_path"`
}

// Load reads configuration from the file named by CONFIG_PATH (if set),
// applies environment overrides, and validates the result.
func Load() (*Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 4000},
		Auth: AuthConfig{
			BootstrapUsername: "admin",
			BootstrapPassword: "password123",
		},
		Advisory: AdvisoryConfig{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			MaxTokens:      300,
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{Level: "info", Format: "text", Output: "stdout"},
		HTTP: HTTPConfig{
			AllowedOrigins:    []string{"*"},
			RequestsPerSecond: 20,
			RateBurst:         40,
		},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setInt(&cfg.Server.Port, "PORT")

	setString(&cfg.Database.DSN, "DATABASE_DSN")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.BootstrapUsername, "BOOTSTRAP_USERNAME")
	setString(&cfg.Auth.BootstrapPassword, "BOOTSTRAP_PASSWORD")

	setString(&cfg.Advisory.Endpoint, "ADVISORY_ENDPOINT")
	setString(&cfg.Advisory.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Advisory.APIKey, "ADVISORY_API_KEY")
	setString(&cfg.Advisory.Model, "ADVISORY_MODEL")
	setInt(&cfg.Advisory.TimeoutSeconds, "ADVISORY_TIMEOUT_SECONDS")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required (set JWT_SECRET)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
