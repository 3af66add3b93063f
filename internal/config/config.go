package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Generator GeneratorConfig `yaml:"generator"`
	Import    ImportConfig    `yaml:"import"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// AuthConfig guards mutating routes. An empty key leaves them open, which
// is only sensible behind tailscale or on localhost.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// GeneratorConfig configures the AI routine generator. Without an API key
// generation is disabled.
type GeneratorConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type ImportConfig struct {
	IncludeWarmups bool `yaml:"include_warmups"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Default returns the configuration used when no file is given: a local
// SQLite database and a localhost listener.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage:   StorageConfig{Driver: DriverSQLite, SQLitePath: "data/gymtrack.db"},
		Tailscale: TailscaleConfig{Hostname: "gymtrack", StateDir: "data/tsnet"},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix GYMTRACK_ and underscore-separated paths:
//
//	GYMTRACK_SERVER_HOST, GYMTRACK_SERVER_PORT,
//	GYMTRACK_STORAGE_DRIVER, GYMTRACK_SQLITE_PATH,
//	GYMTRACK_DB_HOST, GYMTRACK_DB_PORT, GYMTRACK_DB_NAME,
//	GYMTRACK_DB_USER, GYMTRACK_DB_PASSWORD, GYMTRACK_DB_SSLMODE,
//	GYMTRACK_AUTH_API_KEY, GYMTRACK_TAILSCALE_ENABLED,
//	GYMTRACK_GENERATOR_API_KEY, GYMTRACK_GENERATOR_MODEL, GYMTRACK_GENERATOR_BASE_URL
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("GYMTRACK_SERVER_HOST", &cfg.Server.Host)
	num("GYMTRACK_SERVER_PORT", &cfg.Server.Port)
	str("GYMTRACK_STORAGE_DRIVER", &cfg.Storage.Driver)
	str("GYMTRACK_SQLITE_PATH", &cfg.Storage.SQLitePath)
	str("GYMTRACK_DB_HOST", &cfg.Database.Host)
	num("GYMTRACK_DB_PORT", &cfg.Database.Port)
	str("GYMTRACK_DB_NAME", &cfg.Database.Name)
	str("GYMTRACK_DB_USER", &cfg.Database.User)
	str("GYMTRACK_DB_PASSWORD", &cfg.Database.Password)
	str("GYMTRACK_DB_SSLMODE", &cfg.Database.SSLMode)
	str("GYMTRACK_AUTH_API_KEY", &cfg.Auth.APIKey)
	str("GYMTRACK_GENERATOR_API_KEY", &cfg.Generator.APIKey)
	str("GYMTRACK_GENERATOR_MODEL", &cfg.Generator.Model)
	str("GYMTRACK_GENERATOR_BASE_URL", &cfg.Generator.BaseURL)
	if v := os.Getenv("GYMTRACK_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Storage.Driver)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
