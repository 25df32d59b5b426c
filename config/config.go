package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Log      LogConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            string        `env:"PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT"     env-default:"120s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds the storage connection string and pool sizing.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"         env-required:"true"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"    env-default:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"    env-default:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
}

// CatalogConfig holds the Spotify client-credentials and endpoint settings.
type CatalogConfig struct {
	ClientID     string        `env:"SPOTIFY_CLIENT_ID"     env-required:"true"`
	ClientSecret string        `env:"SPOTIFY_CLIENT_SECRET" env-required:"true"`
	TokenURL     string        `env:"SPOTIFY_TOKEN_URL"     env-default:"https://accounts.spotify.com/api/token"`
	APIURL       string        `env:"SPOTIFY_API_URL"       env-default:"https://api.spotify.com/v1"`
	Timeout      time.Duration `env:"CATALOG_TIMEOUT"       env-default:"10s"`
	RateLimit    float64       `env:"CATALOG_RATE_LIMIT"    env-default:"5"`
	RateBurst    int           `env:"CATALOG_RATE_BURST"    env-default:"5"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"console"` // console or json
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
}

// LoadConfig reads the full application configuration from the environment.
// Required values have no defaults; a missing one is an error.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabaseConfig reads only the storage section, for commands that never
// talk to the catalog.
func LoadDatabaseConfig() (DatabaseConfig, error) {
	var db DatabaseConfig
	if err := cleanenv.ReadEnv(&db); err != nil {
		return DatabaseConfig{}, fmt.Errorf("failed to read database configuration from environment: %w", err)
	}
	if err := db.Validate(); err != nil {
		return DatabaseConfig{}, err
	}
	return db, nil
}

// LoadCatalogConfig reads only the Spotify section.
func LoadCatalogConfig() (CatalogConfig, error) {
	var c CatalogConfig
	if err := cleanenv.ReadEnv(&c); err != nil {
		return CatalogConfig{}, fmt.Errorf("failed to read catalog configuration from environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return CatalogConfig{}, err
	}
	return c, nil
}

// LoadLogConfig reads only the logging section. It never fails on missing
// values since every field has a default.
func LoadLogConfig() (LogConfig, error) {
	var l LogConfig
	if err := cleanenv.ReadEnv(&l); err != nil {
		return LogConfig{}, fmt.Errorf("failed to read log configuration from environment: %w", err)
	}
	if err := l.Validate(); err != nil {
		return LogConfig{}, err
	}
	return l, nil
}

func (c Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

func (c CatalogConfig) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.ClientSecret) == "" {
		return fmt.Errorf("invalid configuration: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must not be blank")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("invalid configuration: CATALOG_RATE_LIMIT and CATALOG_RATE_BURST must be positive")
	}
	return nil
}

func (l LogConfig) Validate() error {
	switch strings.ToLower(l.Format) {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("invalid configuration: LOG_FORMAT must be console or json, got %q", l.Format)
	}
}

func (d DatabaseConfig) Validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return fmt.Errorf("invalid configuration: DATABASE_URL must not be blank")
	}
	if d.MaxOpenConns <= 0 || d.MaxIdleConns < 0 {
		return fmt.Errorf("invalid configuration: DB_MAX_OPEN_CONNS must be positive and DB_MAX_IDLE_CONNS non-negative")
	}
	return nil
}
