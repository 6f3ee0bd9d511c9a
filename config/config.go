package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StyleORM      = "orm"
	StyleCriteria = "criteria"
	StyleNative   = "native"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig `envPrefix:"DB_"`
	App      AppConfig      `envPrefix:"APP_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `env:"DRIVER" envDefault:"postgres"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"catalog"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	Schema   string `env:"SCHEMA" envDefault:"public"`

	// Path and Memory apply to the sqlite driver only.
	Path   string `env:"PATH" envDefault:"catalog.db"`
	Memory bool   `env:"MEMORY"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`

	QueryLog     bool `env:"QUERY_LOG" envDefault:"true"`
	QueryLogSize int  `env:"QUERY_LOG_SIZE" envDefault:"100"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment string `env:"ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`
	// CategoryStyle selects the CategoryDAO served over HTTP.
	CategoryStyle string `env:"CATEGORY_STYLE" envDefault:"orm"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.App.CategoryStyle {
	case StyleORM, StyleCriteria, StyleNative:
	default:
		return errors.Errorf("unsupported category style %q", c.App.CategoryStyle)
	}
	if c.Database.QueryLogSize < 1 {
		return errors.New("query log size must be at least 1")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log level")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unsupported log format %q", c.Log.Format)
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == DriverSQLite {
		q := url.Values{}
		if c.Memory {
			q.Set("mode", "memory")
			q.Set("cache", "shared")
		}
		q.Set("_foreign_keys", "1")
		return "file:" + c.Path + "?" + q.Encode()
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Schema)
}

// Configure applies the level and format to the standard logrus logger.
func (c *LogConfig) Configure() {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
