package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

/* Config is a helper package. It could be an external lib.
 * Values come from a `.env` file (toml) in the working directory, overridden by the environment.
 */

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	PostgresHost               string `mapstructure:"POSTGRES_HOST"`
	PostgresPort               string `mapstructure:"POSTGRES_PORT"`
	PostgresUser               string `mapstructure:"POSTGRES_USER"`
	PostgresPassword           string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB                 string `mapstructure:"POSTGRES_DB"`
	PostgresSSLMode            string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresMaxOpenConns       int    `mapstructure:"POSTGRES_MAX_OPEN_CONNS"`
	PostgresMaxIdleConns       int    `mapstructure:"POSTGRES_MAX_IDLE_CONNS"`
	PostgresConnMaxLifeMinutes int    `mapstructure:"POSTGRES_CONN_MAX_LIFE_MINUTES"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`
	// NotFoundAs404 answers 404 instead of 500 when edit or delete target a missing book
	NotFoundAs404          bool   `mapstructure:"NOT_FOUND_AS_404"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	LogJSON                bool   `mapstructure:"LOG_JSON"`
	SeedFile               string `mapstructure:"SEED_FILE"`
}

var defaults = map[string]interface{}{
	"PORT":                           "8080",
	"STORE_DRIVER":                   DriverSQLite,
	"SQLITE_PATH":                    "books.db",
	"POSTGRES_HOST":                  "localhost",
	"POSTGRES_PORT":                  "5432",
	"POSTGRES_USER":                  "",
	"POSTGRES_PASSWORD":              "",
	"POSTGRES_DB":                    "",
	"POSTGRES_SSLMODE":               "disable",
	"POSTGRES_MAX_OPEN_CONNS":        0,
	"POSTGRES_MAX_IDLE_CONNS":        0,
	"POSTGRES_CONN_MAX_LIFE_MINUTES": 0,
	"REDIS_ADDR":                     "localhost:6379",
	"REDIS_PASSWORD":                 "",
	"REDIS_DB":                       0,
	"METRICS_ENABLED":                true,
	"NOT_FOUND_AS_404":               false,
	"SHUTDOWN_TIMEOUT_SECONDS":       30,
	"LOG_JSON":                       true,
	"SEED_FILE":                      "",
}

// GetConfig reads `.env` from the working directory
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads `.env` from dir. A missing file is fine: defaults and the environment still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.StoreDriver = strings.ToLower(strings.TrimSpace(config.StoreDriver))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the settings every driver needs
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH cannot be empty for driver %s", c.StoreDriver)
		}
	case DriverPostgres:
		if err := c.ValidatePostgres(); err != nil {
			return err
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR cannot be empty for driver %s", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (expected memory, sqlite, postgres or redis)", c.StoreDriver)
	}
	if c.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS cannot be negative")
	}
	return nil
}

// ValidatePostgres checks the POSTGRES_* variables
func (c *Config) ValidatePostgres() error {
	var missing []string
	if c.PostgresHost == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.PostgresPort == "" {
		missing = append(missing, "POSTGRES_PORT")
	}
	if c.PostgresUser == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.PostgresDB == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing postgres settings: %s", strings.Join(missing, ", "))
	}
	if c.PostgresMaxOpenConns < 0 || c.PostgresMaxIdleConns < 0 || c.PostgresConnMaxLifeMinutes < 0 {
		return fmt.Errorf("postgres pool settings cannot be negative")
	}
	return nil
}

// PostgresConnectionString builds a lib/pq URL
func (c *Config) PostgresConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   c.PostgresHost + ":" + c.PostgresPort,
		Path:   c.PostgresDB,
	}
	q := u.Query()
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// GetShutdownTimeout defaults to 30 seconds
func (c *Config) GetShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// GetPostgresMaxOpenConns defaults to 25
func (c *Config) GetPostgresMaxOpenConns() int {
	if c.PostgresMaxOpenConns == 0 {
		return 25
	}
	return c.PostgresMaxOpenConns
}

// GetPostgresMaxIdleConns defaults to 5
func (c *Config) GetPostgresMaxIdleConns() int {
	if c.PostgresMaxIdleConns == 0 {
		return 5
	}
	return c.PostgresMaxIdleConns
}

// GetPostgresConnMaxLifeMinutes defaults to 5
func (c *Config) GetPostgresConnMaxLifeMinutes() int {
	if c.PostgresConnMaxLifeMinutes == 0 {
		return 5
	}
	return c.PostgresConnMaxLifeMinutes
}
