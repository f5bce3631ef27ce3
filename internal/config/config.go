package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"socialfeed/internal/logger"
)

// DevJWTSecret signs tokens in sqlite dev mode when JWT_SECRET is unset.
const DevJWTSecret = "socialfeed-dev-secret"

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	ServerPort string

	DBDriver   string
	DBURL      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string
	TokenTTL  time.Duration

	RedisURL       string
	HomeCacheTTL   time.Duration
	WorkerCount    int
	PublishTimeout time.Duration

	LogLevel  string
	LogPretty bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("HOME_CACHE_TTL", "5m")
	v.SetDefault("WORKER_COUNT", 1)
	v.SetDefault("PUBLISH_TIMEOUT", "2s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
}

// LoadConfig reads .env (if any) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Component("config").Debug().Msg("no .env file loaded, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		ServerPort: v.GetString("SERVER_PORT"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBURL:      v.GetString("DATABASE_URL"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		JWTSecret: v.GetString("JWT_SECRET"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),

		RedisURL:       v.GetString("REDIS_URL"),
		HomeCacheTTL:   v.GetDuration("HOME_CACHE_TTL"),
		WorkerCount:    v.GetInt("WORKER_COUNT"),
		PublishTimeout: v.GetDuration("PUBLISH_TIMEOUT"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogPretty: v.GetBool("LOG_PRETTY"),
	}

	if cfg.DBDriver == DriverSQLite {
		if cfg.DBURL == "" {
			cfg.DBURL = "file:socialfeed.db?_foreign_keys=on"
		}
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = DevJWTSecret
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.DBDriver != DriverSQLite {
		if c.DBURL == "" && c.DBHost == "" {
			return errors.New("DATABASE_URL or DB_HOST is required for postgres")
		}
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required")
		}
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("WORKER_COUNT must not be negative, got %d", c.WorkerCount)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBURL != "" {
		return c.DBURL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
