package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort        = "8080"
	defaultEnvironment = "development"
	defaultPoolSize    = 10
	defaultMaxOverflow = 20
)

type Config struct {
	AppPort        string
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins []string
	Environment    string

	// Pool sizing: the pool holds at most PoolSize+MaxOverflow connections.
	PoolSize    int
	MaxOverflow int

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:        getEnv("APP_PORT", defaultPort),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		Environment:    getEnv("ENVIRONMENT", defaultEnvironment),
		PoolSize:       getEnvAsInt("DB_POOL_SIZE", defaultPoolSize),
		MaxOverflow:    getEnvAsInt("DB_MAX_OVERFLOW", defaultMaxOverflow),
		LogJSON:        strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),
	}

	// tokens minted by the frontend auth service share this secret
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("BETTER_AUTH_SECRET")
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.IsDevelopment() {
			cfg.LogLevel = "debug"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or malformed required setting.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS is not set")
	}
	for _, o := range c.AllowedOrigins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return errors.New("ALLOWED_ORIGINS entries must start with http:// or https://: " + o)
		}
	}
	if c.PoolSize <= 0 {
		return errors.New("DB_POOL_SIZE must be positive")
	}
	if c.MaxOverflow < 0 {
		return errors.New("DB_MAX_OVERFLOW must not be negative")
	}
	return nil
}

// IsDevelopment gates error details in responses.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// MaxConns is the hard upper bound of concurrently open storage connections.
func (c *Config) MaxConns() int32 {
	return int32(c.PoolSize + c.MaxOverflow)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
