package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the game server.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	DB     DBConfig
	Auth   AuthConfig
	Game   GameConfig
	Env    string // "development" | "production"
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           int
	ClientOrigins  []string
	RequestTimeout time.Duration
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// DBConfig holds SQLite configuration.
type DBConfig struct {
	Path string
}

// AuthConfig holds JWT and cookie configuration.
type AuthConfig struct {
	JWTSecret   string
	ExpiresDays int
	CookieName  string
}

// GameConfig holds gameplay configuration.
type GameConfig struct {
	PresetsFile string
	DailySalt   string
	SkipZero    bool // evaluate zero-valued components by dropping them from reciprocal sums
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 5175),
			ClientOrigins:  splitList(getEnv("CLIENT_ORIGIN", "http://localhost:5173")),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_FORMAT", "json") == "pretty",
		},
		DB: DBConfig{
			Path: getEnv("DB_PATH", "./data/circuitquest.db"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", "dev_secret_change_me"),
			ExpiresDays: getEnvAsInt("JWT_EXPIRES_DAYS", 14),
			CookieName:  getEnv("COOKIE_NAME", "circuitquest_token"),
		},
		Game: GameConfig{
			PresetsFile: getEnv("PRESETS_FILE", ""),
			DailySalt:   getEnv("DAILY_SALT", "local_dev_salt"),
			SkipZero:    getEnvAsBool("SKIP_ZERO_VALUES", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c *Config) Production() bool { return c.Env == "production" }

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout: %s", c.Server.RequestTimeout)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Auth.ExpiresDays < 1 {
		return fmt.Errorf("invalid JWT expiry: %d days", c.Auth.ExpiresDays)
	}
	if c.Production() && c.Auth.JWTSecret == "dev_secret_change_me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
