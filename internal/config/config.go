package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GinMode       string
	Database      DatabaseConfig
	JWT           JWTConfig
	Session       SessionConfig
	Log           LogConfig
	AdminUsers    []string
	SeedDemoUsers bool
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type SessionConfig struct {
	Secret string
	Secure bool
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	defaultSecret   = "change-me"
	defaultTokenTTL = 30 * 24 * time.Hour
)

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	godotenv.Load()

	ttl := defaultTokenTTL
	if raw := getEnv("TOKEN_TTL", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", raw, err)
		}
		ttl = parsed
	}

	adminUsers := []string{}
	for _, name := range strings.Split(os.Getenv("ADMIN_USERS"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			adminUsers = append(adminUsers, name)
		}
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "sqlite:cashbook.db"),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", defaultSecret),
			TokenTTL: ttl,
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", defaultSecret),
			Secure: getEnv("SESSION_SECURE", "false") == "true",
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		AdminUsers:    adminUsers,
		SeedDemoUsers: getEnv("SEED_DEMO_USERS", "false") == "true",
	}, nil
}

// Validate rejects settings the server cannot start with. Default secrets
// are only accepted outside release mode.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.GinMode == "release" {
		if c.Session.Secret == defaultSecret || len(c.Session.Secret) < 16 {
			return errors.New("SESSION_SECRET must be set to at least 16 characters in release mode")
		}
		if c.JWT.Secret == defaultSecret || len(c.JWT.Secret) < 16 {
			return errors.New("JWT_SECRET must be set to at least 16 characters in release mode")
		}
	}
	return nil
}

// IsAdmin reports whether username is listed in ADMIN_USERS.
func (c *Config) IsAdmin(username string) bool {
	for _, admin := range c.AdminUsers {
		if admin == username {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
