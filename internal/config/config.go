// Package config handles application configuration from environment variables.
package config

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMissingToken is returned by RequireToken when no bot token is configured.
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is required")

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	SettingsPath     string
	DatabasePath     string
	LogLevel         string
	AdminSecret      string
	AllowedUsers     []int64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var allowedUsers []int64
	if raw := os.Getenv("ALLOWED_USERS"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			uid, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
			}
			allowedUsers = append(allowedUsers, uid)
		}
	}

	return &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		SettingsPath:     envOrDefault("SETTINGS_PATH", "./data/settings.json"),
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/feedback.db"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		AdminSecret:      os.Getenv("ADMIN_SECRET"),
		AllowedUsers:     allowedUsers,
	}, nil
}

// RequireToken fails when the Telegram bot token is not set.
func (c *Config) RequireToken() error {
	if c.TelegramBotToken == "" {
		return ErrMissingToken
	}
	return nil
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether secret matches ADMIN_SECRET. An unset admin secret
// never matches.
func (c *Config) IsAdmin(secret string) bool {
	if c.AdminSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(c.AdminSecret)) == 1
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
