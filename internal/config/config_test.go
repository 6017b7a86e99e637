package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults applied",
			env:  map[string]string{},
			want: &Config{
				SettingsPath: "./data/settings.json",
				DatabasePath: "./data/feedback.db",
				LogLevel:     "info",
				AllowedUsers: nil,
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "tok",
				"SETTINGS_PATH":      "/tmp/settings.json",
				"DATABASE_PATH":      "/tmp/feedback.db",
				"LOG_LEVEL":          "debug",
				"ADMIN_SECRET":       "s3cret",
				"ALLOWED_USERS":      "111,222,333",
			},
			want: &Config{
				TelegramBotToken: "tok",
				SettingsPath:     "/tmp/settings.json",
				DatabasePath:     "/tmp/feedback.db",
				LogLevel:         "debug",
				AdminSecret:      "s3cret",
				AllowedUsers:     []int64{111, 222, 333},
			},
		},
		{
			name: "allowed users with spaces",
			env: map[string]string{
				"ALLOWED_USERS": " 10 , 20 , ",
			},
			want: &Config{
				SettingsPath: "./data/settings.json",
				DatabasePath: "./data/feedback.db",
				LogLevel:     "info",
				AllowedUsers: []int64{10, 20},
			},
		},
		{
			name: "invalid user id",
			env: map[string]string{
				"ALLOWED_USERS": "123,abc",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"TELEGRAM_BOT_TOKEN", "SETTINGS_PATH", "DATABASE_PATH", "LOG_LEVEL", "ADMIN_SECRET", "ALLOWED_USERS"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRequireToken(t *testing.T) {
	if err := (&Config{}).RequireToken(); !errors.Is(err, ErrMissingToken) {
		t.Errorf("RequireToken() error = %v, want ErrMissingToken", err)
	}
	if err := (&Config{TelegramBotToken: "tok"}).RequireToken(); err != nil {
		t.Errorf("RequireToken() error = %v, want nil", err)
	}
}

func TestIsUserAllowed(t *testing.T) {
	tests := []struct {
		name         string
		allowedUsers []int64
		userID       int64
		want         bool
	}{
		{
			name:         "empty list allows everyone",
			allowedUsers: nil,
			userID:       42,
			want:         true,
		},
		{
			name:         "user in list",
			allowedUsers: []int64{10, 20, 30},
			userID:       20,
			want:         true,
		},
		{
			name:         "user not in list",
			allowedUsers: []int64{10, 20, 30},
			userID:       99,
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AllowedUsers: tt.allowedUsers}
			got := cfg.IsUserAllowed(tt.userID)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("IsUserAllowed() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		given      string
		want       bool
	}{
		{name: "match", configured: "s3cret", given: "s3cret", want: true},
		{name: "mismatch", configured: "s3cret", given: "guess", want: false},
		{name: "prefix", configured: "s3cret", given: "s3c", want: false},
		{name: "unset secret never unlocks", configured: "", given: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AdminSecret: tt.configured}
			if diff := cmp.Diff(tt.want, cfg.IsAdmin(tt.given)); diff != "" {
				t.Errorf("IsAdmin() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
