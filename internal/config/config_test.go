package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/test")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "test-key")
	t.Setenv("SUPABASE_URL", "https://test.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
}

func TestValidate(t *testing.T) {
	t.Run("all required keys present", func(t *testing.T) {
		setRequiredEnv(t)
		if err := Load().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("missing credentials are named", func(t *testing.T) {
		tests := []struct {
			unset string
		}{
			{"DB_CONNECTION_STRING"},
			{"GOOGLE_GEMINI_API_KEY"},
			{"SUPABASE_URL"},
			{"SUPABASE_SERVICE_KEY"},
		}
		for _, tt := range tests {
			t.Run(tt.unset, func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv(tt.unset, "")
				err := Load().Validate()
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !strings.Contains(err.Error(), tt.unset) {
					t.Errorf("error %q does not name %s", err, tt.unset)
				}
			})
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()

	if cfg.App.Port != "3000" {
		t.Errorf("Port = %q, want the default", cfg.App.Port)
	}
	if cfg.Ai.CacheTTLSecs != 300 {
		t.Errorf("CacheTTLSecs = %d, want 300", cfg.Ai.CacheTTLSecs)
	}
}
