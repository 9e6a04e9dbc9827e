package config

import (
	"testing"

	"github.com/rs/zerolog"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.HTTP.Address = "0.0.0.0:8000"
	cfg.HTTP.MaxUploadMB = 64
	cfg.Database = "simulacao.db"
	cfg.History.Enabled = true
	cfg.History.Limit = 50
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for an unknown log level")
	}
}

func TestValidateRejectsBadUploadLimit(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.MaxUploadMB = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for a zero upload limit")
	}
}

func TestValidateRequiresDatabaseWithHistory(t *testing.T) {
	cfg := validConfig()
	cfg.Database = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for a missing database path")
	}

	// without history the database path is unused
	cfg.History.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLogLevelMapping(t *testing.T) {
	cfg := validConfig()

	cfg.Log.Level = "warning"
	if cfg.LogLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", cfg.LogLevel())
	}

	cfg.Log.Level = "debug"
	if cfg.LogLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel())
	}
}
