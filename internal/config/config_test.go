package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		RateLimitPerMinute: 60,
		ShutdownTimeout:    30 * time.Second,
		DataBackend:        "sqlite",
		SQLiteDBPath:       "./data/lupa.db",
		AMQPExchange:       "lupa",
		AMQPQueue:          "ledger_events",
		GoogleSheetName:    "Lancamentos",
		OverdueSchedule:    "@daily",
		DashboardCacheTTL:  30 * time.Second,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"memory backend", func(c *Config) { c.DataBackend = "memory"; c.SQLiteDBPath = "" }, ""},
		{"postgres backend", func(c *Config) {
			c.DataBackend = "postgres"
			c.DatabaseURL = "postgres://lupa@localhost/lupa"
		}, ""},
		{"amqp configured", func(c *Config) { c.AMQPURL = "amqps://user:pw@broker:5671/" }, ""},
		{"tint logs", func(c *Config) { c.LogFormat = "tint"; c.LogLevel = "debug" }, ""},
		{"cron expression", func(c *Config) { c.OverdueSchedule = "0 6 * * *" }, ""},

		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port 'abc': must be a number"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port 70000: must be between 1 and 65535"},
		{"unknown backend", func(c *Config) { c.DataBackend = "sheets" }, "invalid data backend 'sheets': must be one of [memory sqlite postgres]"},
		{"sqlite without path", func(c *Config) { c.SQLiteDBPath = "" }, "SQLite database path cannot be empty"},
		{"postgres without url", func(c *Config) { c.DataBackend = "postgres" }, "DATABASE_URL is required"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://broker" }, "invalid AMQP URL scheme 'http'"},
		{"amqp without queue", func(c *Config) {
			c.AMQPURL = "amqp://localhost"
			c.AMQPQueue = ""
		}, "AMQP queue name cannot be empty"},
		{"spreadsheet without sheet name", func(c *Config) {
			c.GoogleSpreadsheetID = "abc"
			c.GoogleSheetName = ""
		}, "Google Sheet name is required"},
		{"missing service account file", func(c *Config) {
			c.GoogleServiceAccountFile = filepath.Join(os.TempDir(), "lupa-does-not-exist.json")
		}, "Google service account file does not exist"},
		{"bad schedule", func(c *Config) { c.OverdueSchedule = "sometimes" }, "invalid overdue schedule 'sometimes'"},
		{"zero cache ttl", func(c *Config) { c.DashboardCacheTTL = 0 }, "invalid dashboard cache TTL"},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, "invalid rate limit 0"},
		{"short shutdown", func(c *Config) { c.ShutdownTimeout = time.Millisecond }, "invalid shutdown timeout"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, `unknown log level "loud"`},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format 'xml'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errorString)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Fatalf("error %q does not contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateAccumulates(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.DataBackend = "nope"
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration validation failed:\n- ") {
		t.Fatalf("unexpected prefix: %q", msg)
	}
	if n := strings.Count(msg, "\n- "); n != 3 {
		t.Fatalf("expected 3 problems, got %d: %q", n, msg)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{
			"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
			"GOOGLE_SHEET_NAME", "OVERDUE_SCHEDULE", "DASHBOARD_CACHE_TTL", "RATE_LIMIT_PER_MINUTE",
			"SEED_DEMO", "LOG_FORMAT", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "GOOGLE_SPREADSHEET_ID",
			"GOOGLE_SERVICE_ACCOUNT_FILE", "DATABASE_URL",
		} {
			t.Setenv(k, "")
		}
		cfg := Load()
		if cfg.Port != "8081" || cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "./data/lupa.db" {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.AMQPExchange != "lupa" || cfg.AMQPQueue != "ledger_events" || cfg.EventsEnabled() {
			t.Fatalf("unexpected AMQP defaults: %+v", cfg)
		}
		if cfg.GoogleSheetName != "Lancamentos" || cfg.SheetsEnabled() {
			t.Fatalf("unexpected sheets defaults: %+v", cfg)
		}
		if cfg.OverdueSchedule != "@daily" || cfg.DashboardCacheTTL != 30*time.Second || cfg.RateLimitPerMinute != 60 {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.SeedDemo || cfg.LogFormat != "text" || cfg.ShutdownTimeout != 30*time.Second {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("defaults must validate: %v", err)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("DATA_BACKEND", "memory")
		t.Setenv("AMQP_URL", "amqp://localhost")
		t.Setenv("DASHBOARD_CACHE_TTL", "5m")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
		t.Setenv("SEED_DEMO", "true")
		t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-1")

		cfg := Load()
		if cfg.Port != "9000" || cfg.DataBackend != "memory" || !cfg.EventsEnabled() || !cfg.SheetsEnabled() {
			t.Fatalf("overrides not applied: %+v", cfg)
		}
		if cfg.DashboardCacheTTL != 5*time.Minute || cfg.RateLimitPerMinute != 10 || !cfg.SeedDemo {
			t.Fatalf("overrides not applied: %+v", cfg)
		}
	})

	t.Run("unparsable values keep defaults", func(t *testing.T) {
		t.Setenv("DASHBOARD_CACHE_TTL", "soon")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "many")
		t.Setenv("SEED_DEMO", "maybe")
		cfg := Load()
		if cfg.DashboardCacheTTL != 30*time.Second || cfg.RateLimitPerMinute != 60 || cfg.SeedDemo {
			t.Fatalf("bad values should fall back: %+v", cfg)
		}
	})
}
