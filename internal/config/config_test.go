package config

import (
	"testing"
	"time"

	"github.com/fantasta-tools/asta-ledger/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected app env %q, got %q", EnvDev, cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected http addr :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.ServiceName != "asta-ledger-api" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if cfg.WardenIntrospectPath != "/v1/auth/introspect" {
		t.Fatalf("unexpected introspect path %q", cfg.WardenIntrospectPath)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != time.Minute {
		t.Fatalf("unexpected cache defaults: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if !cfg.WardenCircuitEnabled || cfg.WardenCircuitFailureCount != 3 {
		t.Fatalf("unexpected circuit defaults: enabled=%v failures=%d", cfg.WardenCircuitEnabled, cfg.WardenCircuitFailureCount)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("expected info log level, got %v", cfg.LogLevel)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when UPTRACE_ENABLED=true without DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=https://token@uptrace.dev/1234")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UptraceDSN != "https://token@uptrace.dev/1234" {
		t.Fatalf("unexpected uptrace dsn %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when PYROSCOPE_ENABLED=true without server address")
	}
}

func TestLoad_WardenCircuitValidation(t *testing.T) {
	t.Setenv("WARDEN_CIRCUIT_FAILURE_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for WARDEN_CIRCUIT_FAILURE_COUNT=0")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("APP_READ_TIMEOUT", "banana")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_READ_TIMEOUT")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	cases := []struct {
		raw  string
		want logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"WARN", logging.LevelWarn},
		{"warning", logging.LevelWarn},
		{"error", logging.LevelError},
		{"nonsense", logging.LevelInfo},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			t.Setenv("APP_LOG_LEVEL", tc.raw)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if cfg.LogLevel != tc.want {
				t.Fatalf("expected level %v, got %v", tc.want, cfg.LogLevel)
			}
		})
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://asta.example.com, https://staging.asta.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://staging.asta.example.com" {
		t.Fatalf("unexpected second origin %q", cfg.CORSAllowedOrigins[1])
	}
}
