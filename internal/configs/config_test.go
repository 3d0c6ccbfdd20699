package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeEnvFile(t, "DATABASE_URL=postgres://localhost/analysis\nRABBITMQ_URL=amqp://localhost\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.AppName != "analysis-service" {
		t.Errorf("AppName = %q, want analysis-service", cfg.AppName)
	}
	if cfg.Rest.PORT != "8080" {
		t.Errorf("PORT = %q, want 8080", cfg.Rest.PORT)
	}
	if cfg.Scheduler.RefreshIntervalHours != 24 {
		t.Errorf("RefreshIntervalHours = %d, want 24", cfg.Scheduler.RefreshIntervalHours)
	}
	if cfg.FluentBit.Enabled {
		t.Error("FluentBit should be disabled by default")
	}
	if len(cfg.Rest.AllowedOrigins) != 1 || cfg.Rest.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v, want default localhost origin", cfg.Rest.AllowedOrigins)
	}
}

func TestLoadConfigMissingDatabaseURL(t *testing.T) {
	path := writeEnvFile(t, "RABBITMQ_URL=amqp://localhost\n")

	// DATABASE_URL может остаться от других тестов в окружении процесса
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadConfigOriginsSplit(t *testing.T) {
	path := writeEnvFile(t,
		"DATABASE_URL=postgres://localhost/analysis\n"+
			"RABBITMQ_URL=amqp://localhost\n"+
			"CORS_ALLOWED_ORIGINS=http://a.example, http://b.example\n"+
			"MARKET_REFRESH_INTERVAL_HOURS=6\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if len(cfg.Rest.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v, want 2 entries", cfg.Rest.AllowedOrigins)
	}
	if cfg.Rest.AllowedOrigins[1] != "http://b.example" {
		t.Errorf("AllowedOrigins[1] = %q, want http://b.example", cfg.Rest.AllowedOrigins[1])
	}
	if cfg.Scheduler.RefreshIntervalHours != 6 {
		t.Errorf("RefreshIntervalHours = %d, want 6", cfg.Scheduler.RefreshIntervalHours)
	}
}
