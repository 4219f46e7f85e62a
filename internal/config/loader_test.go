package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
jwt:
  secret_key: test-secret
admin:
  password: s3cret
database:
  path: `+filepath.Join(dir, "db", "itam.db")+`
`)

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8000 || cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.JWT.Algorithm != "HS256" || cfg.JWT.ExpireMinutes != 1440 {
		t.Fatalf("unexpected jwt defaults: %+v", cfg.JWT)
	}
	if cfg.Admin.Username != "admin" {
		t.Fatalf("expected default admin username, got %s", cfg.Admin.Username)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Fatalf("expected default metrics path, got %s", cfg.Metrics.Path)
	}
	if _, err := os.Stat(filepath.Join(dir, "db")); err != nil {
		t.Fatalf("expected database directory to be created: %v", err)
	}
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	path := writeConfig(t, `
admin:
  password: s3cret
database:
  path: ":memory:"
`)
	if _, err := loadConfigFromFile(path); err == nil || !strings.Contains(err.Error(), "JWT") {
		t.Fatalf("expected JWT secret error, got %v", err)
	}
}

func TestLoadConfigPostgresNeedsDSN(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret_key: test-secret
admin:
  password: s3cret
database:
  driver: postgres
`)
	if _, err := loadConfigFromFile(path); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("ITAM_JWT_SECRET_KEY", "from-env")
	t.Setenv("ITAM_SERVER_PORT", "9100")
	path := writeConfig(t, `
jwt:
  secret_key: from-file
admin:
  password: s3cret
database:
  path: ":memory:"
`)
	cfg, err := loadConfigFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWT.SecretKey != "from-env" {
		t.Fatalf("expected env override, got %s", cfg.JWT.SecretKey)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("expected port 9100, got %d", cfg.Server.Port)
	}
}
