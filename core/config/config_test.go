package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.App.Timezone != "Asia/Kuala_Lumpur" {
		t.Errorf("timezone = %q", cfg.App.Timezone)
	}
	if cfg.Import.MinEmailLength != 4 {
		t.Errorf("min email length = %d, want 4", cfg.Import.MinEmailLength)
	}
	if cfg.Admin.TokenTTL != 12*time.Hour {
		t.Errorf("token ttl = %s", cfg.Admin.TokenTTL)
	}
	if got, ok := GetSafe(); !ok || got != cfg {
		t.Error("Load should publish the config singleton")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("APP_PORT", "8088")
	t.Setenv("CHECKIN_CONFIRM_DELAY", "750ms")
	t.Setenv("IMPORT_MIN_EMAIL_LENGTH", "6")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.App.Port != 8088 {
		t.Errorf("port = %d", cfg.App.Port)
	}
	if cfg.Checkin.ConfirmDelay != 750*time.Millisecond {
		t.Errorf("confirm delay = %s", cfg.Checkin.ConfirmDelay)
	}
	if cfg.Import.MinEmailLength != 6 {
		t.Errorf("min email length = %d", cfg.Import.MinEmailLength)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	content := "app:\n  timezone: UTC\nasset:\n  backend: s3\n  s3:\n    bucket: event-assets\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Timezone != "UTC" || cfg.Asset.Backend != "s3" || cfg.Asset.S3.Bucket != "event-assets" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, "app.timezone"},
		{"no pin", func(c *Config) { c.Admin.PIN = ""; c.Admin.PINHash = "" }, "admin.pin"},
		{"s3 without bucket", func(c *Config) { c.Asset.Backend = "s3" }, "asset.s3.bucket"},
		{"zero min email length", func(c *Config) { c.Import.MinEmailLength = 0 }, "import.min_email_length"},
		{"negative delay", func(c *Config) { c.Checkin.ConfirmDelay = -time.Second }, "confirm_delay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Port: 7070, Timezone: "Asia/Kuala_Lumpur"},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "checkin.db"},
		Admin:    AdminConfig{PIN: "2025"},
		Import:   ImportConfig{MinEmailLength: 4},
		Asset:    AssetConfig{Backend: "database"},
	}
}
