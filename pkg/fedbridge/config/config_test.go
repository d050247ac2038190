package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FEDBRIDGE_DB_DRIVER", "")
	t.Setenv("FEDBRIDGE_DB_DSN", "")
	t.Setenv("FEDBRIDGE_PROVIDER_ID", "")
	t.Setenv("PORT", "")

	cfg := Load()
	if cfg.DBDriver != "sqlite" {
		t.Errorf("Expected default driver sqlite, got %q", cfg.DBDriver)
	}
	if cfg.DBDSN != "fedbridge.db" {
		t.Errorf("Expected default DSN fedbridge.db, got %q", cfg.DBDSN)
	}
	if cfg.ProviderID != "fedbridge" {
		t.Errorf("Expected default provider fedbridge, got %q", cfg.ProviderID)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FEDBRIDGE_DB_DRIVER", "postgres")
	t.Setenv("FEDBRIDGE_DB_DSN", "host=localhost dbname=fedbridge")
	t.Setenv("FEDBRIDGE_PROVIDER_ID", "bridge-eu")
	t.Setenv("PORT", "9090")

	cfg := Load()
	if cfg.DBDriver != "postgres" {
		t.Errorf("Expected driver postgres, got %q", cfg.DBDriver)
	}
	if cfg.DBDSN != "host=localhost dbname=fedbridge" {
		t.Errorf("Expected explicit DSN, got %q", cfg.DBDSN)
	}
	if cfg.ProviderID != "bridge-eu" {
		t.Errorf("Expected provider bridge-eu, got %q", cfg.ProviderID)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %q", cfg.Port)
	}
}
