package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8089" {
		t.Errorf("BaseURL = %q, want the local backend default", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.API.Timeout)
	}
	if cfg.Reporting.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Reporting.Timezone)
	}
	if cfg.Server.Port != "8089" {
		t.Errorf("Port = %q, want 8089", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COOP_API_BASE_URL", "https://api.example.com")
	t.Setenv("COOP_API_TIMEOUT_SECONDS", "30")
	t.Setenv("COOP_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q, want the override", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Server.Port)
	}
}

func TestLoad_BadTimeoutFallsBack(t *testing.T) {
	t.Setenv("COOP_API_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want the 15s fallback", cfg.API.Timeout)
	}
}

func TestValidateServer(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cfg.Server.Password = ""
	if err := cfg.ValidateServer(); err == nil {
		t.Fatalf("ValidateServer with no password = nil, want error")
	}

	cfg.Server.Password = "hunter2"
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("ValidateServer returned error: %v", err)
	}
}

func TestValidate_ArchiveRequiresDBName(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cfg.Archive.URI = "mongodb://localhost:27017"
	cfg.Archive.DBName = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate with archive URI but no db name = nil, want error")
	}
}
