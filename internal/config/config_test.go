package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
http_addr: ":9090"
database_url: "postgresql://u:p@db:5432/bosun"
amqp_url: "amqp://u:p@mq:5672/"
orders:
  base_url: "https://orders.example.com"
  token: "tok"
poll_interval: 5s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.HTTPAddr)
	}
	if cfg.DatabaseURL != "postgresql://u:p@db:5432/bosun" {
		t.Errorf("unexpected database url: %s", cfg.DatabaseURL)
	}
	if cfg.Orders.BaseURL != "https://orders.example.com" {
		t.Errorf("unexpected orders url: %s", cfg.Orders.BaseURL)
	}
	if cfg.Orders.Token != "tok" {
		t.Errorf("unexpected token: %s", cfg.Orders.Token)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("expected 5s poll interval, got %s", cfg.PollInterval)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
orders:
  base_url: "https://orders.example.com"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("expected default addr, got %s", cfg.HTTPAddr)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("expected default poll interval, got %s", cfg.PollInterval)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
http_addr: ":9090"
orders:
  base_url: "https://orders.example.com"
`)

	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("ORDERS_API_URL", "https://env.example.com")
	t.Setenv("ORDERS_API_TOKEN", "env-tok")
	t.Setenv("POLL_INTERVAL", "500ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":7070" {
		t.Errorf("env should win over file, got %s", cfg.HTTPAddr)
	}
	if cfg.Orders.BaseURL != "https://env.example.com" {
		t.Errorf("env should win over file, got %s", cfg.Orders.BaseURL)
	}
	if cfg.Orders.Token != "env-tok" {
		t.Errorf("unexpected token: %s", cfg.Orders.Token)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %s", cfg.PollInterval)
	}
}

func TestLoad_NoFile_EnvOnly(t *testing.T) {
	t.Setenv("ORDERS_API_URL", "https://env.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Orders.BaseURL != "https://env.example.com" {
		t.Errorf("unexpected orders url: %s", cfg.Orders.BaseURL)
	}
}

func TestLoad_MissingOrdersURL(t *testing.T) {
	path := writeConfig(t, `
http_addr: ":9090"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for missing orders url")
	}
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	path := writeConfig(t, `
orders:
  base_url: "https://orders.example.com"
poll_interval: -1s
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for negative poll interval")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
