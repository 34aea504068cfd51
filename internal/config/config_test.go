package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURI != DefaultBackendURI {
		t.Fatalf("BackendURI = %q", cfg.BackendURI)
	}
	if cfg.BackendTimeout != 15*time.Second {
		t.Fatalf("BackendTimeout = %v", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL = %v", cfg.SessionTTL)
	}
}

func TestLoadTrimsBackendURI(t *testing.T) {
	t.Setenv("BACKEND_URI", " https://insights.example/api/ ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURI != "https://insights.example/api" {
		t.Fatalf("BackendURI = %q", cfg.BackendURI)
	}
}

func TestLoadRejectsInvalidDurations(t *testing.T) {
	t.Setenv("SESSION_TTL_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero session ttl")
	}
}

func TestLoadParsesTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.0/24")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Fatalf("TrustedProxies = %v", cfg.TrustedProxies)
	}
	if cfg.TrustedProxies[1].String() != "192.168.1.0/24" {
		t.Fatalf("second proxy = %s", cfg.TrustedProxies[1])
	}
}

func TestLoadRejectsInvalidTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "not-a-cidr")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid trusted proxies")
	}
}
