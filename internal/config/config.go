package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPAddr string `mapstructure:"http_addr"`

	BackendURI            string        `mapstructure:"backend_uri"`
	BackendTimeoutSeconds int64         `mapstructure:"backend_timeout_seconds"`
	BackendTimeout        time.Duration `mapstructure:"-"`

	SessionStore           string        `mapstructure:"session_store"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	SessionTTLSeconds      int64         `mapstructure:"session_ttl_seconds"`
	SessionCleanupSeconds  int64         `mapstructure:"session_cleanup_interval_seconds"`
	SessionTTL             time.Duration `mapstructure:"-"`
	SessionCleanupInterval time.Duration `mapstructure:"-"`

	PublishersFile       string `mapstructure:"publishers_file"`
	ContactRatePerMinute int    `mapstructure:"contact_rate_per_minute"`

	// TrustedProxiesRaw is a comma separated CIDR list. Client IPs are read
	// from X-Forwarded-For only when the peer is inside one of these ranges.
	TrustedProxiesRaw string       `mapstructure:"trusted_proxies"`
	TrustedProxies    []*net.IPNet `mapstructure:"-"`
}

// DefaultBackendURI is used when BACKEND_URI is not set.
const DefaultBackendURI = "http://localhost:8001/api"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "wikinsight")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("backend_uri", DefaultBackendURI)
	v.SetDefault("backend_timeout_seconds", 15)
	v.SetDefault("session_store", "bbolt")
	v.SetDefault("bbolt_path", "./data/sessions.db")
	v.SetDefault("session_ttl_seconds", int64((30*time.Minute)/time.Second))
	v.SetDefault("session_cleanup_interval_seconds", int64((10*time.Minute)/time.Second))
	v.SetDefault("publishers_file", "")
	v.SetDefault("contact_rate_per_minute", 5)
	v.SetDefault("trusted_proxies", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BackendURI = strings.TrimRight(strings.TrimSpace(cfg.BackendURI), "/")
	if cfg.BackendURI == "" {
		cfg.BackendURI = DefaultBackendURI
	}

	if cfg.BackendTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid backend_timeout_seconds (must be positive seconds)")
	}
	cfg.BackendTimeout = time.Duration(cfg.BackendTimeoutSeconds) * time.Second

	if cfg.SessionTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid session_ttl_seconds (must be positive seconds)")
	}
	if cfg.SessionCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid session_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.SessionTTL = time.Duration(cfg.SessionTTLSeconds) * time.Second
	cfg.SessionCleanupInterval = time.Duration(cfg.SessionCleanupSeconds) * time.Second

	if cfg.ContactRatePerMinute <= 0 {
		return nil, fmt.Errorf("invalid contact_rate_per_minute (must be positive)")
	}

	proxies, err := parseCIDRs(cfg.TrustedProxiesRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid trusted_proxies: %w", err)
	}
	cfg.TrustedProxies = proxies

	return &cfg, nil
}

func parseCIDRs(raw string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		_, ipNet, err := net.ParseCIDR(part)
		if err != nil {
			return nil, err
		}
		out = append(out, ipNet)
	}
	return out, nil
}
