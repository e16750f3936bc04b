package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
upstream:
  base_url: https://first-service:8443/api
  timeout: 3s
api_port: 9000
cors_origins:
  - http://localhost:3000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Upstream.BaseURL != "https://first-service:8443/api" {
		t.Errorf("BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Upstream.Timeout)
	}
	if cfg.APIPort != 9000 {
		t.Errorf("APIPort = %d, want 9000", cfg.APIPort)
	}
	if cfg.APIHost != DefaultAPIHost {
		t.Errorf("APIHost = %q, want default", cfg.APIHost)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
	if cfg.RateLimit.Burst != DefaultRateLimitBurst {
		t.Errorf("RateLimit.Burst = %d, want default", cfg.RateLimit.Burst)
	}
	if len(cfg.CORSOrigins) != 1 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.AuthEnabled() {
		t.Error("auth should be disabled without jwt_secret_key")
	}
}

func TestLoadDefaultsTimeout(t *testing.T) {
	path := writeConfig(t, "upstream:\n  base_url: https://search.local\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Upstream.Timeout != DefaultUpstreamTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Upstream.Timeout, DefaultUpstreamTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SECOND_SERVICE_UPSTREAM_BASE_URL", "https://env-upstream:9443")
	t.Setenv("SECOND_SERVICE_API_PORT", "9100")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Upstream.BaseURL != "https://env-upstream:9443" {
		t.Errorf("BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.APIPort != 9100 {
		t.Errorf("APIPort = %d, want 9100", cfg.APIPort)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Upstream:     UpstreamConfig{BaseURL: "https://search.local", Timeout: time.Second},
			APIPort:      8082,
			JWTAlgorithm: "HS256",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.Upstream.BaseURL = "" }, wantErr: true},
		{name: "unsupported scheme", mutate: func(c *Config) { c.Upstream.BaseURL = "ftp://search.local" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Upstream.Timeout = 0 }, wantErr: true},
		{name: "missing trust store", mutate: func(c *Config) { c.Upstream.TrustStore = "/nonexistent/truststore.p12" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.APIPort = 70000 }, wantErr: true},
		{name: "bad jwt algorithm", mutate: func(c *Config) { c.JWTAlgorithm = "RS256" }, wantErr: true},
		{name: "ssl cert without key", mutate: func(c *Config) { c.SSLCert = "/tmp/cert.pem" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Config{
		Upstream:     UpstreamConfig{TrustStorePassword: "changeit"},
		JWTSecretKey: "secret",
	}

	out := cfg.Redacted()
	if out.Upstream.TrustStorePassword == "changeit" || out.JWTSecretKey == "secret" {
		t.Error("secrets were not redacted")
	}
	if cfg.Upstream.TrustStorePassword != "changeit" {
		t.Error("Redacted() mutated the original config")
	}
}
