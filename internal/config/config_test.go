package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// configEnvVars lists every variable Load reads, so tests can pin the
// environment regardless of what the host shell exports.
var configEnvVars = []string{
	"APP_NAME", "APP_VERSION",
	"HOST", "PORT", "FRONTEND_DIR",
	"REDIS_URL", "CACHE_TTL",
	"UNIPROT_BASE_URL", "UNIPROT_TIMEOUT", "UNIPROT_RETRIES", "HUMAN_ORGANISM_ID",
	"SIGNOR_BASE_URL", "SIGNOR_TIMEOUT",
	"RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST", "CORS_ORIGINS",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "LOG_FILE_PREFIX",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
	t.Setenv("GENESUMMARY_UPSTREAMS", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "Gene Summary API" || cfg.App.Version != "1.0.0" {
		t.Fatalf("unexpected app identity: %+v", cfg.App)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8000 {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Server.FrontendDir != "frontend" {
		t.Fatalf("unexpected frontend dir: %q", cfg.Server.FrontendDir)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379" {
		t.Fatalf("unexpected redis url: %q", cfg.Cache.RedisURL)
	}
	if cfg.Cache.TTL() != 24*time.Hour {
		t.Fatalf("unexpected cache ttl: %v", cfg.Cache.TTL())
	}
	if cfg.UniProt.BaseURL != "https://rest.uniprot.org/uniprotkb/search" {
		t.Fatalf("unexpected uniprot url: %q", cfg.UniProt.BaseURL)
	}
	if cfg.UniProt.Timeout() != 20*time.Second || cfg.UniProt.Retries != 2 {
		t.Fatalf("unexpected uniprot tuning: %+v", cfg.UniProt)
	}
	if cfg.UniProt.OrganismID != 9606 {
		t.Fatalf("unexpected organism id: %d", cfg.UniProt.OrganismID)
	}
	if cfg.Signor.BaseURL != "https://signor.uniroma2.it/getData.php" {
		t.Fatalf("unexpected signor url: %q", cfg.Signor.BaseURL)
	}
	if cfg.Signor.Timeout() != 10*time.Second {
		t.Fatalf("unexpected signor timeout: %v", cfg.Signor.Timeout())
	}
	if cfg.Limits.RequestsPerMinute != 30 || cfg.Limits.Burst != 30 || cfg.Limits.CORSOrigins != "*" {
		t.Fatalf("unexpected limits: %+v", cfg.Limits)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" || cfg.Logging.Output != "stdout" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "60")
	t.Setenv("UNIPROT_RETRIES", "5")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL() != time.Minute {
		t.Fatalf("expected ttl override, got %v", cfg.Cache.TTL())
	}
	if cfg.UniProt.Retries != 5 {
		t.Fatalf("expected retries override, got %d", cfg.UniProt.Retries)
	}
	if cfg.Limits.CORSOrigins != "http://a.example,http://b.example" {
		t.Fatalf("expected origins override, got %q", cfg.Limits.CORSOrigins)
	}
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed PORT")
	}
}

func TestLoadAppliesUpstreamsOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("UNIPROT_BASE_URL", "http://env.example/search")
	t.Setenv("UNIPROT_TIMEOUT", "7")

	overlay := filepath.Join(t.TempDir(), "upstreams.yaml")
	data := "uniprot:\n  base_url: http://overlay.example/search\n  retries: 4\nsignor:\n  timeout_seconds: 3\n"
	if err := os.WriteFile(overlay, []byte(data), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("GENESUMMARY_UPSTREAMS", overlay)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UniProt.BaseURL != "http://overlay.example/search" {
		t.Fatalf("overlay should win over environment, got %q", cfg.UniProt.BaseURL)
	}
	if cfg.UniProt.Timeout() != 7*time.Second {
		t.Fatalf("zero overlay timeout should keep env value, got %v", cfg.UniProt.Timeout())
	}
	if cfg.UniProt.Retries != 4 {
		t.Fatalf("expected overlay retries, got %d", cfg.UniProt.Retries)
	}
	if cfg.Signor.Timeout() != 3*time.Second {
		t.Fatalf("expected overlay signor timeout, got %v", cfg.Signor.Timeout())
	}
}

func TestLoadRejectsBrokenOverlay(t *testing.T) {
	clearEnv(t)
	overlay := filepath.Join(t.TempDir(), "upstreams.yaml")
	if err := os.WriteFile(overlay, []byte("uniprot: ["), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("GENESUMMARY_UPSTREAMS", overlay)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed overlay")
	}
}

func TestLoadUpstreamsConfigOrNilMissingFile(t *testing.T) {
	cfg, err := LoadUpstreamsConfigOrNil(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing overlay should not error: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil config, got %+v", cfg)
	}
}

func TestLoadUpstreamsConfigRejectsNegativeValues(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "upstreams.yaml")
	if err := os.WriteFile(overlay, []byte("uniprot:\n  timeout_seconds: -1\n"), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	if _, err := LoadUpstreamsConfigFromPath(overlay); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8000},
			Cache:   CacheConfig{TTLSeconds: 60},
			UniProt: UniProtConfig{BaseURL: "http://u.example", Retries: 1},
			Signor:  SignorConfig{BaseURL: "http://s.example"},
			Limits:  LimitsConfig{RequestsPerMinute: 30},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"ttl zero", func(c *Config) { c.Cache.TTLSeconds = 0 }},
		{"retries zero", func(c *Config) { c.UniProt.Retries = 0 }},
		{"uniprot url empty", func(c *Config) { c.UniProt.BaseURL = "" }},
		{"signor url empty", func(c *Config) { c.Signor.BaseURL = "" }},
		{"rate limit zero", func(c *Config) { c.Limits.RequestsPerMinute = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestApplyUpstreamsNilIsNoop(t *testing.T) {
	cfg := &Config{UniProt: UniProtConfig{BaseURL: "http://keep.example"}}
	cfg.ApplyUpstreams(nil)
	if cfg.UniProt.BaseURL != "http://keep.example" {
		t.Fatalf("nil overlay must not mutate config, got %q", cfg.UniProt.BaseURL)
	}
}
