// Package config loads service configuration from the environment, with an
// optional YAML overlay for upstream endpoint tuning.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is the full runtime configuration of the service.
type Config struct {
	App     AppConfig
	Server  ServerConfig
	Cache   CacheConfig
	UniProt UniProtConfig
	Signor  SignorConfig
	Limits  LimitsConfig
	Logging LoggingConfig
}

// AppConfig identifies the service.
type AppConfig struct {
	Name    string `env:"APP_NAME,default=Gene Summary API"`
	Version string `env:"APP_VERSION,default=1.0.0"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host        string `env:"HOST,default=0.0.0.0"`
	Port        int    `env:"PORT,default=8000"`
	FrontendDir string `env:"FRONTEND_DIR,default=frontend"`
}

// CacheConfig controls the summary cache. TTL is expressed in seconds to
// match the deployment surface of the service.
type CacheConfig struct {
	RedisURL   string `env:"REDIS_URL,default=redis://localhost:6379"`
	TTLSeconds int    `env:"CACHE_TTL,default=86400"`
}

// TTL returns the cache expiry as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// UniProtConfig controls the protein-record client. Retries is the total
// number of attempts, not the number of retries after the first.
type UniProtConfig struct {
	BaseURL        string `env:"UNIPROT_BASE_URL,default=https://rest.uniprot.org/uniprotkb/search"`
	TimeoutSeconds int    `env:"UNIPROT_TIMEOUT,default=20"`
	Retries        int    `env:"UNIPROT_RETRIES,default=2"`
	OrganismID     int    `env:"HUMAN_ORGANISM_ID,default=9606"`
}

// Timeout returns the per-request timeout as a duration.
func (c UniProtConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SignorConfig controls the interaction-feed client.
type SignorConfig struct {
	BaseURL        string `env:"SIGNOR_BASE_URL,default=https://signor.uniroma2.it/getData.php"`
	TimeoutSeconds int    `env:"SIGNOR_TIMEOUT,default=10"`
}

// Timeout returns the per-request timeout as a duration.
func (c SignorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LimitsConfig controls client-facing throttling and CORS.
type LimitsConfig struct {
	RequestsPerMinute int    `env:"RATE_LIMIT_PER_MINUTE,default=30"`
	Burst             int    `env:"RATE_LIMIT_BURST,default=30"`
	CORSOrigins       string `env:"CORS_ORIGINS,default=*"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level      string `env:"LOG_LEVEL,default=info"`
	Format     string `env:"LOG_FORMAT,default=text"`
	Output     string `env:"LOG_OUTPUT,default=stdout"`
	FilePrefix string `env:"LOG_FILE_PREFIX,default=genesummary"`
}

// Load decodes configuration from the environment and applies the optional
// upstreams overlay file when one is present.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	upstreams, err := LoadUpstreamsConfigOrNil(upstreamsPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyUpstreams(upstreams)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot produce a working service.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %d", c.Cache.TTLSeconds)
	}
	if c.UniProt.Retries < 1 {
		return fmt.Errorf("uniprot retries must be at least 1, got %d", c.UniProt.Retries)
	}
	if c.UniProt.BaseURL == "" {
		return fmt.Errorf("uniprot base url is required")
	}
	if c.Signor.BaseURL == "" {
		return fmt.Errorf("signor base url is required")
	}
	if c.Limits.RequestsPerMinute < 1 {
		return fmt.Errorf("rate limit must be at least 1/minute, got %d", c.Limits.RequestsPerMinute)
	}
	return nil
}

func upstreamsPath() string {
	if path := os.Getenv("GENESUMMARY_UPSTREAMS"); path != "" {
		return path
	}
	return defaultUpstreamsPath
}
