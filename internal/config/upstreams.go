package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultUpstreamsPath = "config/upstreams.yaml"

// UpstreamSettings tunes one upstream endpoint. Zero values leave the
// corresponding setting untouched.
type UpstreamSettings struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Retries        int    `yaml:"retries"`
}

// UpstreamsConfig is the optional YAML overlay for upstream endpoints,
// used to point the service at mirrors or test fixtures per deployment.
type UpstreamsConfig struct {
	UniProt *UpstreamSettings `yaml:"uniprot"`
	Signor  *UpstreamSettings `yaml:"signor"`
}

// LoadUpstreamsConfigFromPath loads the upstreams overlay from a specific path.
func LoadUpstreamsConfigFromPath(path string) (*UpstreamsConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read upstreams config: %w", err)
	}

	var cfg UpstreamsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse upstreams config: %w", err)
	}

	for name, s := range map[string]*UpstreamSettings{"uniprot": cfg.UniProt, "signor": cfg.Signor} {
		if s == nil {
			continue
		}
		if s.TimeoutSeconds < 0 {
			return nil, fmt.Errorf("upstream %s: timeout must not be negative", name)
		}
		if s.Retries < 0 {
			return nil, fmt.Errorf("upstream %s: retries must not be negative", name)
		}
	}

	return &cfg, nil
}

// LoadUpstreamsConfigOrNil loads the overlay, returning nil when the file
// does not exist. Any other failure is an error: a present but broken
// overlay should stop startup rather than be silently ignored.
func LoadUpstreamsConfigOrNil(path string) (*UpstreamsConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadUpstreamsConfigFromPath(path)
}

// ApplyUpstreams overlays non-zero overlay values onto the configuration.
func (c *Config) ApplyUpstreams(u *UpstreamsConfig) {
	if u == nil {
		return
	}
	if s := u.UniProt; s != nil {
		if s.BaseURL != "" {
			c.UniProt.BaseURL = s.BaseURL
		}
		if s.TimeoutSeconds > 0 {
			c.UniProt.TimeoutSeconds = s.TimeoutSeconds
		}
		if s.Retries > 0 {
			c.UniProt.Retries = s.Retries
		}
	}
	if s := u.Signor; s != nil {
		if s.BaseURL != "" {
			c.Signor.BaseURL = s.BaseURL
		}
		if s.TimeoutSeconds > 0 {
			c.Signor.TimeoutSeconds = s.TimeoutSeconds
		}
	}
}
