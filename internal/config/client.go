package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/daap14/repoteams/internal/team"
)

// ClientConfig configures teamctl. It is read from a YAML file and overlaid
// with TEAMCTL_* environment variables.
type ClientConfig struct {
	APIURL      string        `koanf:"api_url"`
	OrgID       string        `koanf:"org_id"`
	OrgName     string        `koanf:"org_name"`
	Provider    string        `koanf:"provider"`
	Timeout     time.Duration `koanf:"timeout"`
	SearchDelay time.Duration `koanf:"search_delay"`
}

// DefaultClientConfig returns the settings used when nothing is configured.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		APIURL:      "http://localhost:8080",
		Provider:    string(team.ProviderGitHub),
		Timeout:     15 * time.Second,
		SearchDelay: 300 * time.Millisecond,
	}
}

// LoadClient reads the YAML file at path when it exists, then applies
// environment overrides: TEAMCTL_API_URL -> api_url, etc.
func LoadClient(path string) (*ClientConfig, error) {
	k := koanf.New(".")
	cfg := DefaultClientConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("TEAMCTL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TEAMCTL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the organization is identified and the provider is known.
func (c *ClientConfig) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	if c.OrgID == "" {
		return errors.New("org_id is required")
	}
	if _, err := uuid.Parse(c.OrgID); err != nil {
		return fmt.Errorf("org_id must be a valid UUID: %w", err)
	}
	if c.OrgName == "" {
		return errors.New("org_name is required")
	}
	if !team.Provider(c.Provider).Valid() {
		return fmt.Errorf("invalid provider %q: must be one of github, gitlab, bitbucket", c.Provider)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	if c.SearchDelay < 0 {
		return errors.New("search_delay must be non-negative")
	}
	return nil
}

// Organization returns the configured organization. Call Validate first.
func (c *ClientConfig) Organization() team.Organization {
	id, _ := uuid.Parse(c.OrgID)
	return team.Organization{ID: id, Name: c.OrgName}
}
