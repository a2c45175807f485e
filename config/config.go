// Package config loads navcache settings from defaults, a YAML file and the
// environment, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment overrides. A double underscore nests:
// NAVCACHE_SERVER__ADDR sets server.addr.
const EnvPrefix = "NAVCACHE_"

// ErrNoEndpoint is returned by RequireEndpoint when no endpoint is configured.
var ErrNoEndpoint = errors.New("endpoint is required")

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (NAVCACHE_*). A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps NAVCACHE_JOURNAL__WRITE_BACK to journal.write_back.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid endpoint %q: must be an http or https URL", c.Endpoint)
		}
	}

	if c.DefaultRoute == "" {
		return fmt.Errorf("default_route is required")
	}

	seen := make(map[string]bool, len(c.Routes))
	for i, r := range c.Routes {
		if r.ID == "" {
			return fmt.Errorf("routes[%d]: id is required", i)
		}
		if seen[r.ID] {
			return fmt.Errorf("routes[%d]: duplicate route %q", i, r.ID)
		}
		seen[r.ID] = true
	}
	if len(c.Routes) > 0 && !seen[c.DefaultRoute] {
		return fmt.Errorf("default_route %q is not one of routes", c.DefaultRoute)
	}

	if c.FetchTimeoutMS < 0 {
		return fmt.Errorf("fetch_timeout_ms must be non-negative")
	}
	if c.WarmConcurrency < 1 {
		return fmt.Errorf("warm_concurrency must be at least 1")
	}
	if c.Journal.WriteBack && c.Journal.Buffer < 1 {
		return fmt.Errorf("journal.buffer must be at least 1 with write_back")
	}
	if c.Server.DelayMS < 0 {
		return fmt.Errorf("server.delay_ms must be non-negative")
	}

	return nil
}

// RequireEndpoint reports ErrNoEndpoint for commands that need a real backend.
func (c *Config) RequireEndpoint() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: set endpoint in %s or %sENDPOINT", ErrNoEndpoint, DefaultFile, EnvPrefix)
	}
	return nil
}

// Title returns the configured title of route, or "" if it has none.
func (c *Config) Title(route string) string {
	for _, r := range c.Routes {
		if r.ID == route {
			return r.Title
		}
	}
	return ""
}
