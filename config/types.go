package config

import "time"

// Config is the top-level navcache configuration, corresponding to .navcache.yml.
type Config struct {
	Endpoint        string        `yaml:"endpoint" koanf:"endpoint"`
	Action          string        `yaml:"action" koanf:"action"`
	SessionToken    string        `yaml:"session_token" koanf:"session_token"`
	RouteParam      string        `yaml:"route_param" koanf:"route_param"`
	DefaultRoute    string        `yaml:"default_route" koanf:"default_route"`
	Routes          []RouteConfig `yaml:"routes" koanf:"routes"`
	FetchTimeoutMS  int           `yaml:"fetch_timeout_ms" koanf:"fetch_timeout_ms"`
	WarmConcurrency int           `yaml:"warm_concurrency" koanf:"warm_concurrency"`
	Journal         JournalConfig `yaml:"journal" koanf:"journal"`
	Server          ServerConfig  `yaml:"server" koanf:"server"`
}

// RouteConfig is one entry of the closed route set.
type RouteConfig struct {
	ID    string `yaml:"id" koanf:"id"`
	Title string `yaml:"title" koanf:"title"`
}

// JournalConfig holds visit journal settings. An empty path disables the journal.
type JournalConfig struct {
	Path      string `yaml:"path" koanf:"path"`
	Buffer    int    `yaml:"buffer" koanf:"buffer"`
	WriteBack bool   `yaml:"write_back" koanf:"write_back"`
}

// ServerConfig holds settings for the development fragment endpoint.
type ServerConfig struct {
	Addr            string `yaml:"addr" koanf:"addr"`
	PagesDir        string `yaml:"pages_dir" koanf:"pages_dir"`
	Token           string `yaml:"token" koanf:"token"`
	DelayMS         int    `yaml:"delay_ms" koanf:"delay_ms"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// FetchTimeout is the per-request timeout, zero when none is configured.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// Delay is the artificial response delay of the development endpoint.
func (s ServerConfig) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}
