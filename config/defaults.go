package config

// DefaultFile is where Load looks when no path is given.
const DefaultFile = ".navcache.yml"

// DefaultRoutes is the admin's built-in route set.
var DefaultRoutes = []RouteConfig{
	{ID: "dashboard", Title: "Dashboard"},
	{ID: "brands", Title: "Brands"},
	{ID: "settings", Title: "Settings"},
	{ID: "logs", Title: "Activity Log"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Action:          "load_page",
		RouteParam:      "page",
		DefaultRoute:    "dashboard",
		Routes:          append([]RouteConfig(nil), DefaultRoutes...),
		WarmConcurrency: 4,
		Journal: JournalConfig{
			Path:      ".navcache/journal.db",
			Buffer:    64,
			WriteBack: true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8089",
		},
	}
}
