package config

import "time"

// Config holds runtime settings for the product editor.
//
// Fields:
//   - ServerEndpointAddr: host:port of the catalog gRPC endpoint.
//   - Username: account the editor logs in with; prompted for when empty.
//   - AutoSaveDelay: quiet period after the last edit before a background save.
//   - RequestTimeout: deadline applied to each interactive server call.
type Config struct {
	ServerEndpointAddr string
	Username           string
	AutoSaveDelay      time.Duration
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Username = ""
	c.AutoSaveDelay = 2 * time.Second
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if any) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
