package config

import (
	"os"

	"github.com/dmitrijs2005/lubecatalog/internal/flagx"
	"github.com/dmitrijs2005/lubecatalog/internal/timex"
)

// FileConfig is the on-disk form of Config. Durations use timex.Duration so
// files can write "2s" as well as integer nanoseconds.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" toml:"server_endpoint_addr"`
	Username           string         `json:"username" toml:"username"`
	AutoSaveDelay      timex.Duration `json:"autosave_delay" toml:"autosave_delay"`
	RequestTimeout     timex.Duration `json:"request_timeout" toml:"request_timeout"`
}

// parseFile overlays cfg with the file named by -c or -config. Keys missing
// from the file leave cfg unchanged. Read and parse errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	var fc FileConfig
	if err := flagx.DecodeConfigFile(path, &fc); err != nil {
		panic(err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.Username != "" {
		cfg.Username = fc.Username
	}
	if fc.AutoSaveDelay.Duration > 0 {
		cfg.AutoSaveDelay = fc.AutoSaveDelay.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}
