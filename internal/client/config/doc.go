// Package config loads runtime configuration for the product editor.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via flags: -c or -config.
//     Files ending in .toml are read as TOML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     address:port of the catalog gRPC endpoint
//	-u string     username
//	-d duration   autosave delay
//	-t duration   request timeout
//
// # File schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "username": "admin",
//	  "autosave_delay": "2s",
//	  "request_timeout": "15s"
//	}
//
// or, in TOML:
//
//	server_endpoint_addr = "127.0.0.1:50051"
//	autosave_delay = "2s"
package config
