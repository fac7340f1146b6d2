package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/lubecatalog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     address and port of the catalog server
//	-u string     username to log in with
//	-d duration   autosave delay, e.g. 2s or 500ms
//	-t duration   timeout of interactive requests
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Username, "u", cfg.Username, "username")
	fs.DurationVar(&cfg.AutoSaveDelay, "d", cfg.AutoSaveDelay, "autosave delay")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
