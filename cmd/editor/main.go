package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/lubecatalog/internal/client/cli"
	"github.com/dmitrijs2005/lubecatalog/internal/client/config"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	// stdout belongs to the REPL
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
