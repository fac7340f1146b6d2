package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/lubecatalog/internal/logging"
	"github.com/dmitrijs2005/lubecatalog/internal/server"
	"github.com/dmitrijs2005/lubecatalog/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
