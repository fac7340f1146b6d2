// Package server wires the catalog server: it opens PostgreSQL, applies
// migrations, creates the bootstrap administrator and serves gRPC until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
	"github.com/dmitrijs2005/lubecatalog/internal/server/config"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lubecatalog/internal/server/services"

	gs "github.com/dmitrijs2005/lubecatalog/internal/server/grpc"
)

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	productService *services.ProductService
	mediaService   *services.MediaService
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    services.NewUserService(db, rm, c, logger),
		productService: services.NewProductService(db, rm, logger),
		mediaService:   services.NewMediaService(db, rm, c, logger),
	}

	if err := app.ensureAdmin(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) ensureAdmin(ctx context.Context) error {
	if app.config.AdminUsername == "" {
		return nil
	}

	created, err := app.userService.EnsureAdmin(ctx, app.config.AdminUsername, app.config.AdminPassword)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			app.logger.Warn(ctx, "no administrator configured, nobody can log in", "username", app.config.AdminUsername)
			return nil
		}
		return fmt.Errorf("admin bootstrap error: %w", err)
	}
	if created {
		app.logger.Info(ctx, "administrator created", "username", app.config.AdminUsername)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.productService, app.mediaService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server stopped", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
