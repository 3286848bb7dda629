// Package server initializes and runs the auth server: it selects the
// storage backend, applies migrations, and starts the HTTP endpoint with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/viktorkr/authapp/internal/logging"
	"github.com/viktorkr/authapp/internal/server/config"
	"github.com/viktorkr/authapp/internal/server/httpapi"
	"github.com/viktorkr/authapp/internal/server/shared/db"
	"github.com/viktorkr/authapp/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repoManager db.RepositoryManager
	userService *users.Service
}

func newRepositoryManager(ctx context.Context, c *config.Config) (db.RepositoryManager, error) {
	switch c.StoreBackend {
	case config.BackendMemory:
		return db.NewInMemoryRepositoryManager(), nil
	case config.BackendPostgres:
		return db.NewPostgresRepositoryManager(c.DatabaseDSN)
	case config.BackendDynamo:
		return db.NewDynamoRepositoryManager(ctx, users.DynamoSettings{
			Table:        c.DynamoTable,
			Region:       c.DynamoRegion,
			BaseEndpoint: c.DynamoBaseEndpoint,
			AccessKey:    c.DynamoAccessKeyID,
			SecretKey:    c.DynamoSecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown store backend: %s", c.StoreBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	s := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(s)

	rm, err := newRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := users.NewService(rm.Users(), c.SecretKey, c.AccessTokenValidityDuration, logger)

	return &App{config: c, logger: logger, repoManager: rm, userService: us}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService,
		app.config.SecretKey, app.config.CORSAllowedOrigins)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.StoreBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repoManager.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
