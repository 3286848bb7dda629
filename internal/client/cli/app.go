// Package cli implements the interactive command-line client: a small REPL
// for signing up, signing in, and inspecting or editing the profile.
package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"

	"github.com/viktorkr/authapp/internal/client/api"
	"github.com/viktorkr/authapp/internal/client/config"
	"github.com/viktorkr/authapp/internal/client/session"
	"github.com/viktorkr/authapp/internal/client/store"
	"github.com/viktorkr/authapp/internal/logging"
)

type App struct {
	config  *config.Config
	session *session.Manager
	client  api.Client
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)
	sm := session.NewManager(apiClient, store.NewSQLiteSessionStore(db), logger)

	return &App{
		config:  c,
		session: sm,
		client:  apiClient,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().State == session.StateAuthenticated
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	a.session.Bootstrap(ctx)

	a.Root(ctx)
}
