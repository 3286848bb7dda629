package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/viktorkr/authapp/internal/client/cli"
	"github.com/viktorkr/authapp/internal/client/config"
	"github.com/viktorkr/authapp/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
