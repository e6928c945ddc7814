package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/storeauth/internal/app"
	"github.com/dtroode/storeauth/internal/config"
	"github.com/dtroode/storeauth/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, err := app.OpenStore(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("failed to initialize user store", "driver", cfg.Store.Driver, "error", err)
	}

	keySet, err := app.LoadKeys(ctx, cfg)
	if err != nil {
		_ = store.Close()
		logger.Fatal("failed to load signing keys", "source", cfg.Keys.Source, "error", err)
	}

	a := app.New(cfg, store, keySet, logger)

	logAppVersion()

	err = a.Run(ctx, func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	})
	if err != nil {
		logger.Fatal("server stopped with error", "error", err)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
