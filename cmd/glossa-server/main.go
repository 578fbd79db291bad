package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobmcallan/glossa/internal/app"
	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/server"
)

func main() {
	a, err := app.NewApp("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load before serving; a failure here is retried on first request.
	termCount := a.Warm(ctx)

	if err := a.StartWatcher(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("Glossary file watcher not started")
	}

	common.PrintBanner(os.Stderr, a.Config, a.Logger, termCount)

	srv := server.NewServer(a)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	a.Logger.Info().
		Str("url", a.Config.ServiceURL()).
		Str("mcp", a.Config.ServiceURL()+"/mcp").
		Msg("Server ready")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	a.Logger.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cancel()
	a.Close()
	common.PrintShutdownBanner(os.Stderr, a.Logger)
	a.Logger.Info().Msg("Server stopped")
}
