// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sentiment-engine/internal/server"
	"github.com/pdiddy/sentiment-engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	Long: `Serve starts the JSON API consumed by the dashboard frontend: corpus
overview, topics, emerging concerns, spikes, insights, recommendations,
alerts, and on-demand analysis. Shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	// A missing sentiment backend disables only the analyze endpoint; the
	// read-only analytics endpoints still serve.
	var analyzer server.Analyzer
	if p, err := buildPipeline(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: analyze endpoint disabled: %v\n", err)
	} else {
		analyzer = p
	}

	srv := server.New(cfg.Server, st, analyzer, cfg.Trends)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
