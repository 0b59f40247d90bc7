/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/moment-festival/momentd/internal/colors"
	"github.com/moment-festival/momentd/internal/config"
	"github.com/moment-festival/momentd/internal/logging"
	"github.com/moment-festival/momentd/internal/push"
	"github.com/moment-festival/momentd/internal/seed"
	"github.com/moment-festival/momentd/internal/server"
	"github.com/moment-festival/momentd/internal/storage"
	"github.com/moment-festival/momentd/internal/toast"
)

const serverShutdownTimeout = 10 * time.Second

var serveSeed bool

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the festival API server",
	Long: `Run the festival API server.

USAGE:
    momentd serve [OPTIONS]

OPTIONS:
    --seed          Load sample festival data before serving
    -h, --help      Show this help

Serves the REST API and the notification websocket on the configured
listen address (MOMENTD_LISTEN_ADDR, default :8080).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "Load sample festival data before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	config.Load()
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("logging disabled: " + err.Error())
	}
	defer logging.ShutdownGlobal()

	store, err := storage.NewFromConfig()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveSeed {
		if err := seed.Run(ctx, store); err != nil {
			return err
		}
		colors.Info("Sample festival data loaded")
	}

	surface := toast.NewSurface(toast.Config{
		Limit:         config.GetInt("toast_limit", 3),
		DefaultExpiry: time.Duration(config.GetInt("toast_expiry_seconds", 4)) * time.Second,
	})
	defer surface.Close()

	hub := push.NewHub()
	detach := hub.Attach(surface)
	defer detach()
	defer hub.Close()

	addr := config.Get("listen_addr", ":8080")
	srv := &http.Server{
		Addr:    addr,
		Handler: server.New(store, surface, hub).Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	colors.Info("momentd listening on " + addr)
	logging.Info("server started", "addr", addr, "backend", config.Get("storage_backend", storage.BackendSQLite))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	colors.Info("Shutting down...")
	logging.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
