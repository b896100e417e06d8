package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dadao-education/unicatalog/internal/handlers"
	"github.com/dadao-education/unicatalog/internal/plan"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog and import API server",
		Long: `Starts the HTTP API on the specified port.

The API lists and filters the catalog, manages the application plan, and runs
bulk imports that wait for confirmation before they are committed.`,
		Example: `  # Start server on default port 8888
  unicatalog serve

  # Start server on custom port
  unicatalog serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			repo, closeFn, err := openCatalog(cmd.Context(), cfg, opts.ephemeral)
			if err != nil {
				return err
			}
			defer closeFn()

			pipeline, model, err := newPipeline(cfg, repo)
			if err != nil {
				return err
			}
			handler := handlers.New(repo, plan.New(), pipeline)

			// Set up routes
			mux := http.NewServeMux()
			handler.Routes(mux)

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Unicatalog API available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider, "model", model)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				// Background imports still hold the store; wait before closeFn runs
				if err := handler.WaitContext(shutdownCtx); err != nil {
					slog.Warn("Import runs still executing at shutdown", "err", err)
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
