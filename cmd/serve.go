package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/resale-labs/lister/internal/config"
	"github.com/resale-labs/lister/internal/handlers"
	"github.com/resale-labs/lister/internal/store"
)

func newServeCmd() *cobra.Command {
	var port string
	var settingsPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the listing API server",
		Long: `Starts the Lister API on the specified port.

The API drives the full workflow: create a batch, upload product photos,
assign them to SKUs, run AI inference, review and persist listings.`,
		Example: `  # Start server on default port 8888
  lister serve

  # Start server on custom port
  lister serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(settingsPath)
			if err != nil {
				return err
			}

			if dir := filepath.Dir(settings.DBPath); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return err
				}
			}
			st, err := store.Open(settings.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			handler := handlers.New(st, settingsPath)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/batches", handler.HandleBatches)
			mux.HandleFunc("/api/batches/", handler.HandleBatchDetail)
			mux.HandleFunc("/api/listings", handler.HandleListings)
			mux.HandleFunc("/api/listings/", handler.HandleListingDetail)
			mux.HandleFunc("/api/listings.csv", handler.HandleListingsCSV)
			mux.HandleFunc("/api/feedback", handler.HandleFeedback)
			mux.HandleFunc("/api/settings", handler.HandleSettings)
			mux.HandleFunc("/api/stats", handler.HandleStats)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Lister API available", "addr", addr, "db", settings.DBPath, "inference_enabled", settings.GeminiAPIKey != "")
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
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&settingsPath, "settings", config.DefaultPath, "Path to the settings file")

	return cmd
}
