package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/fsmview"
	httpAdapter "github.com/aretw0/fsmview/pkg/adapters/http"
	"github.com/aretw0/fsmview/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts fsmview as an HTTP service: POST snapshots to /graph for a one-off
rendering or to /machines to keep them, then read graphs, active states and
Prometheus metrics back.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		logger := newLogger(cmd)

		store, closeStore, err := openStore(cmd.Context(), cmd, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		metrics := httpAdapter.NewMetrics()
		streams := httpAdapter.NewStreamManager(logger)
		viewer := newViewer(cmd, logger,
			fsmview.WithStore(store),
			fsmview.WithLifecycleHooks(observability.Combine(
				observability.LoggingHooks(logger),
				metrics.Hooks(),
				streams.Hooks(),
			)),
		)

		handler := httpAdapter.NewHandler(viewer,
			httpAdapter.WithFormats(newFormats(cmd, logger)),
			httpAdapter.WithMetrics(metrics),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithLogger(logger),
		)

		// Request contexts end with the server so SSE streams let Shutdown complete.
		baseCtx, cancelBase := context.WithCancel(context.Background())
		defer cancelBase()

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		}
		srv.RegisterOnShutdown(cancelBase)

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Fprintf(os.Stderr, "Starting fsmview server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutdown started", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(os.Stderr, "fsmview server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	addStoreFlags(serveCmd)
}
