package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/fsmview"
	"github.com/aretw0/fsmview/pkg/adapters/mcp"
	"github.com/aretw0/fsmview/pkg/observability"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts fsmview as an MCP Server so AI agents can turn snapshots into graphs
and query the machine registry as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		logger := newLogger(cmd)

		store, closeStore, err := openStore(cmd.Context(), cmd, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		viewer := newViewer(cmd, logger,
			fsmview.WithStore(store),
			fsmview.WithLifecycleHooks(observability.LoggingHooks(logger)),
		)
		srv := mcp.NewServer(viewer, mcp.WithFormats(newFormats(cmd, logger)), mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("starting fsmview MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting fsmview MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP server execution failed: %w", err)
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	addStoreFlags(mcpCmd)
}
