package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/fsmview"
	"github.com/aretw0/fsmview/internal/cli"
	"github.com/aretw0/fsmview/internal/presentation/export"
	"github.com/aretw0/fsmview/internal/presentation/svg"
	"github.com/aretw0/fsmview/pkg/fsm"
	"github.com/aretw0/fsmview/pkg/registry"
)

var rootCmd = &cobra.Command{
	Use:   "fsmview",
	Short: "fsmview turns hierarchical state machine snapshots into graphs",
	Long: `fsmview reads snapshots of hierarchical state machines (a list of state
records where record 0 is the root) and renders them as graphs: Cytoscape
elements, Mermaid, Graphviz DOT, D2 or SVG. It can also serve the
transformation over HTTP or MCP and keep the latest snapshot of each machine.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("drop-dangling", false, "Drop edges whose target is not rendered instead of keeping them")
	rootCmd.PersistentFlags().String("layout", svg.LayoutDagre, "SVG layout engine: dagre or elk")
	rootCmd.PersistentFlags().Bool("dark", false, "Use a dark theme for SVG output")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewLogger(debug)
}

// newViewer applies the build flags; extra options come after them.
func newViewer(cmd *cobra.Command, logger *slog.Logger, extra ...fsmview.Option) *fsmview.Viewer {
	dropDangling, _ := cmd.Flags().GetBool("drop-dangling")

	opts := []fsmview.Option{
		fsmview.WithLogger(logger),
		fsmview.WithBuildOptions(fsm.WithDanglingEdges(!dropDangling)),
	}
	return fsmview.New(append(opts, extra...)...)
}

func newFormats(cmd *cobra.Command, logger *slog.Logger) *registry.Registry {
	layout, _ := cmd.Flags().GetString("layout")
	dark, _ := cmd.Flags().GetBool("dark")

	return export.Default(
		svg.WithLayout(layout),
		svg.WithDarkTheme(dark),
		svg.WithLogger(logger),
	)
}

// newRunner wires a CLI runner for the file-based commands.
func newRunner(cmd *cobra.Command) *cli.Runner {
	logger := newLogger(cmd)
	return cli.NewRunner(newViewer(cmd, logger), newFormats(cmd, logger), logger)
}
