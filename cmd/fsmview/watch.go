package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/fsmview"
	"github.com/aretw0/fsmview/internal/cli"
	"github.com/aretw0/fsmview/internal/presentation/export"
	"github.com/aretw0/fsmview/internal/presentation/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <snapshot>",
	Short: "Render a snapshot file every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		runner := newRunner(cmd)
		tui.PrintBanner(os.Stderr, fsmview.Version)

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		err := runner.Watch(sigCtx, cli.RenderOptions{
			Paths:  args,
			Format: format,
			Out:    out,
		})
		runner.Logger.Info("watcher stopped", "signal", sigCtx.Signal())
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("format", "f", export.FormatMermaid, "Output format")
	watchCmd.Flags().StringP("out", "o", "", "Output file rewritten on every change (default stdout)")
}
