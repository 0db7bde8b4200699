package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/fsmview/internal/cli"
	"github.com/aretw0/fsmview/internal/presentation/export"
)

var renderCmd = &cobra.Command{
	Use:   "render <snapshot>...",
	Short: "Render snapshot files as graphs",
	Long: `Converts each snapshot file (JSON or YAML, "-" for stdin) into the requested
format: json, cytoscape, mermaid, dot, d2 or svg.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		return newRunner(cmd).Render(cmd.Context(), cli.RenderOptions{
			Paths:  args,
			Format: format,
			Out:    out,
		})
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("format", "f", export.FormatMermaid, "Output format")
	renderCmd.Flags().StringP("out", "o", "", "Output file, or directory when several snapshots are given")
}
