package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/fsmview/internal/presentation/tui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <snapshot>...",
	Short: "Check snapshots for structural problems",
	Long: `Builds every snapshot and reports its findings: missing root, duplicate ids,
dangling parents or transition targets, broken chains of current states.
Exits with status 1 when any finding is reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		runner := newRunner(cmd)

		var render func(string) (string, error)
		if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				width = 0
			}
			r, err := tui.NewRenderer(width)
			if err != nil {
				runner.Logger.Warn("terminal renderer unavailable", "err", err)
			} else {
				render = r
			}
		}

		return runner.Validate(cmd.Context(), args, render)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("plain", false, "Print raw markdown even on a terminal")
}
