package main

import (
	"github.com/spf13/cobra"
)

var activeCmd = &cobra.Command{
	Use:   "active <snapshot>",
	Short: "Print the active leaf state of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		return newRunner(cmd).Active(args[0], asJSON)
	},
}

func init() {
	rootCmd.AddCommand(activeCmd)
	activeCmd.Flags().Bool("json", false, "Print the result as JSON")
}
