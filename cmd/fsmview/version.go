package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/fsmview"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fsmview",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fsmview version %s\n", strings.TrimSpace(fsmview.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
