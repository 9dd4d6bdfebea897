// Package cli wires the command line surface of the scenario runner.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the scenario file (if specified via flag)
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "gbmsim",
		Short: "Spatial GBM CAR-T reaction-diffusion simulator",
		Long:  `Runs the five-species tumor/immunotherapy model over a 1D or 2D domain. Use 'run --help' for scenario options.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "scenario file (default is the built-in baseline)")
}
