// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file")
}

var (
	configPath string // Path to the configuration file

	rootCmd = &cobra.Command{
		Use:   "studiokasse",
		Short: "Studiokasse is the bookkeeping service of a freelancer studio",
		Long: `Studiokasse keeps the books of a studio working with freelancers:
deposits, appointments with automatic settlement of the studio share,
a cash ledger and a monthly report, all served as a JSON API.`,
		Args: cobra.OnlyValidArgs,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
