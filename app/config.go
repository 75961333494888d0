package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studiokasse/studiokasse/internal/config"
)

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump the configuration as JSON")

	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	// configCmd prints the configuration the service would start with, env
	// overrides and defaults applied.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			dump, err := config.DumpConfig(cfg)
			if dumpJSON {
				dump, err = config.DumpConfigJSON(cfg)
			}
			if err != nil {
				return err
			}

			fmt.Print(dump)

			return nil
		},
	}
)
