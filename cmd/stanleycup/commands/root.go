package commands

import (
	"context"
	"fmt"
	"hockeystats-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	debug      bool
	configPath string
	dbFlag     string
	config     Config
)

var rootCmd = &cobra.Command{
	Use:   "stanleycup",
	Short: "stanleycup scrapes the Stanley Cup champions table into a database.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(debug)

		var err error
		config, err = LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config %s: %w", configPath, err)
		}
		if dbFlag != "" {
			config.Database.File = dbFlag
			config.Database.Url = ""
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "stanleycup.json5", "The config file to read, a <name>.local.json5 next to it overrides its values.")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "The sqlite database to use, overrides the configured database.")
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
