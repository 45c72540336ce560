package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/camfs/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "camfs",
	Short:   "Browse and stream camera pictures over WiFi",
	Long: `camfs joins or creates a WiFi network and serves the JPEG files on the
device's storage: an index page at / and each picture under /view/<path>.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var configFiles []string
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			configFiles = append(configFiles, path)
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Env, cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("storage-type", "", "storage backend: sdcard, flash (default: sdcard, env: CAMFS_STORAGE_TYPE)")
	rootCmd.PersistentFlags().String("storage-path", "", "card mount path (default: ./data, env: CAMFS_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("flash-dsn", "", "flash image file (default: flash.db, env: CAMFS_STORAGE_FLASH_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: CAMFS_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
