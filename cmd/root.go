package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/config"
)

// RootCommand creates the CLI. Running it without a sub-command starts the server.
func RootCommand(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pokemon-api",
		Short:         "Pokemon REST API backed by MongoDB",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := setupFlags(rootCmd, v); err != nil {
		// Only fails on a typo in the flag table below.
		panic(err)
	}

	serveCmd := serveCommand(v)
	rootCmd.AddCommand(serveCmd, seedCommand(v))
	rootCmd.RunE = serveCmd.RunE

	return rootCmd
}

// flagKeys maps each persistent flag to the configuration key it overrides.
var flagKeys = []struct {
	flag, key, usage string
}{
	{"port", "server_port", "HTTP listen port"},
	{"gin-mode", "gin_mode", "Gin mode: release, debug or test"},
	{"mongodb-uri", "mongodb_uri", "MongoDB connection string"},
	{"mongodb-database", "mongodb_database", "MongoDB database name"},
	{"mongodb-collection", "mongodb_collection", "MongoDB collection holding the pokemons"},
	{"assets-dir", "assets_dir", "Directory for uploaded assets (local storage)"},
	{"asset-storage", "asset_storage", "Asset storage backend: local or minio"},
}

// setupFlags defines the global flags and binds them into v so that flags
// take precedence over the environment.
func setupFlags(rootCmd *cobra.Command, v *viper.Viper) error {
	for _, f := range flagKeys {
		rootCmd.PersistentFlags().String(f.flag, v.GetString(f.key), f.usage)
		if err := v.BindPFlag(f.key, rootCmd.PersistentFlags().Lookup(f.flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", f.flag, err)
		}
	}
	return nil
}

// Execute runs the CLI with configuration read from .env and the environment.
func Execute() {
	if err := RootCommand(config.NewViper()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
