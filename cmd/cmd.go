// Package cmd defines the command-line interface for feedstore.
package cmd

import (
	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or redis or memory")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Connection string: SQLite file path, MySQL DSN, PostgreSQL conninfo or redis:// URL")
	rootCmd.PersistentFlags().String("cache-key", contract.DefaultCacheKey, "Key of the slot that holds the feed")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "How long to wait for an operation to complete")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address while the MCP server runs (e.g., :9090)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of insertCmd to Viper
	insertCmd.Flags().String("images-file", "-", "JSON array of images to insert (- reads stdin)")
	insertCmd.Flags().String("timestamp", "", "Feed timestamp in RFC3339 (defaults to now)")
	if err := viper.BindPFlags(insertCmd.Flags()); err != nil {
		contract.LogFatal("Error binding insert flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
