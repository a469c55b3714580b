package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/iocache"
	"github.com/huangsam/feedstore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global store manager instance.
var storeManager contract.StoreManager = iocache.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "feedstore",
	Short:              "Inspect and manage the cached image feed.",
	Long:               `Feedstore keeps one feed snapshot in a persistent slot and lets you read, replace or clear it.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".feedstore") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("FEEDSTORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-key", contract.DefaultCacheKey)
	viper.SetDefault("timeout", contract.DefaultTimeout.String())
	viper.SetDefault("color", "yes")
}

// loadConfig merges defaults, file, env and flags, then validates the result into cfg.
func loadConfig() error {
	// 1. Read config file.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	if !cfg.UseColors {
		color.NoColor = true
	}
	return nil
}

// sharedSetup validates config and opens the configured feed store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheKey); err != nil {
		return fmt.Errorf("failed to initialize feed store: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// adminSetupWrapper validates config without opening any store.
// Commands that drop or migrate the table run against a database the store may not be able to open.
func adminSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadConfig()
}

// feedStore returns the configured feed store.
func feedStore() (contract.FeedStore, error) {
	store := storeManager.GetFeedStore()
	if store == nil {
		return nil, fmt.Errorf("feed store is not initialized")
	}
	return store, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
