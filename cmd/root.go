// Package cmd provides the command-line interface for the Sprout
// documentation site.
//
// Configuration comes from, in order of precedence:
//  1. Command-line flags (--port, --content-dir, ...)
//  2. SPROUT_<SECTION>_<KEY> environment variables, e.g. SPROUT_SERVER_PORT
//  3. The config file: --config, else SPROUT_CONFIG_FILE, else .sprout.yml
//  4. Built-in defaults
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/conneroisu/sprout/internal/config"
	"github.com/conneroisu/sprout/internal/content"
	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/conneroisu/sprout/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "Documentation site for the Sprout web framework",
	Long: `Sprout serves the guide and changelog for the Sprout web framework.

Pages are rendered on the server and kept live over a WebSocket: clicking a
link sends a navigation intent, the router pushes exactly one history entry
and the new page is rendered in place. Back and forward never push.

Quick Start:
  sprout serve                      Serve the embedded docs on :8080
  sprout serve --content-dir docs   Serve (and hot reload) docs from disk
  sprout build -o dist --sitemap    Export a static copy of the site
  sprout routes                     Show the route table
  sprout search "subpage"           Query the search index`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is .sprout.yml, can also use SPROUT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	AddFlagValidation(rootCmd.PersistentFlags(), "log-level", ValidateLogLevel)
}

// initConfig points viper at the config file and enables environment
// overrides. A missing default config file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SPROUT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".sprout")
	}

	config.BindEnvironment(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the configuration and builds the logger every command
// shares.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, logging.NewLogger(cfg.LoggerConfig()), nil
}

// loadStore loads the configured content, attaching hints for fixing
// on-disk content when that fails.
func loadStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (*content.Store, error) {
	store, err := content.NewStore(ctx, cfg.Content, logger)
	if err != nil {
		return nil, siteerrors.WithSuggestions(
			"Failed to load content",
			err,
			siteerrors.ContentLoadSuggestions(err, cfg.Content.Dir, cfg.Content.Guide),
		)
	}

	return store, nil
}
