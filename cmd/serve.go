package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/conneroisu/sprout/internal/server"
	"github.com/conneroisu/sprout/internal/version"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve the documentation site",
	Long: `Serve the guide and changelog over HTTP with live navigation.

Without --content-dir the docs embedded in the binary are served. With it,
the guide manifest, changelog and markdown are read from disk and, when
--hot-reload is set, reloaded on change; open pages refresh automatically.

Examples:
  sprout serve                               # Embedded docs on localhost:8080
  sprout serve -p 3000 --host 0.0.0.0        # Listen on all interfaces
  sprout serve --content-dir docs --hot-reload`,
	Args: cobra.NoArgs,
	RunE: runServe,
	PreRunE: bindFlags(map[string]string{
		"port":        "server.port",
		"host":        "server.host",
		"content-dir": "content.dir",
		"hot-reload":  "development.hot_reload",
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().String("content-dir", "", "Directory holding guide.yaml and changelog.yaml (default: embedded)")
	serveCmd.Flags().Bool("hot-reload", false, "Reload content when files in --content-dir change")

	AddFlagValidation(serveCmd.Flags(), "port", ValidatePort)
	AddFlagValidation(serveCmd.Flags(), "content-dir", ValidateDir)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := loadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, store, version.GetShortVersion(), logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	go func() {
		<-ctx.Done()
		logger.Info(context.Background(), "Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error(shutdownCtx, shutdownErr, "Error during server shutdown")
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting Sprout docs at http://%s\n", cfg.Addr())

	if err := srv.Start(ctx); err != nil {
		return siteerrors.WithSuggestions(
			fmt.Sprintf("Failed to start server on port %d", cfg.Server.Port),
			err,
			siteerrors.ServerStartSuggestions(err, cfg.Server.Port),
		)
	}

	return nil
}
