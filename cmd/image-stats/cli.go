package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/image-stats/internal/config"
	"github.com/ironsheep/image-stats/internal/httpapi"
	"github.com/ironsheep/image-stats/internal/logger"
	"github.com/ironsheep/image-stats/internal/server"
	"github.com/ironsheep/image-stats/internal/source"
	"github.com/ironsheep/image-stats/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewCLI builds the image-stats command tree.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "image-stats",
		Short: "Color statistics and EXIF metadata for images",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
	}

	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the HTTP API",
		Args:    cobra.NoArgs,
		RunE:    ServeHandler,
	}

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE:  MCPHandler,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect FILE|URL...",
		Short: "Print color statistics and EXIF metadata of images",
		Args:  cobra.MinimumNArgs(1),
		RunE:  InspectHandler,
	}
	inspectCmd.Flags().String("method", "", "Averaging method: arithmetic, harmonic or geometric")
	inspectCmd.Flags().Int("max-dim", 0, "Longer side in pixels to shrink to before color statistics")
	inspectCmd.Flags().Bool("json", false, "Print results as JSON")
	inspectCmd.Flags().Bool("exif", false, "Also print every EXIF tag (table output only)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "image-stats version %s\n", version.Version)
		},
	}

	rootCmd.AddCommand(serveCmd, mcpCmd, inspectCmd, versionCmd)
	return rootCmd
}

// loadConfig reads the configuration and applies its log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Configure(cfg.LogLevel)
	return cfg, nil
}

// newLoader wires the image sources enabled by cfg.
func newLoader(cfg *config.Config) (*source.Loader, error) {
	fetcher := source.NewHTTPFetcher(cfg.ImageFetchTimeout, cfg.MaxImageBytes)

	var blobs source.BlobStore
	if cfg.BlobStorageEnabled() {
		store, err := source.NewAzureBlobStore(cfg.AzureStorageAccount, cfg.AzureStorageKey, cfg.MaxImageBytes)
		if err != nil {
			return nil, err
		}
		blobs = store
	}

	return source.NewLoader(fetcher, blobs, cfg.MaxImageBytes), nil
}

func ServeHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      httpapi.NewHandler(loader, cfg),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"address":      cfg.ServerAddress(),
			"timeout":      cfg.RequestTimeout,
			"workers":      cfg.Workers,
			"method":       cfg.AveragingMethod,
			"blob_storage": cfg.BlobStorageEnabled(),
			"version":      version.Version,
		}).Info("Starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}

func MCPHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// stdout carries the protocol
	logger.SetOutput(os.Stderr)

	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}

	logger.WithField("version", version.Version).Debug("Starting MCP server")
	return server.New(loader, cfg.StatsOptions()).Run()
}
