package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/themizzi/swaglabs-e2e/internal/cli"
	"github.com/themizzi/swaglabs-e2e/internal/config"
	"github.com/themizzi/swaglabs-e2e/internal/fixture"
	"github.com/themizzi/swaglabs-e2e/internal/logging"
	urfavecli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var version = "0.1.0"

// ServeCommand returns the serve command
func ServeCommand(logger *zap.Logger) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "serve",
		Usage: "Start the Swag Labs storefront",
		Action: func(c *urfavecli.Context) error {
			server, err := config.LoadServerConfig(os.Getenv)
			if err != nil {
				return err
			}
			store, err := config.LoadStoreConfig(os.Getenv)
			if err != nil {
				return err
			}

			storefront, err := cli.NewStorefront(store, server, logger)
			if err != nil {
				return err
			}
			defer storefront.Close()

			return cli.RunServe(storefront.Deps)
		},
	}
}

// SaveAuthCommand returns the save-auth command
func SaveAuthCommand(logger *zap.Logger) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "save-auth",
		Usage: "Log in once and store the browser auth state for the suite",
		Action: func(c *urfavecli.Context) error {
			cfg, err := config.LoadSuiteConfig(os.Getenv)
			if err != nil {
				return err
			}
			return cli.RunSaveAuth(c.Context, cfg, logger, os.Stdout)
		},
	}
}

// AuthStatusCommand returns the auth-status command
func AuthStatusCommand(logger *zap.Logger) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "auth-status",
		Usage: "Report whether the stored auth state is still usable",
		Action: func(c *urfavecli.Context) error {
			cfg, err := config.LoadSuiteConfig(os.Getenv)
			if err != nil {
				return err
			}
			cache := fixture.NewAuthCache(cfg, logger)
			if err := cli.ReportAuthState(os.Stdout, cache, time.Now()); err != nil {
				return urfavecli.Exit("", 1)
			}
			return nil
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "install",
		Usage: "Install the Playwright driver and browsers",
		Flags: []urfavecli.Flag{
			&urfavecli.StringSliceFlag{
				Name:  "browser",
				Usage: "browser to install (repeatable)",
				Value: urfavecli.NewStringSlice("chromium"),
			},
		},
		Action: func(c *urfavecli.Context) error {
			return cli.RunInstall(c.StringSlice("browser"))
		},
	}
}

// UploadArtifactsCommand returns the upload-artifacts command
func UploadArtifactsCommand(logger *zap.Logger) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "upload-artifacts",
		Usage: "Upload traces, videos and visual diffs to S3",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "dir",
				Usage:   "results directory to upload",
				EnvVars: []string{"E2E_RESULTS_DIR"},
				Value:   "test-results",
			},
		},
		Action: func(c *urfavecli.Context) error {
			cfg, err := config.LoadArtifactsConfig(os.Getenv)
			if err != nil {
				return err
			}
			return cli.RunUploadArtifacts(c.Context, cfg, c.String("dir"), logger, os.Stdout)
		},
	}
}

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	logCfg, err := config.LoadLoggerConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logCfg)
	defer logger.Sync()

	if envErr != nil {
		logger.Debug(".env file not found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &urfavecli.App{
		Name:    "swaglabs",
		Usage:   "Swag Labs storefront and browser suite tooling",
		Version: version,
		Commands: []*urfavecli.Command{
			ServeCommand(logger),
			SaveAuthCommand(logger),
			AuthStatusCommand(logger),
			InstallCommand(),
			UploadArtifactsCommand(logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error("command failed", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}
