package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"appdeck/internal/app"
	"appdeck/internal/config"
	"appdeck/internal/launcher"
	"appdeck/internal/logging"
	"appdeck/internal/registry"
)

var (
	configPath string
	logLevel   string
	cfg        config.Config
)

// controllerAPI is the part of app.App the commands use.
type controllerAPI interface {
	Ping(ctx context.Context, timeout time.Duration) (string, error)
	List(ctx context.Context) ([]registry.App, error)
	Create(ctx context.Context, in app.AppInput) (registry.App, error)
	Update(ctx context.Context, id uuid.UUID, in app.AppInput) error
	Delete(ctx context.Context, id uuid.UUID) error
	Find(ctx context.Context, id uuid.UUID) (registry.App, error)
	Launch(ctx context.Context, id uuid.UUID) (launcher.Result, error)
	Status() (app.DaemonStatus, error)
	StopDaemon(force bool) error
}

var controllerFactory = func() controllerAPI {
	return controller()
}

func controller() *app.App {
	return app.New(app.Options{
		BaseURL:     cfg.BaseURL(),
		ControlAddr: cfg.ControlAddr,
	})
}

var rootCmd = &cobra.Command{
	Use:          "appdeck [command]",
	Short:        "appdeck: a launcher for your shell commands",
	Long:         `appdeck keeps a list of named shell commands, serves it over HTTP and runs the commands on demand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON, TOML or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid app id %q: %w", raw, err)
	}
	return id, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
