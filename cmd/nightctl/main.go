package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnavshah/night-scheduler-api/internal/config"
	"github.com/arnavshah/night-scheduler-api/pkg/logger"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var app *App

// errInvalidSchedule makes the process exit with status 1 without printing
// a second error line.
var errInvalidSchedule = errors.New("schedule is invalid")

func main() {
	rootCmd := &cobra.Command{
		Use:           "nightctl",
		Short:         "Night shift scheduler CLI",
		Long:          `Generate and validate night shift schedules from preference files, and manage the scheduler database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(keygenCmd())
	rootCmd.AddCommand(seedDoctorsCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalidSchedule) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// initApp loads configuration and sets up the logger
func initApp() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The CLI writes its results to stdout; keep logs readable on stderr.
	cfg.Log.Format = "console"
	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app = &App{cfg: cfg, logger: log}
	return nil
}
