package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/pkg/clients/sheetsclient"
	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/core/services"
	"github.com/nicetransit/operator-signup/pkg/core/window"
	"github.com/nicetransit/operator-signup/pkg/filestore"
	"github.com/nicetransit/operator-signup/pkg/mirror"
	"github.com/nicetransit/operator-signup/pkg/postgres"
	"github.com/nicetransit/operator-signup/pkg/utils/logging"
)

var env string

// NewRootCmd assembles the CLI. A shared AppContext is populated by the
// root's PersistentPreRunE before any subcommand runs.
func NewRootCmd() *cobra.Command {
	app := &AppContext{}

	rootCmd := &cobra.Command{
		Use:   "signup",
		Short: "Operator Signup - tablet signup sheets for dispatch",
		Long:  `Runs the operator signup service: tablet-facing signup sheets for spare work, extra work and RDO, persisted locally and mirrored to Google Sheets.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Postgres != nil {
				app.Postgres.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(ServeCmd(app))
	rootCmd.AddCommand(ListOperatorsCmd(app))
	rootCmd.AddCommand(ShowDatesCmd(app))
	rootCmd.AddCommand(ExportDailyCmd(app))

	return rootCmd
}

// initApp sets up logger, config, storage, sheets client and roster
func initApp(app *AppContext) error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Location, err = app.Cfg.Location()
	if err != nil {
		return err
	}

	app.Blackouts, err = window.ParseBlackouts(app.Cfg.BlackoutRules)
	if err != nil {
		return fmt.Errorf("failed to parse blackout rules: %w", err)
	}

	// Storage: postgres when configured, local JSON files otherwise
	if app.Cfg.PostgresURL != "" {
		app.Logger.Info("Connecting to postgres")
		app.Postgres, err = postgres.NewDB(app.Ctx, app.Cfg.PostgresURL, app.Location)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := app.Postgres.RunMigrations(app.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Store = app.Postgres
		app.Logger.Debug("Postgres store initialized successfully")
	} else {
		app.Logger.Info("Using local signup files", zap.String("dir", app.Cfg.DataDir))
		app.Store, err = filestore.New(app.Cfg.DataDir, app.Location)
		if err != nil {
			return fmt.Errorf("failed to open signup store: %w", err)
		}
	}

	// Sheets: a disabled environment runs fully offline
	if app.Cfg.SheetsEnabled {
		app.Logger.Info("Loading service account credentials")
		creds, err := config.LoadServiceAccountWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load service account credentials: %w", err)
		}

		app.Logger.Info("Initializing sheets client")
		app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, creds)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Logger.Debug("Sheets client initialized successfully")

		app.Mirror = mirror.New(app.SheetsClient, app.Cfg, app.Logger)
		app.Roster = services.NewRosterProvider(app.SheetsClient, app.Cfg, app.Logger)
	} else {
		app.Logger.Info("Sheets disabled, running offline")
		app.Mirror = mirror.Noop{}
		app.Roster = services.StaticRoster{Roster: model.EmptyRoster()}
	}

	return nil
}
