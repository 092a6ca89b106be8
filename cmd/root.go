package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/hifz/internal/config"
	"github.com/example/hifz/internal/database"
	"github.com/example/hifz/internal/hifz"
)

// clock supplies "now" to every operation
var clock = time.Now

// NewRootCmd builds the hifz command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hifz",
		Short:         "Spaced-repetition scheduler for Quran memorization",
		Long:          "hifz tracks memorized verses and decides which ones are due for review.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to YAML config file (overrides HIFZ_CONFIG)")
	root.PersistentFlags().String("driver", "", "Database driver: sqlite3 or postgres (overrides HIFZ_DB_DRIVER)")
	root.PersistentFlags().String("db", "", "Database DSN or sqlite file path (overrides HIFZ_DB_DSN)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newAddCmd(),
		newRemoveCmd(),
		newDueCmd(),
		newGradeCmd(),
		newShowCmd(),
		newListCmd(),
		newStatsCmd(),
		newImportCmd(),
		newExportCmd(),
		newWatchCmd(),
	)
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// app bundles what a command needs to talk to the item store
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB
	engine *hifz.Scheduler
}

// openApp resolves configuration, connects to the database and builds the engine
func openApp(cmd *cobra.Command) (*app, error) {
	bootstrap := config.NewLogger(config.LogConfig{Level: "warn"}, cmd.ErrOrStderr())
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewLoader(bootstrap).Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Database.DSN = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	db, err := database.Connect(cmd.Context(), cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	logger.Debug("connected to database", slog.String("driver", cfg.Database.Driver))

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		engine: hifz.New(database.NewItemRepository(db), logger),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// withApp runs fn with an opened app and closes it afterwards
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
