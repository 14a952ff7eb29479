package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/acksell/gamelog/event"
	"github.com/acksell/gamelog/game"
	"github.com/acksell/gamelog/kvstore"
	"github.com/acksell/gamelog/persistence"
	"github.com/acksell/gamelog/settings"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// rootOptions holds global flags plus the clock and key source, which tests replace.
type rootOptions struct {
	SettingsPath string
	DataDir      string
	Memory       bool
	Verbose      bool
	Format       string

	now    func() time.Time
	newKey func() string
}

func defaultRootOptions() *rootOptions {
	return &rootOptions{
		now:    time.Now,
		newKey: persistence.NewEventKey,
	}
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gamelog",
		Short:         "Record escape-room games and their events",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return usageErrorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.SettingsPath, "settings", "", "settings file (default $SETTINGS_PATH or settings.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "database directory (default data_dir from settings)")
	cmd.PersistentFlags().BoolVar(&opts.Memory, "memory", false, "use an in-memory database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newGameCommand(opts))
	cmd.AddCommand(newEventCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newDemoCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// app is everything a command needs once settings are loaded and the database is open.
type app struct {
	log      *slog.Logger
	settings settings.Settings
	db       *kvstore.DB
	games    *game.Store
	events   *event.Store
	service  *persistence.Service
	out      *printer

	now    func() time.Time
	newKey func() string
}

// withApp opens the database for the duration of run and closes it afterwards.
func withApp(opts *rootOptions, run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(opts, cmd.ErrOrStderr(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := a.db.Close(); closeErr != nil {
				a.log.Error("error closing database", "error", closeErr)
			}
		}()
		return run(cmd, args, a)
	}
}

func openApp(opts *rootOptions, stderr, stdout io.Writer) (*app, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := newLogger(stderr, opts.Verbose || cfg.settings.Debug)
	logger.Debug("settings loaded",
		"path", cfg.settingsPath,
		"project", cfg.settings.ProjectName,
		"max_connections", cfg.settings.MaxConnections)

	storeOpts := kvstore.Options{Path: cfg.dataDir, InMemory: cfg.inMemory}
	if opts.Verbose {
		storeOpts.Logger = logger
	}
	logger.Debug("opening database", "path", cfg.dataDir, "in_memory", cfg.inMemory)
	db, err := kvstore.Open(storeOpts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	games, events, err := persistence.OpenStores(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		log:      logger,
		settings: cfg.settings,
		db:       db,
		games:    games,
		events:   events,
		service:  persistence.New(db, games, events),
		out:      &printer{w: stdout, format: opts.Format},
		now:      opts.now,
		newKey:   opts.newKey,
	}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
