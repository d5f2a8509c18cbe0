// Package cli implements the neuractl command line.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/urmzd/neuracontrol/pkg/config"
	"github.com/urmzd/neuracontrol/pkg/db"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Format     string // "json" | "text"
	NoHistory  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// App is what the subcommands operate on. Database is nil when history
// recording is disabled.
type App struct {
	Orchestrator *dispatch.Orchestrator
	Database     *db.DB
	Ports        func() ([]serial.PortInfo, error)
}

// Close releases the database, if any.
func (a *App) Close() error {
	if a.Database == nil {
		return nil
	}
	return a.Database.Close()
}

// Builder assembles the App for a command run.
type Builder func(ctx context.Context, opts *RootOptions) (*App, error)

// NewRootCommand creates the root command. A nil build loads the
// configuration from the environment.
func NewRootCommand(build Builder) *cobra.Command {
	opts := &RootOptions{}
	if build == nil {
		build = BuildFromConfig
	}

	cmd := &cobra.Command{
		Use:   "neuractl",
		Short: "Control home devices in plain language",
		Long: `neuractl sends a request to the language model, picks device commands
out of its reply and writes the matching codes to the microcontroller.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (env vars override it)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.NoHistory, "no-history", false, "do not record dispatches and states in the database")

	cmd.AddCommand(NewDispatchCommand(opts, build))
	cmd.AddCommand(NewActuateCommand(opts, build))
	cmd.AddCommand(NewDevicesCommand(opts, build))
	cmd.AddCommand(NewPortsCommand(opts, build))
	cmd.AddCommand(NewExtractCommand(opts, build))

	return cmd
}

// BuildFromConfig wires the App from config.Load.
func BuildFromConfig(ctx context.Context, opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(cfg.LogLevel())
	}

	orchestrator, err := cfg.Orchestrator(cfg.Transport())
	if err != nil {
		return nil, err
	}

	app := &App{Orchestrator: orchestrator, Ports: serial.ListPortDetails}
	if !opts.NoHistory {
		app.Database, err = db.Setup(ctx, cfg.DBPath, orchestrator.Registry())
		if err != nil {
			return nil, err
		}
	}
	return app, nil
}
