package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

// NewActuateCommand creates the actuate command.
func NewActuateCommand(opts *RootOptions, build Builder) *cobra.Command {
	return &cobra.Command{
		Use:           "actuate <device> on|off",
		Short:         "Send a device's on or off code directly",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := device.ParseState(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := build(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			outcome, err := app.Orchestrator.Actuate(ctx, args[0], on)
			if err != nil {
				return err
			}
			if app.Database != nil {
				if err := app.Database.DeviceStates().Record(ctx, []dispatch.Outcome{outcome}); err != nil {
					log.Warn().Err(err).Msg("Failed to record device state")
				}
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				if err := writeJSON(out, outcome); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, outcomeLine(outcome))
			}

			if !outcome.Success {
				return fmt.Errorf("%s: %s", outcome.Device, outcome.Error)
			}
			return nil
		},
	}
}
