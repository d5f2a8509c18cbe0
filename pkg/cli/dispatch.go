package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewDispatchCommand creates the dispatch command.
func NewDispatchCommand(opts *RootOptions, build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <prompt>",
		Short: "Ask the language model and apply the device commands in its reply",
		Example: `  neuractl dispatch "it's getting dark in here"
  neuractl dispatch turn the fan on`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prompt := strings.Join(args, " ")

			app, err := build(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, dispatchErr := app.Orchestrator.Dispatch(ctx, prompt)
			if app.Database != nil {
				if err := app.Database.Dispatches().Save(ctx, res, dispatchErr); err != nil {
					log.Warn().Err(err).Msg("Failed to save dispatch")
				}
				if dispatchErr == nil {
					if err := app.Database.DeviceStates().Record(ctx, res.Outcomes); err != nil {
						log.Warn().Err(err).Msg("Failed to record device states")
					}
				}
			}
			if dispatchErr != nil {
				return dispatchErr
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, res)
			}

			fmt.Fprintf(out, "Reply: %s\n", res.Reply)
			if len(res.Outcomes) == 0 {
				fmt.Fprintln(out, "No device commands in reply.")
				return nil
			}
			for _, o := range res.Outcomes {
				fmt.Fprintln(out, outcomeLine(o))
			}
			return nil
		},
	}
}
