package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/urmzd/neuracontrol/pkg/command"
	"github.com/urmzd/neuracontrol/pkg/device"
)

// NewExtractCommand creates the extract command. It runs the phrase table
// over a reply without calling the language model or touching the port.
func NewExtractCommand(opts *RootOptions, build Builder) *cobra.Command {
	return &cobra.Command{
		Use:           "extract <reply>",
		Short:         "Show which commands a reply would trigger",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := build(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			reg := app.Orchestrator.Registry()
			states := command.NewExtractor(reg).ExtractMap(strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, states)
			}

			if len(states) == 0 {
				fmt.Fprintln(out, "No device commands in reply.")
				return nil
			}
			for _, d := range reg.All() {
				if on, ok := states[d.ID]; ok {
					fmt.Fprintf(out, "%s %s (%s)\n", strings.ToUpper(d.ID), device.StateString(on), string(d.Code(on)))
				}
			}
			return nil
		},
	}
}
