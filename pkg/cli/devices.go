package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/urmzd/neuracontrol/pkg/device"
)

type deviceRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OnPhrase  string `json:"on_phrase"`
	OffPhrase string `json:"off_phrase"`
	OnCode    string `json:"on_code"`
	OffCode   string `json:"off_code"`
	State     string `json:"state,omitempty"`
}

// NewDevicesCommand creates the devices command.
func NewDevicesCommand(opts *RootOptions, build Builder) *cobra.Command {
	return &cobra.Command{
		Use:           "devices",
		Short:         "List devices, their phrases and codes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := build(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			stored := map[string]bool{}
			if app.Database != nil {
				states, err := app.Database.DeviceStates().List(ctx)
				if err != nil {
					return err
				}
				for _, st := range states {
					stored[st.DeviceID] = st.On
				}
			}

			var rows []deviceRow
			for _, d := range app.Orchestrator.Registry().All() {
				row := deviceRow{
					ID:        d.ID,
					Name:      d.Name,
					OnPhrase:  d.OnPhrase,
					OffPhrase: d.OffPhrase,
					OnCode:    string(d.OnCode),
					OffCode:   string(d.OffCode),
				}
				if app.Database != nil {
					row.State = device.StateString(stored[d.ID])
				}
				rows = append(rows, row)
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, rows)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tON\tOFF\tSTATE")
			for _, r := range rows {
				state := r.State
				if state == "" {
					state = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%q (%s)\t%q (%s)\t%s\n", r.ID, r.Name, r.OnPhrase, r.OnCode, r.OffPhrase, r.OffCode, state)
			}
			return tw.Flush()
		},
	}
}
