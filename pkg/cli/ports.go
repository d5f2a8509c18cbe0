package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPortsCommand creates the ports command.
func NewPortsCommand(opts *RootOptions, build Builder) *cobra.Command {
	return &cobra.Command{
		Use:           "ports",
		Short:         "List serial ports on this machine",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			ports, err := app.Ports()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, ports)
			}
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial ports found.")
				return nil
			}
			for _, p := range ports {
				if p.IsUSB {
					fmt.Fprintf(out, "%s\tUSB %s:%s %s\n", p.Name, p.VID, p.PID, p.Product)
				} else {
					fmt.Fprintln(out, p.Name)
				}
			}
			return nil
		},
	}
}
