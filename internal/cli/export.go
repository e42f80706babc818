package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"quickdo/internal/export"
	"quickdo/internal/view"
)

func (a *app) exportCmd() *cobra.Command {
	var format, output string
	c := &cobra.Command{
		Use:   "export",
		Short: "Write every task as iCalendar, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			tasks := view.Apply(s.store.Tasks(), view.Query{Sort: view.SortCreated})
			return export.Write(w, f, tasks, a.now())
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "ics", "Output format: ics, json or yaml")
	c.Flags().StringVarP(&output, "output", "o", "-", "Output file (- for stdout)")
	return c
}
