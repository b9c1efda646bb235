package cli

import (
	"io"
	"os"

	"github.com/harrisonrobin/taskcal/pkg/ical"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks",
	}
	cmd.AddCommand(newExportICSCmd(app))
	return cmd
}

func newExportICSCmd(app *App) *cobra.Command {
	var project, output string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Write tasks as an iCalendar feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			tasks, err := st.Tasks(ctx, project)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return ical.Export(w, tasks, app.Clock())
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only export this project's tasks")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
