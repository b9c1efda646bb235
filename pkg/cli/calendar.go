package cli

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/harrisonrobin/taskcal/pkg/render"
	"github.com/harrisonrobin/taskcal/pkg/tui"
	"github.com/spf13/cobra"
)

func newViewCmd(app *App, view model.View) *cobra.Command {
	var (
		project string
		date    string
		width   int
		agenda  bool
	)

	cmd := &cobra.Command{
		Use:   string(view),
		Short: fmt.Sprintf("Print the %s view", view),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			nav, err := app.navigatorFor(ctx, st, project, view)
			if err != nil {
				return err
			}
			if date != "" {
				d, err := datekey.ParseKey(date)
				if err != nil {
					return err
				}
				if !nav.GoTo(d) {
					return fmt.Errorf("%s is outside project %s", date, project)
				}
			}

			out := render.View(nav, width)
			if agenda {
				out = render.Agenda(nav.Grid(), nav.Locale().Day)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Limit the calendar to a project's lifetime")
	cmd.Flags().StringVar(&date, "date", "", "Show the unit containing this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&width, "width", 0, "Terminal width used to size cells")
	cmd.Flags().BoolVar(&agenda, "agenda", false, "List events per day instead of drawing the grid")
	return cmd
}

func newTUICmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the calendar interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, project)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Limit the calendar to a project's lifetime")
	return cmd
}

func runTUI(cmd *cobra.Command, app *App, project string) error {
	ctx := cmd.Context()
	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	nav, err := app.navigatorFor(ctx, st, project, model.ParseView(app.Config.View))
	if err != nil {
		return err
	}
	load := func(ctx context.Context) ([]model.Task, error) {
		return st.Tasks(ctx, project)
	}
	return tui.Run(ctx, nav, load)
}
