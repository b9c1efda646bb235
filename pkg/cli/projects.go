package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/harrisonrobin/taskcal/pkg/bounds"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectSetCmd(app))
	cmd.AddCommand(newProjectListCmd(app))
	return cmd
}

func newProjectSetCmd(app *App) *cobra.Command {
	var name, start, end string

	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Create or update a project and its date window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.Project{
				ID:        args[0],
				Name:      strings.TrimSpace(name),
				StartDate: start,
				EndDate:   end,
			}
			if p.Name == "" {
				p.Name = p.ID
			}
			if _, err := bounds.ForProject(p); err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveProject(ctx, p); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "project %s: %s\n", p.ID, windowLabel(p))
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD), empty for open-ended")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			projects, err := st.Projects(ctx)
			if err != nil {
				return err
			}

			t := table.New().Headers("ID", "NAME", "WINDOW")
			for _, p := range projects {
				t.Row(p.ID, p.Name, windowLabel(p))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}

func windowLabel(p model.Project) string {
	end := p.EndDate
	if end == "" {
		end = "open"
	}
	return p.StartDate + " .. " + end
}
