package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/harrisonrobin/taskcal/pkg/ical"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/harrisonrobin/taskcal/pkg/orgmode"
	"github.com/harrisonrobin/taskcal/pkg/taskwarrior"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace one source's tasks in the local snapshot",
	}
	cmd.AddCommand(newImportTaskwarriorCmd(app))
	cmd.AddCommand(newImportOrgCmd(app))
	cmd.AddCommand(newImportICSCmd(app))
	return cmd
}

func newImportTaskwarriorCmd(app *App) *cobra.Command {
	var (
		file   string
		binary string
	)

	cmd := &cobra.Command{
		Use:   "taskwarrior [filter...]",
		Short: "Import from `task export` (or an export file)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := taskwarrior.NewClient()
			if binary != "" {
				client.Binary = binary
			}

			var (
				tasks []taskwarrior.Task
				err   error
			)
			if file != "" {
				tasks, err = parseTaskwarriorFile(client, file, cmd.InOrStdin())
			} else {
				tasks, err = client.GetTasks(cmd.Context(), args)
			}
			if err != nil {
				return err
			}
			return app.replace(cmd, taskwarrior.Source, taskwarrior.ToModels(tasks), "")
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read export JSON from this file (- for stdin)")
	cmd.Flags().StringVar(&binary, "task", "", "taskwarrior executable")
	return cmd
}

func parseTaskwarriorFile(client *taskwarrior.Client, path string, stdin io.Reader) ([]taskwarrior.Task, error) {
	if path == "-" {
		return client.ParseTasks(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return client.ParseTasks(f)
}

func newImportOrgCmd(app *App) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "org [file...]",
		Short: "Import TODO headlines from org files (default: orgFiles from config)",
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				files = app.Config.OrgFiles
			}
			if len(files) == 0 {
				return fmt.Errorf("no org files given and none configured")
			}
			tasks, err := orgmode.ParseFiles(files)
			if err != nil {
				return err
			}
			if tag != "" {
				tasks = orgmode.FilterTasks(tasks, tag)
			}
			return app.replace(cmd, orgmode.Source, tasks, "")
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only import headlines carrying this tag")
	return cmd
}

func newImportICSCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "ics FILE",
		Short: "Import events from an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := ical.ReadFile(args[0])
			if err != nil {
				return err
			}
			return app.replace(cmd, ical.Source, tasks, project)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Assign events without a project to this project")
	return cmd
}

// replace swaps the stored snapshot of source. Tasks without a project are
// given project when it is set.
func (app *App) replace(cmd *cobra.Command, source string, tasks []model.Task, project string) error {
	ctx := cmd.Context()
	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if project != "" {
		for i := range tasks {
			if tasks[i].ProjectID == "" {
				tasks[i].ProjectID = project
			}
		}
	}
	if err := st.ReplaceTasks(ctx, source, tasks); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks from %s\n", len(tasks), source)
	return err
}
