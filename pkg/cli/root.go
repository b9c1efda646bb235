// Package cli is the taskcal command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/harrisonrobin/taskcal/pkg/bounds"
	"github.com/harrisonrobin/taskcal/pkg/config"
	"github.com/harrisonrobin/taskcal/pkg/datekey"
	"github.com/harrisonrobin/taskcal/pkg/locale"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/harrisonrobin/taskcal/pkg/navigator"
	"github.com/harrisonrobin/taskcal/pkg/store"
	"github.com/spf13/cobra"
)

type App struct {
	Verbose bool
	Config  *config.Config
	Clock   datekey.Clock
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{Clock: datekey.SystemClock})
}

func newRootCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:          "taskcal",
		Short:        "Tasks on a calendar: month, week and day views bounded by project",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Import tasks and look at this month
  taskcal import taskwarrior
  taskcal month

  # A project's calendar, starting on a given week
  taskcal project set launch --name Launch --start 2025-01-01 --end 2025-03-31
  taskcal week --project launch --date 2025-02-03

  # Interactive calendar
  taskcal tui --project launch
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd.ErrOrStderr(), app.Verbose)
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			app.Config = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, project)
		},
	}

	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log debug output to stderr")
	cmd.Flags().StringVar(&project, "project", "", "Limit the calendar to a project's lifetime")

	cmd.AddCommand(newViewCmd(app, model.ViewMonth))
	cmd.AddCommand(newViewCmd(app, model.ViewWeek))
	cmd.AddCommand(newViewCmd(app, model.ViewDay))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newProjectCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newHookCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newSetCalendarCmd(app))

	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func (app *App) openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, app.Config.DB)
}

func (app *App) locale() locale.Table {
	tbl, err := locale.Lookup(app.Config.Locale)
	if err != nil {
		slog.Warn("falling back to English labels", "locale", app.Config.Locale, "error", err)
	}
	return tbl
}

// navigatorFor loads the tasks of project (all tasks when empty) and builds a
// navigator bounded by the project's window.
func (app *App) navigatorFor(ctx context.Context, st *store.Store, project string, view model.View) (*navigator.Navigator, error) {
	var window *bounds.Window
	if project != "" {
		p, err := st.Project(ctx, project)
		if err != nil {
			return nil, err
		}
		window, err = bounds.ForProject(p)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", project, err)
		}
	}

	tasks, err := st.Tasks(ctx, project)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded tasks", "project", project, "count", len(tasks))

	tbl := app.locale()
	return navigator.New(tasks, navigator.Options{
		Window: window,
		Clock:  app.Clock,
		Locale: &tbl,
		View:   view,
	}), nil
}
