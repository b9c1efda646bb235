package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/harrisonrobin/taskcal/pkg/auth"
	"github.com/harrisonrobin/taskcal/pkg/config"
	"github.com/harrisonrobin/taskcal/pkg/google"
	"github.com/harrisonrobin/taskcal/pkg/index"
	"github.com/harrisonrobin/taskcal/pkg/model"
	"github.com/harrisonrobin/taskcal/pkg/overdue"
	"github.com/harrisonrobin/taskcal/pkg/taskwarrior"
	"github.com/spf13/cobra"
	"google.golang.org/api/calendar/v3"
)

// publisher is the part of google.CalendarClient the sync needs.
type publisher interface {
	SyncTask(ctx context.Context, task model.Task) (*calendar.Event, error)
	DeleteTask(ctx context.Context, taskID string) error
	PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error)
}

// syncState is the local bookkeeping that survives between syncs.
type syncState struct {
	index *index.EventIndex
	sweep *overdue.Table
}

func openSyncState() (*syncState, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	idx, err := index.NewEventIndex(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load event index: %w", err)
	}
	sweep, err := overdue.NewTable(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load overdue table: %w", err)
	}
	return &syncState{index: idx, sweep: sweep}, nil
}

func (s *syncState) save() error {
	if err := s.index.Save(); err != nil {
		return err
	}
	return s.sweep.Save()
}

func (app *App) calendarClient(ctx context.Context, calendarName string, idx *index.EventIndex) (*google.CalendarClient, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	httpClient, err := auth.GetClient(ctx, dir, google.Scopes)
	if err != nil {
		return nil, err
	}
	if calendarName == "" {
		calendarName = app.Config.Calendar
	}
	return google.NewClient(ctx, httpClient, calendarName, idx)
}

type syncReport struct {
	Synced, Deleted, Overdue, Failed int
}

// sweepOverdue re-titles the events of open tasks whose last day has passed.
func sweepOverdue(ctx context.Context, pub publisher, state *syncState, now time.Time) int {
	swept := 0
	for _, e := range state.sweep.Sweep(now) {
		patch := &calendar.Event{Summary: google.PrefixOverdue + " " + e.Summary}
		if _, err := pub.PatchEvent(ctx, e.GCalID, patch); err != nil {
			slog.Warn("sweep: error patching event", "event", e.GCalID, "error", err)
			continue
		}
		swept++
	}
	return swept
}

// syncTask publishes one task and tracks it for the overdue sweep while it is
// open and not yet overdue.
func syncTask(ctx context.Context, pub publisher, state *syncState, task model.Task, now time.Time) error {
	event, err := pub.SyncTask(ctx, task)
	if err != nil {
		return err
	}
	if task.Status == model.StatusFinished || google.IsOverdue(task, now) {
		state.sweep.Remove(task.ID)
	} else {
		state.sweep.Update(task.ID, event.Id, task.Name, google.LastDayKey(task))
	}
	return nil
}

func deleteTask(ctx context.Context, pub publisher, state *syncState, taskID string) error {
	state.sweep.Remove(taskID)
	return pub.DeleteTask(ctx, taskID)
}

// publish syncs every task and, when prune is set, deletes the events of
// indexed tasks that are no longer in the snapshot.
func publish(ctx context.Context, pub publisher, state *syncState, tasks []model.Task, prune bool, now time.Time) syncReport {
	var report syncReport
	report.Overdue = sweepOverdue(ctx, pub, state, now)

	seen := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		seen[task.ID] = true
		if err := syncTask(ctx, pub, state, task, now); err != nil {
			slog.Warn("error syncing task", "task", task.ID, "error", err)
			report.Failed++
			continue
		}
		report.Synced++
	}

	if prune {
		for _, id := range state.index.TaskIDs() {
			if seen[id] {
				continue
			}
			if err := deleteTask(ctx, pub, state, id); err != nil {
				slog.Warn("error deleting event", "task", id, "error", err)
				report.Failed++
				continue
			}
			report.Deleted++
		}
	}
	return report
}

func newSyncCmd(app *App) *cobra.Command {
	var project, calendarName string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Publish the task snapshot to Google Calendar",
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

			state, err := openSyncState()
			if err != nil {
				return err
			}
			client, err := app.calendarClient(ctx, calendarName, state.index)
			if err != nil {
				return err
			}

			report := publish(ctx, client, state, tasks, project == "", app.Clock())
			if err := state.save(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "synced %d, deleted %d, marked overdue %d, failed %d\n",
				report.Synced, report.Deleted, report.Overdue, report.Failed)
			return err
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only publish this project's tasks")
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	return cmd
}

// hookAction decides what a taskwarrior hook payload means: one task for
// on-add, the old and new task for on-modify.
func hookAction(tasks []taskwarrior.Task) (taskwarrior.Task, bool, bool) {
	switch len(tasks) {
	case 0:
		return taskwarrior.Task{}, false, false
	case 1:
		return tasks[0], false, true
	}
	task := tasks[1]
	remove := task.Status == taskwarrior.WAITING || task.Status == taskwarrior.DELETED
	for _, tag := range task.Tags {
		if tag == "BLOCKED" {
			remove = true
			break
		}
	}
	return task, remove, true
}

func newHookCmd(app *App) *cobra.Command {
	var background bool
	var calendarName string

	cmd := &cobra.Command{
		Use:   "hook",
		Short: "taskwarrior on-add/on-modify hook",
		Long: "Reads the hook payload on stdin, echoes the task back to taskwarrior and " +
			"publishes it from a detached background process.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := taskwarrior.NewClient()
			twTasks, err := client.ParseTasks(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("error parsing tasks from stdin: %w", err)
			}
			if len(twTasks) == 0 {
				return nil
			}

			if !background {
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(twTasks[len(twTasks)-1]); err != nil {
					return err
				}
				return spawnBackground(twTasks, calendarName)
			}

			task, remove, ok := hookAction(twTasks)
			if !ok {
				return nil
			}
			ctx := cmd.Context()
			state, err := openSyncState()
			if err != nil {
				return err
			}
			gClient, err := app.calendarClient(ctx, calendarName, state.index)
			if err != nil {
				return err
			}

			now := app.Clock()
			sweepOverdue(ctx, gClient, state, now)
			converted, dated := taskwarrior.ToModel(task)
			switch {
			case remove || !dated:
				err = deleteTask(ctx, gClient, state, task.UUID)
			default:
				err = syncTask(ctx, gClient, state, converted, now)
			}
			if err != nil {
				slog.Error("hook sync failed", "task", task.UUID, "error", err)
			}
			return state.save()
		},
	}

	cmd.Flags().BoolVar(&background, "background", false, "Internal use: run in background mode")
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	_ = cmd.Flags().MarkHidden("background")
	return cmd
}

// spawnBackground re-runs the hook detached so taskwarrior is not kept
// waiting on the network.
func spawnBackground(tasks []taskwarrior.Task, calendarName string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not find self: %w", err)
	}
	args := []string{"hook", "--background"}
	if calendarName != "" {
		args = append(args, "--calendar", calendarName)
	}
	cmd := exec.Command(self, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("could not open stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not start background process: %w", err)
	}
	if err := json.NewEncoder(stdin).Encode(tasks); err != nil {
		return err
	}
	return stdin.Close()
}

func newAuthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			if err := auth.Reset(dir); err != nil {
				return err
			}
			if _, err := auth.GetClient(cmd.Context(), dir, google.Scopes); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Authentication successful")
			return err
		},
	}
}

func newSetCalendarCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-calendar NAME",
		Short: "Set the default Google Calendar name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Config.Calendar = args[0]
			if err := config.Save(app.Config); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Default calendar set to: %s\n", args[0])
			return err
		},
	}
}
