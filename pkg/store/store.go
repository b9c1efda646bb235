// Package store keeps a local SQLite snapshot of projects and tasks gathered
// from the task sources, so calendar views start without re-reading them.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/harrisonrobin/taskcal/pkg/model"

	_ "modernc.org/sqlite"
)

var ErrProjectNotFound = errors.New("project not found")

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date   TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT NOT NULL,
	source      TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL DEFAULT '',
	priority    TEXT NOT NULL,
	status      TEXT NOT NULL,
	project_id  TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (source, id)
);
CREATE INDEX IF NOT EXISTS tasks_project ON tasks(project_id);
`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	// A single connection keeps :memory: databases alive across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveProject inserts or replaces a project.
func (s *Store) SaveProject(ctx context.Context, p model.Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, start_date, end_date) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, start_date = excluded.start_date, end_date = excluded.end_date`,
		p.ID, p.Name, p.StartDate, p.EndDate)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) Project(ctx context.Context, id string) (model.Project, error) {
	var p model.Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to load project %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) Projects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, start_date, end_date FROM projects ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ReplaceTasks swaps the snapshot of one source in a single transaction.
func (s *Store) ReplaceTasks(ctx context.Context, source string, tasks []model.Task) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "rollback failed", "error", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE source = ?`, source); err != nil {
		return fmt.Errorf("failed to clear %s tasks: %w", source, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO tasks (id, source, name, description, start_date, end_date, priority, status, project_id, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		tags, mErr := json.Marshal(t.Tags)
		if mErr != nil {
			return fmt.Errorf("failed to encode tags of %s: %w", t.ID, mErr)
		}
		if _, err = stmt.ExecContext(ctx, t.ID, source, t.Name, t.Description, t.StartDate, t.EndDate,
			string(t.Priority), string(t.Status), t.ProjectID, string(tags)); err != nil {
			return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	slog.DebugContext(ctx, "replaced task snapshot", "source", source, "count", len(tasks))
	return nil
}

// Tasks returns every stored task, or only those of projectID when it is not
// empty, ordered by start date.
func (s *Store) Tasks(ctx context.Context, projectID string) ([]model.Task, error) {
	query := `SELECT id, source, name, description, start_date, end_date, priority, status, project_id, tags FROM tasks`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY start_date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			t              model.Task
			priority, stat string
			tags           string
		)
		if err := rows.Scan(&t.ID, &t.Source, &t.Name, &t.Description, &t.StartDate, &t.EndDate,
			&priority, &stat, &t.ProjectID, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Priority = model.Priority(priority)
		t.Status = model.Status(stat)
		if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
			slog.WarnContext(ctx, "ignoring malformed tags", "task", t.ID, "error", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
