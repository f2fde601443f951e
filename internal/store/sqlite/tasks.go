package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/SebastinST/tms-backend/internal/audit"
	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/store"
)

const taskColumns = `task_id, name, description, app_acronym, plan, state, creator, owner, notes_json, create_date, version`

// GetTask retrieves a task by ID.
func (b *Backend) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	row := b.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM task WHERE task_id = ?
	`, id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, store.NewNotFoundError("task", id)
	}
	return task, err
}

// ListTasks retrieves tasks matching the filter, newest first.
func (b *Backend) ListTasks(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task WHERE 1=1`
	var args []any

	if filter.App != "" {
		query += ` AND app_acronym = ?`
		args = append(args, filter.App)
	}
	if filter.State != "" {
		query += ` AND state = ?`
		args = append(args, string(filter.State))
	}
	if filter.Plan != "" {
		query += ` AND plan = ?`
		args = append(args, filter.Plan)
	}
	query += ` ORDER BY create_date DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CreateTask assigns the task its ID from the owning application's
// running number and inserts it, incrementing the counter in the same
// transaction. The counter update runs first so concurrent creations
// against one application serialize on the row write lock and can never
// mint the same number.
func (b *Backend) CreateTask(ctx context.Context, task *domain.Task) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE application SET rnumber = rnumber + 1 WHERE acronym = ?
	`, task.AppAcronym)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.NewNotFoundError("application", task.AppAcronym)
	}

	var rnumber int64
	if err := tx.QueryRowContext(ctx, `
		SELECT rnumber FROM application WHERE acronym = ?
	`, task.AppAcronym).Scan(&rnumber); err != nil {
		return err
	}

	// rnumber now holds the post-increment value; the task takes the
	// number it was created at.
	task.ID = domain.TaskID(task.AppAcronym, rnumber-1)
	task.Version = 1

	notesJSON, err := json.Marshal(task.Notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO task (task_id, name, description, app_acronym, plan, state, creator, owner, notes_json, create_date, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.Name, task.Description, task.AppAcronym, nullable(task.Plan),
		string(task.State), task.Creator, task.Owner, string(notesJSON), task.CreateDate, task.Version)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("task %s: %w", task.ID, store.ErrAlreadyExists)
		}
		return err
	}

	return tx.Commit()
}

// UpdateTask persists a task snapshot guarded by the version it was
// loaded at. Zero affected rows means either a concurrent writer bumped
// the version (stale write) or the task vanished.
func (b *Backend) UpdateTask(ctx context.Context, task *domain.Task) error {
	notesJSON, err := json.Marshal(task.Notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	res, err := b.db.ExecContext(ctx, `
		UPDATE task
		SET plan = ?, state = ?, owner = ?, notes_json = ?, version = version + 1
		WHERE task_id = ? AND version = ?
	`, nullable(task.Plan), string(task.State), task.Owner, string(notesJSON),
		task.ID, task.Version)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := b.db.QueryRowContext(ctx, `
			SELECT COUNT(1) FROM task WHERE task_id = ?
		`, task.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return store.NewNotFoundError("task", task.ID)
		}
		return fmt.Errorf("task %s: %w", task.ID, store.ErrStaleWrite)
	}

	task.Version++
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*domain.Task, error) {
	var task domain.Task
	var description, plan sql.NullString
	var state string
	var notesJSON string

	err := s.Scan(&task.ID, &task.Name, &description, &task.AppAcronym, &plan,
		&state, &task.Creator, &task.Owner, &notesJSON, &task.CreateDate, &task.Version)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Plan = plan.String
	task.State = domain.State(state)

	var trail audit.Trail
	if err := json.Unmarshal([]byte(notesJSON), &trail); err != nil {
		return nil, fmt.Errorf("unmarshal notes for %s: %w", task.ID, err)
	}
	task.Notes = trail

	return &task, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
