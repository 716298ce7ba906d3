package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

type tasksRepo struct {
	db dbtx
}

var _ store.Tasks = (*tasksRepo)(nil)

const taskColumns = `id, title, description, status, priority, due_date, project_id, user_id, created_at, updated_at`

func scanTask(row scanner) (domain.Task, error) {
	var (
		t                    domain.Task
		description, dueDate sql.NullString
		status, priority     string
		createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.Title, &description, &status, &priority, &dueDate,
		&t.ProjectID, &t.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}

	t.Description = mapNullStringPtr(description)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)

	if t.DueDate, err = decodeDate(dueDate); err != nil {
		return domain.Task{}, err
	}
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return domain.Task{}, err
	}
	if t.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, mapOptionalString(t.Description), string(t.Status), string(t.Priority),
		encodeDate(t.DueDate), t.ProjectID, t.OwnerID, encodeTime(t.CreatedAt), encodeTime(t.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *tasksRepo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	return scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
}

func (r *tasksRepo) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch, now time.Time) (domain.Task, error) {
	var set patchSet
	set.add("updated_at", encodeTime(now))
	if patch.Title.Set {
		set.add("title", optional(patch.Title.Value))
	}
	if patch.Description.Set {
		set.add("description", optional(patch.Description.Value))
	}
	if patch.Status.Set {
		set.add("status", optional(patch.Status.Value))
	}
	if patch.Priority.Set {
		set.add("priority", optional(patch.Priority.Value))
	}
	if patch.DueDate.Set {
		set.add("due_date", encodeDate(patch.DueDate.Value))
	}
	if patch.ProjectID.Set {
		set.add("project_id", optional(patch.ProjectID.Value))
	}

	t, err := scanTask(r.db.QueryRowContext(ctx,
		`UPDATE tasks SET `+set.clause()+` WHERE id = ? RETURNING `+taskColumns,
		append(set.args, id)...,
	))
	if err != nil {
		return domain.Task{}, mapConstraint(err)
	}
	return t, nil
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *tasksRepo) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.OwnerID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(filter.Priority))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
