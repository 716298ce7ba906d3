package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/policy"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// StatusNotifier is told about every task update and decides whether it is
// worth an event.
type StatusNotifier interface {
	MaybeNotify(ctx context.Context, previous domain.TaskStatus, statusRequested bool, updated domain.Task) bool
}

// TaskInput creates a task. Status, priority and due date are raw strings
// as received; nil means not supplied.
type TaskInput struct {
	Title       string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	ProjectID   string
}

// TaskPatchInput is a partial task update with raw values.
type TaskPatchInput struct {
	Title       domain.Field[string]
	Description domain.Field[string]
	Status      domain.Field[string]
	Priority    domain.Field[string]
	DueDate     domain.Field[string]
	ProjectID   domain.Field[string]
}

// TaskQuery filters List. Empty fields are ignored.
type TaskQuery struct {
	ProjectID string
	Status    string
	Priority  string
}

type TaskService struct {
	Store    store.Store
	Notifier StatusNotifier
}

// List applies the project filter under the project's view permission. With
// no project filter, non-admins only see tasks they created.
func (s *TaskService) List(ctx context.Context, actor domain.Actor, q TaskQuery) ([]domain.Task, error) {
	var filter domain.TaskFilter

	v := &ValidationError{}
	if q.Status != "" {
		filter.Status, _ = parseStatus(v, q.Status)
	}
	if q.Priority != "" {
		filter.Priority, _ = parsePriority(v, q.Priority)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if q.ProjectID != "" {
		p, err := resolveProject(ctx, s.Store, q.ProjectID)
		if err != nil {
			return nil, err
		}
		if !policy.CanListProjectTasks(actor, p) {
			return nil, forbidden("view tasks in this project")
		}
		filter.ProjectID = p.ID
	} else if !actor.IsAdmin() {
		filter.OwnerID = actor.UserID
	}

	return s.Store.Tasks().ListTasks(ctx, filter)
}

// Create files a task under a project the actor may add to. Status defaults
// to pending and priority to medium.
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in TaskInput) (domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.ProjectID = strings.TrimSpace(in.ProjectID)

	now := time.Now().UTC()
	task := domain.Task{
		ID:          idx.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.TaskPending,
		Priority:    domain.PriorityMedium,
		ProjectID:   in.ProjectID,
		OwnerID:     actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	v := &ValidationError{}
	requireString(v, "title", in.Title)
	if in.ProjectID == "" {
		v.Add("project_id", "The project id field is required.")
	}
	if in.Status != nil {
		if st, ok := parseStatus(v, *in.Status); ok {
			task.Status = st
		}
	}
	if in.Priority != nil {
		if pr, ok := parsePriority(v, *in.Priority); ok {
			task.Priority = pr
		}
	}
	if in.DueDate != nil {
		if due, ok := parseDueDate(v, *in.DueDate); ok {
			task.DueDate = &due
		}
	}
	if err := v.Err(); err != nil {
		return domain.Task{}, err
	}

	project, err := resolveProject(ctx, s.Store, in.ProjectID)
	if err != nil {
		return domain.Task{}, err
	}
	if !policy.CanCreateTaskIn(actor, project) {
		return domain.Task{}, forbidden("add tasks to this project")
	}

	if err := s.Store.Tasks().CreateTask(ctx, task); err != nil {
		// The project can vanish between the check and the insert.
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, notFound("project")
		}
		return domain.Task{}, err
	}

	slogx.FromContext(ctx).Info("task created",
		slog.String("task_id", task.ID),
		slog.String("project_id", task.ProjectID),
	)
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, actor domain.Actor, id string) (domain.Task, error) {
	t, err := s.resolve(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if !policy.CanAccess(actor, policy.TaskResource(t), policy.OpView) {
		return domain.Task{}, forbidden("view this task")
	}
	return t, nil
}

// Update applies the supplied fields. Moving a task needs create permission
// on the destination project. A status change is announced after the write
// and cannot fail the update.
func (s *TaskService) Update(ctx context.Context, actor domain.Actor, id string, in TaskPatchInput) (domain.Task, error) {
	patch, err := validateTaskPatch(in)
	if err != nil {
		return domain.Task{}, err
	}

	t, err := s.resolve(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if !policy.CanAccess(actor, policy.TaskResource(t), policy.OpUpdate) {
		return domain.Task{}, forbidden("update this task")
	}

	if dest, ok := patch.ProjectID.Get(); ok && dest != t.ProjectID {
		project, err := resolveProject(ctx, s.Store, dest)
		if err != nil {
			return domain.Task{}, err
		}
		if !policy.CanMoveTaskTo(actor, project) {
			return domain.Task{}, forbidden("move task to the specified project")
		}
	}

	if patch.Empty() {
		return t, nil
	}

	previous := t.Status
	updated, err := s.Store.Tasks().UpdateTask(ctx, t.ID, patch, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, notFound("task")
		}
		return domain.Task{}, err
	}

	if s.Notifier != nil {
		s.Notifier.MaybeNotify(ctx, previous, patch.Status.Set, updated)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	t, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanAccess(actor, policy.TaskResource(t), policy.OpDelete) {
		return forbidden("delete this task")
	}

	if err := s.Store.Tasks().DeleteTask(ctx, t.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("task")
		}
		return err
	}
	return nil
}

func (s *TaskService) resolve(ctx context.Context, id string) (domain.Task, error) {
	t, err := s.Store.Tasks().GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, notFound("task")
		}
		return domain.Task{}, err
	}
	return t, nil
}

// validateTaskPatch checks raw values and converts them. Title, status,
// priority and project cannot be nulled; description and due date can.
func validateTaskPatch(in TaskPatchInput) (domain.TaskPatch, error) {
	var patch domain.TaskPatch
	v := &ValidationError{}

	if in.Title.Set {
		title, _ := in.Title.Get()
		title = strings.TrimSpace(title)
		requireString(v, "title", title)
		patch.Title = domain.Some(title)
	}
	patch.Description = in.Description

	if in.Status.Set {
		raw, _ := in.Status.Get()
		if st, ok := parseStatus(v, raw); ok {
			patch.Status = domain.Some(st)
		}
	}
	if in.Priority.Set {
		raw, _ := in.Priority.Get()
		if pr, ok := parsePriority(v, raw); ok {
			patch.Priority = domain.Some(pr)
		}
	}
	if in.DueDate.Set {
		if raw, ok := in.DueDate.Get(); ok {
			if due, ok := parseDueDate(v, raw); ok {
				patch.DueDate = domain.Some(due)
			}
		} else {
			patch.DueDate = domain.Null[time.Time]()
		}
	}
	if in.ProjectID.Set {
		raw, _ := in.ProjectID.Get()
		raw = strings.TrimSpace(raw)
		if raw == "" {
			v.Add("project_id", "The project id field is required.")
		} else {
			patch.ProjectID = domain.Some(raw)
		}
	}

	if err := v.Err(); err != nil {
		return domain.TaskPatch{}, err
	}
	return patch, nil
}
