package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tasksRepo struct {
	db *gorm.DB
}

var _ store.Tasks = (*tasksRepo)(nil)

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	m := taskFromDomain(t)
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error)
}

func (r *tasksRepo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var m taskModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domain.Task{}, mapError(err)
	}
	return m.toDomain(), nil
}

func (r *tasksRepo) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch, now time.Time) (domain.Task, error) {
	cols := map[string]any{"updated_at": now.UTC()}
	setField(cols, "title", patch.Title)
	setField(cols, "description", patch.Description)
	setField(cols, "project_id", patch.ProjectID)
	if v, ok := patch.Status.Get(); ok {
		cols["status"] = string(v)
	}
	if v, ok := patch.Priority.Get(); ok {
		cols["priority"] = string(v)
	}
	if patch.DueDate.Set {
		if d, ok := patch.DueDate.Get(); ok {
			cols["due_date"] = d.UTC().Format(domain.DateLayout)
		} else {
			cols["due_date"] = nil
		}
	}

	var m taskModel
	res := r.db.WithContext(ctx).Model(&m).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(cols)
	if err := requireAffected(res); err != nil {
		return domain.Task{}, err
	}
	return m.toDomain(), nil
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id string) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&taskModel{}, "id = ?", id))
}

func (r *tasksRepo) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Model(&taskModel{})
	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.OwnerID != "" {
		q = q.Where("user_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", string(filter.Priority))
	}

	var ms []taskModel
	if err := q.Order("id").Find(&ms).Error; err != nil {
		return nil, mapError(err)
	}

	out := make([]domain.Task, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}
