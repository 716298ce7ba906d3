package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectsRepo struct {
	db *gorm.DB
}

var _ store.Projects = (*projectsRepo)(nil)

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	m := projectFromDomain(p)
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error)
}

func (r *projectsRepo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	var m projectModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domain.Project{}, mapError(err)
	}
	return m.toDomain(), nil
}

func (r *projectsRepo) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch, now time.Time) (domain.Project, error) {
	cols := map[string]any{"updated_at": now.UTC()}
	setField(cols, "title", patch.Title)
	setField(cols, "description", patch.Description)

	var m projectModel
	res := r.db.WithContext(ctx).Model(&m).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(cols)
	if err := requireAffected(res); err != nil {
		return domain.Project{}, err
	}
	return m.toDomain(), nil
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&projectModel{}, "id = ?", id))
}

func (r *projectsRepo) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	q := r.db.WithContext(ctx).Model(&projectModel{})
	if filter.OwnerID != "" {
		q = q.Where("user_id = ?", filter.OwnerID)
	}

	var ms []projectModel
	if err := q.Order("id").Find(&ms).Error; err != nil {
		return nil, mapError(err)
	}

	out := make([]domain.Project, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}
