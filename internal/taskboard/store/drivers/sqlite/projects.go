package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

type projectsRepo struct {
	db dbtx
}

var _ store.Projects = (*projectsRepo)(nil)

const projectColumns = `id, title, description, user_id, created_at, updated_at`

func scanProject(row scanner) (domain.Project, error) {
	var (
		p                    domain.Project
		description          sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Title, &description, &p.OwnerID, &createdAt, &updatedAt); err != nil {
		return domain.Project{}, mapNotFound(err)
	}

	p.Description = mapNullStringPtr(description)

	var err error
	if p.CreatedAt, err = decodeTime(createdAt); err != nil {
		return domain.Project{}, err
	}
	if p.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, mapOptionalString(p.Description), p.OwnerID, encodeTime(p.CreatedAt), encodeTime(p.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *projectsRepo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
}

func (r *projectsRepo) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch, now time.Time) (domain.Project, error) {
	var set patchSet
	set.add("updated_at", encodeTime(now))
	if patch.Title.Set {
		set.add("title", optional(patch.Title.Value))
	}
	if patch.Description.Set {
		set.add("description", optional(patch.Description.Value))
	}

	p, err := scanProject(r.db.QueryRowContext(ctx,
		`UPDATE projects SET `+set.clause()+` WHERE id = ? RETURNING `+projectColumns,
		append(set.args, id)...,
	))
	if err != nil {
		return domain.Project{}, mapConstraint(err)
	}
	return p, nil
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *projectsRepo) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if filter.OwnerID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, filter.OwnerID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
