package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

type rolesRepo struct {
	db dbtx
}

var _ store.Roles = (*rolesRepo)(nil)

const roleColumns = `roles.id, roles.name, roles.description, roles.created_at, roles.updated_at`

func scanRole(row scanner) (domain.Role, error) {
	var (
		r                    domain.Role
		createdAt, updatedAt string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &createdAt, &updatedAt); err != nil {
		return domain.Role{}, mapNotFound(err)
	}

	var err error
	if r.CreatedAt, err = decodeTime(createdAt); err != nil {
		return domain.Role{}, err
	}
	if r.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return domain.Role{}, err
	}
	return r, nil
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		role.ID, role.Name, role.Description, encodeTime(role.CreatedAt), encodeTime(role.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	return scanRole(r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = ?`, name))
}

func (r *rolesRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return r.list(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY roles.name`)
}

func (r *rolesRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, role_id) DO NOTHING`,
		userID, roleID, encodeTime(time.Now()),
	)
	return mapConstraint(err)
}

func (r *rolesRepo) ListUserRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	return r.list(ctx,
		`SELECT `+roleColumns+` FROM roles
		 JOIN user_roles ON user_roles.role_id = roles.id
		 WHERE user_roles.user_id = ?
		 ORDER BY roles.name`,
		userID,
	)
}

func (r *rolesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}
