package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

type usersRepo struct {
	db dbtx
}

var _ store.Users = (*usersRepo)(nil)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func scanUser(row scanner) (domain.User, error) {
	var (
		u                    domain.User
		createdAt, updatedAt string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}

	var err error
	if u.CreatedAt, err = decodeTime(createdAt); err != nil {
		return domain.User{}, err
	}
	if u.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, encodeTime(u.CreatedAt), encodeTime(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)),
	))
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, patch domain.UserPatch, now time.Time) (domain.User, error) {
	var set patchSet
	set.add("updated_at", encodeTime(now))
	if patch.Name.Set {
		set.add("name", optional(patch.Name.Value))
	}
	if patch.PasswordHash.Set {
		set.add("password_hash", optional(patch.PasswordHash.Value))
	}

	row := r.db.QueryRowContext(ctx,
		`UPDATE users SET `+set.clause()+` WHERE id = ? RETURNING `+userColumns,
		append(set.args, id)...,
	)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return u, nil
}
