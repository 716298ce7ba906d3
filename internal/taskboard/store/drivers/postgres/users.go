package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type usersRepo struct {
	db *gorm.DB
}

var _ store.Users = (*usersRepo)(nil)

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	m := userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
	return mapError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domain.User{}, mapError(err)
	}
	return m.toDomain(), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return domain.User{}, mapError(err)
	}
	return m.toDomain(), nil
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, patch domain.UserPatch, now time.Time) (domain.User, error) {
	cols := map[string]any{"updated_at": now.UTC()}
	setField(cols, "name", patch.Name)
	setField(cols, "password_hash", patch.PasswordHash)

	var m userModel
	res := r.db.WithContext(ctx).Model(&m).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(cols)
	if err := requireAffected(res); err != nil {
		return domain.User{}, err
	}
	return m.toDomain(), nil
}
