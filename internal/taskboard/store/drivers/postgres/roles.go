package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type rolesRepo struct {
	db *gorm.DB
}

var _ store.Roles = (*rolesRepo)(nil)

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	m := roleModel{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt.UTC(),
		UpdatedAt:   role.UpdatedAt.UTC(),
	}
	return mapError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return domain.Role{}, mapError(err)
	}
	return m.toDomain(), nil
}

func (r *rolesRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var ms []roleModel
	if err := r.db.WithContext(ctx).Order("name").Find(&ms).Error; err != nil {
		return nil, mapError(err)
	}
	return rolesToDomain(ms), nil
}

func (r *rolesRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	m := userRoleModel{UserID: userID, RoleID: roleID, CreatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&m).Error
	return mapError(err)
}

func (r *rolesRepo) ListUserRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	var ms []roleModel
	err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Find(&ms).Error
	if err != nil {
		return nil, mapError(err)
	}
	return rolesToDomain(ms), nil
}

func rolesToDomain(ms []roleModel) []domain.Role {
	out := make([]domain.Role, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out
}
