package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// DefaultRoles is the reference role data every installation carries.
var DefaultRoles = []domain.Role{
	{Name: domain.RoleNameAdmin, Description: "Administrator with full access to all features"},
	{Name: domain.RoleNameUser, Description: "Regular user with limited access"},
	{Name: domain.RoleNameManager, Description: "Project manager with access to manage multiple projects"},
}

// AdminAccount describes the administrator created on first start. An empty
// Email skips admin creation.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

type SeedService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
	Admin  AdminAccount
}

// Seed creates missing roles and the configured admin. Running it again
// changes nothing.
func (s *SeedService) Seed(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()
		for _, def := range DefaultRoles {
			_, err := tx.Roles().GetRoleByName(ctx, def.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			role := def
			role.ID = idx.New().String()
			role.CreatedAt, role.UpdatedAt = now, now
			if err := tx.Roles().CreateRole(ctx, role); err != nil {
				return err
			}
			l.Info("seeded role", slog.String("role", role.Name))
		}

		return s.seedAdmin(ctx, tx, now)
	})
}

func (s *SeedService) seedAdmin(ctx context.Context, tx store.Tx, now time.Time) error {
	l := slogx.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(s.Admin.Email))
	if email == "" {
		return nil
	}

	if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	password := s.Admin.Password
	generated := password == ""
	if generated {
		var err error
		if password, err = cryptox.GeneratePassword(); err != nil {
			return err
		}
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(s.Admin.Name)
	if name == "" {
		name = "Administrator"
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Users().CreateUser(ctx, admin); err != nil {
		return err
	}

	role, err := tx.Roles().GetRoleByName(ctx, domain.RoleNameAdmin)
	if err != nil {
		return err
	}
	if err := tx.Roles().AssignRole(ctx, admin.ID, role.ID); err != nil {
		return err
	}

	if generated {
		// Shown once; the operator is expected to change it.
		l.Warn("created admin user with generated password",
			slog.String("email", email),
			slog.String("password", password),
		)
	} else {
		l.Info("created admin user", slog.String("email", email))
	}
	return nil
}
