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

// Account is a user together with the roles they hold.
type Account struct {
	User  domain.User
	Roles []domain.Role
}

// Session is what register and login hand back.
type Session struct {
	Account
	Token domain.IssuedToken
}

type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// ProfileInput is a partial profile update. Nil fields were not supplied.
type ProfileInput struct {
	Name                 *string
	Password             *string
	PasswordConfirmation *string
	CurrentPassword      *string
}

type UserService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
	Tokens *TokenService
}

// Register creates a user holding the "user" role and signs them in. The
// user, role link and token are written in one transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	l := slogx.FromContext(ctx)

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	v := &ValidationError{}
	requireString(v, "name", in.Name)
	checkEmail(v, in.Email)
	checkNewPassword(v, in.Password, in.PasswordConfirmation)
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, in.Email); err == nil {
		return Session{}, fieldError("email", "The email has already been taken.")
	} else if !errors.Is(err, store.ErrNotFound) {
		return Session{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var sess Session
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fieldError("email", "The email has already been taken.")
			}
			return err
		}

		role, err := tx.Roles().GetRoleByName(ctx, domain.RoleNameUser)
		switch {
		case err == nil:
			if err := tx.Roles().AssignRole(ctx, user.ID, role.ID); err != nil {
				return err
			}
			sess.Roles = []domain.Role{role}
		case errors.Is(err, store.ErrNotFound):
			l.Warn("default role missing, user registered without roles", slog.String("role", domain.RoleNameUser))
		default:
			return err
		}

		token, err := s.Tokens.issue(ctx, tx.AccessTokens(), user)
		if err != nil {
			return err
		}
		sess.User = user
		sess.Token = token
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return sess, nil
}

// Login checks credentials and issues a new token. Hashes in an outdated
// format are upgraded on the way through.
func (s *UserService) Login(ctx context.Context, email, password string) (Session, error) {
	l := slogx.FromContext(ctx)

	v := &ValidationError{}
	checkEmail(v, email)
	if password == "" {
		v.Add("password", "The password field is required.")
	}
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := s.Hasher.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMalformedHash) {
			l.Error("stored password hash is unusable", slog.String("user_id", user.ID))
		}
		return Session{}, ErrInvalidCredentials
	}

	if s.Hasher.NeedsRehash(user.PasswordHash) {
		if hash, err := s.Hasher.Hash(password); err == nil {
			if updated, err := s.Store.Users().UpdateUser(ctx, user.ID,
				domain.UserPatch{PasswordHash: domain.Some(hash)}, time.Now()); err == nil {
				user = updated
			} else {
				l.Warn("password rehash failed", slog.String("user_id", user.ID), slog.Any("error", err))
			}
		}
	}

	roles, err := s.Store.Roles().ListUserRoles(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}

	token, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		return Session{}, err
	}

	l.Info("user logged in", slog.String("user_id", user.ID))
	return Session{Account: Account{User: user, Roles: roles}, Token: token}, nil
}

// Logout revokes the token the actor authenticated with. Other tokens of
// the same user stay valid.
func (s *UserService) Logout(ctx context.Context, actor domain.Actor) error {
	return s.Tokens.Revoke(ctx, actor.TokenID)
}

func (s *UserService) Profile(ctx context.Context, actor domain.Actor) (Account, error) {
	user, err := s.Store.Users().GetUserByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Account{}, ErrUnauthenticated
		}
		return Account{}, err
	}

	roles, err := s.Store.Roles().ListUserRoles(ctx, user.ID)
	if err != nil {
		return Account{}, err
	}
	return Account{User: user, Roles: roles}, nil
}

// UpdateProfile changes the actor's name and/or password. A new password
// requires the current one.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, in ProfileInput) (Account, error) {
	var patch domain.UserPatch

	v := &ValidationError{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		requireString(v, "name", name)
		patch.Name = domain.Some(name)
	}
	if in.Password != nil {
		confirmation := ""
		if in.PasswordConfirmation != nil {
			confirmation = *in.PasswordConfirmation
		}
		checkNewPassword(v, *in.Password, confirmation)
		if in.CurrentPassword == nil || *in.CurrentPassword == "" {
			v.Add("current_password", "The current password field is required when password is present.")
		}
	}
	if err := v.Err(); err != nil {
		return Account{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Account{}, ErrUnauthenticated
		}
		return Account{}, err
	}

	if in.Password != nil {
		if err := s.Hasher.Verify(*in.CurrentPassword, user.PasswordHash); err != nil {
			return Account{}, &ValidationError{
				Message: "Current password is incorrect",
				Fields:  map[string][]string{"current_password": {"Current password is incorrect"}},
			}
		}
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return Account{}, err
		}
		patch.PasswordHash = domain.Some(hash)
	}

	if patch.Name.Set || patch.PasswordHash.Set {
		if user, err = s.Store.Users().UpdateUser(ctx, user.ID, patch, time.Now()); err != nil {
			return Account{}, err
		}
	}

	roles, err := s.Store.Roles().ListUserRoles(ctx, user.ID)
	if err != nil {
		return Account{}, err
	}
	return Account{User: user, Roles: roles}, nil
}
