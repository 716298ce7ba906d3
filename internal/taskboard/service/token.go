package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

const TokenTypeBearer = "Bearer"

// TokenService issues and checks bearer tokens. A token is a signed JWT whose
// jti names a row in access_tokens; the row is what logout deletes.
type TokenService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
}

// Issue mints a new token for user. Every call creates a fresh token; earlier
// tokens stay valid.
func (s *TokenService) Issue(ctx context.Context, user domain.User) (domain.IssuedToken, error) {
	return s.issue(ctx, s.Store.AccessTokens(), user)
}

func (s *TokenService) issue(ctx context.Context, tokens store.AccessTokens, user domain.User) (domain.IssuedToken, error) {
	now := time.Now().UTC()
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	rec := domain.AccessToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Name:      "auth_token",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	raw, err := s.Signer.Sign(jwtx.NewAccessClaims(user.ID, rec.ID, user.Name, s.Issuer, ttl, now))
	if err != nil {
		return domain.IssuedToken{}, err
	}
	if err := tokens.CreateAccessToken(ctx, rec); err != nil {
		return domain.IssuedToken{}, err
	}

	return domain.IssuedToken{Token: raw, TokenType: TokenTypeBearer, ExpiresAt: rec.ExpiresAt}, nil
}

// Authenticate resolves a raw bearer token into an Actor. The role set is
// loaded here once and travels with the Actor for the rest of the request.
func (s *TokenService) Authenticate(ctx context.Context, raw string) (domain.Actor, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		l.Debug("token verification failed", slog.Any("error", err))
		return domain.Actor{}, ErrUnauthenticated
	}

	rec, err := s.Store.AccessTokens().GetAccessToken(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Actor{}, ErrUnauthenticated
		}
		return domain.Actor{}, err
	}

	now := time.Now().UTC()
	if rec.UserID != claims.Subject || rec.Expired(now) {
		return domain.Actor{}, ErrUnauthenticated
	}

	roles, err := s.Store.Roles().ListUserRoles(ctx, rec.UserID)
	if err != nil {
		return domain.Actor{}, err
	}
	if err := s.Store.AccessTokens().TouchAccessToken(ctx, rec.ID, now); err != nil {
		l.Warn("failed to record token use", slog.String("token_id", rec.ID), slog.Any("error", err))
	}

	return domain.NewActor(rec.UserID, rec.ID, roleNames(roles)), nil
}

// Revoke deletes the token record. Revoking an unknown token is not an error.
func (s *TokenService) Revoke(ctx context.Context, tokenID string) error {
	err := s.Store.AccessTokens().DeleteAccessToken(ctx, tokenID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
