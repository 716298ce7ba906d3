package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
)

type accessTokensRepo struct {
	db dbtx
}

var _ store.AccessTokens = (*accessTokensRepo)(nil)

func (r *accessTokensRepo) CreateAccessToken(ctx context.Context, t domain.AccessToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_tokens (id, user_id, name, created_at, last_used_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Name, encodeTime(t.CreatedAt), encodeOptionalTime(t.LastUsedAt), encodeTime(t.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *accessTokensRepo) GetAccessToken(ctx context.Context, id string) (domain.AccessToken, error) {
	var (
		t                    domain.AccessToken
		createdAt, expiresAt string
		lastUsedAt           sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, last_used_at, expires_at FROM access_tokens WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.Name, &createdAt, &lastUsedAt, &expiresAt)
	if err != nil {
		return domain.AccessToken{}, mapNotFound(err)
	}

	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return domain.AccessToken{}, err
	}
	if t.ExpiresAt, err = decodeTime(expiresAt); err != nil {
		return domain.AccessToken{}, err
	}
	if t.LastUsedAt, err = decodeNullTime(lastUsedAt); err != nil {
		return domain.AccessToken{}, err
	}
	return t, nil
}

func (r *accessTokensRepo) TouchAccessToken(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE access_tokens SET last_used_at = ? WHERE id = ?`, encodeTime(at), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *accessTokensRepo) DeleteAccessToken(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE expires_at <= ?`, encodeTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
