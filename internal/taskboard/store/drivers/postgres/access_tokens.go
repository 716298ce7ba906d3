package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"gorm.io/gorm"
)

type accessTokensRepo struct {
	db *gorm.DB
}

var _ store.AccessTokens = (*accessTokensRepo)(nil)

func (r *accessTokensRepo) CreateAccessToken(ctx context.Context, t domain.AccessToken) error {
	m := accessTokenModel{
		ID:         t.ID,
		UserID:     t.UserID,
		Name:       t.Name,
		CreatedAt:  t.CreatedAt.UTC(),
		LastUsedAt: t.LastUsedAt,
		ExpiresAt:  t.ExpiresAt.UTC(),
	}
	return mapError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *accessTokensRepo) GetAccessToken(ctx context.Context, id string) (domain.AccessToken, error) {
	var m accessTokenModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domain.AccessToken{}, mapError(err)
	}
	return m.toDomain(), nil
}

func (r *accessTokensRepo) TouchAccessToken(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&accessTokenModel{}).
		Where("id = ?", id).
		Update("last_used_at", at.UTC())
	return requireAffected(res)
}

func (r *accessTokensRepo) DeleteAccessToken(ctx context.Context, id string) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&accessTokenModel{}, "id = ?", id))
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&accessTokenModel{})
	if res.Error != nil {
		return 0, mapError(res.Error)
	}
	return res.RowsAffected, nil
}
