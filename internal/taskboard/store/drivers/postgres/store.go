// Package postgres implements the taskboard store on PostgreSQL through GORM.
// Schema is managed by AutoMigrate rather than SQL migration files.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgreSQL error codes for the constraint failures the store translates.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var errNestedTx = errors.New("postgres: nested transactions are not supported")

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// NewStore connects to dsn. GORM's own query logging is silenced; request
// logging happens in the HTTP layer.
func NewStore(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) ApplyMigrations() error {
	return s.db.AutoMigrate(
		&userModel{},
		&roleModel{},
		&userRoleModel{},
		&accessTokenModel{},
		&projectModel{},
		&taskModel{},
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &txStore{db: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users               { return &usersRepo{db: s.db} }
func (s *Store) Roles() store.Roles               { return &rolesRepo{db: s.db} }
func (s *Store) AccessTokens() store.AccessTokens { return &accessTokensRepo{db: s.db} }
func (s *Store) Projects() store.Projects         { return &projectsRepo{db: s.db} }
func (s *Store) Tasks() store.Tasks               { return &tasksRepo{db: s.db} }

type txStore struct {
	db *gorm.DB
}

func (t *txStore) Commit() error   { return t.db.Commit().Error }
func (t *txStore) Rollback() error { return t.db.Rollback().Error }

// Close is a no-op; the outer Store owns the pool.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, errNestedTx }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errNestedTx
}

func (t *txStore) Users() store.Users               { return &usersRepo{db: t.db} }
func (t *txStore) Roles() store.Roles               { return &rolesRepo{db: t.db} }
func (t *txStore) AccessTokens() store.AccessTokens { return &accessTokensRepo{db: t.db} }
func (t *txStore) Projects() store.Projects         { return &projectsRepo{db: t.db} }
func (t *txStore) Tasks() store.Tasks               { return &tasksRepo{db: t.db} }

// mapError translates GORM and PostgreSQL failures into store errors. A
// foreign key failure means a referenced row does not exist.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrAlreadyExists, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", store.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

// requireAffected turns a zero row write into ErrNotFound.
func requireAffected(res *gorm.DB) error {
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// setField copies a patch slot into an Updates map. A set Field with a nil
// value writes NULL.
func setField[T any](m map[string]any, col string, f domain.Field[T]) {
	if !f.Set {
		return
	}
	if f.Value == nil {
		m[col] = nil
		return
	}
	m[col] = *f.Value
}
