package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it as methods so a transaction can
// hand out the same repositories bound to itself.
type Store interface {
	Users() Users
	Roles() Roles
	AccessTokens() AccessTokens
	Projects() Projects
	Tasks() Tasks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Nested transactions are not supported.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts u. A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateUser applies the set fields of patch, bumps updated_at and
	// returns the stored user.
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch, now time.Time) (domain.User, error)
}

type Roles interface {
	// CreateRole inserts r. A duplicate name yields ErrAlreadyExists.
	CreateRole(ctx context.Context, r domain.Role) error

	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListRoles returns every role ordered by name.
	ListRoles(ctx context.Context) ([]domain.Role, error)

	// AssignRole links a user to a role. Assigning twice is not an error.
	AssignRole(ctx context.Context, userID, roleID string) error

	// ListUserRoles returns the roles held by userID ordered by name.
	ListUserRoles(ctx context.Context, userID string) ([]domain.Role, error)
}

type AccessTokens interface {
	CreateAccessToken(ctx context.Context, t domain.AccessToken) error

	GetAccessToken(ctx context.Context, id string) (domain.AccessToken, error)

	// TouchAccessToken records that the token was used at.
	TouchAccessToken(ctx context.Context, id string, at time.Time) error

	// DeleteAccessToken revokes one token. Missing ids yield ErrNotFound.
	DeleteAccessToken(ctx context.Context, id string) error

	// DeleteExpiredAccessTokens purges tokens that expired before now and
	// reports how many were removed.
	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error)
}

type Projects interface {
	CreateProject(ctx context.Context, p domain.Project) error

	GetProject(ctx context.Context, id string) (domain.Project, error)

	// UpdateProject applies only the set fields of patch and returns the
	// stored project.
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch, now time.Time) (domain.Project, error)

	// DeleteProject removes the project and, through the schema, its tasks.
	DeleteProject(ctx context.Context, id string) error

	// ListProjects returns matching projects in creation order.
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
}

type Tasks interface {
	// CreateTask inserts t. An unknown project yields ErrNotFound.
	CreateTask(ctx context.Context, t domain.Task) error

	GetTask(ctx context.Context, id string) (domain.Task, error)

	// UpdateTask applies only the set fields of patch in a single statement
	// and returns the stored task.
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch, now time.Time) (domain.Task, error)

	DeleteTask(ctx context.Context, id string) error

	// ListTasks returns tasks matching every set filter field, in creation
	// order.
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
}
