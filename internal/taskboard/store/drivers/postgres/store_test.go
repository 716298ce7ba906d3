package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// One container serves the whole package. Tests isolate themselves through
// fresh ids rather than separate databases.
var (
	testDSN      string
	containerErr error
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("taskboard"),
		tcpostgres.WithUsername("taskboard"),
		tcpostgres.WithPassword("taskboard"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		containerErr = err
		os.Exit(m.Run())
	}

	testDSN, containerErr = container.ConnectionString(ctx, "sslmode=disable")
	code := m.Run()

	if err := testcontainers.TerminateContainer(container); err != nil {
		fmt.Fprintf(os.Stderr, "terminate postgres container: %v\n", err)
	}
	os.Exit(code)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres tests need docker")
	}
	if containerErr != nil {
		t.Skipf("postgres container unavailable: %v", containerErr)
	}

	s, err := NewStore(testDSN)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	id := idx.New().String()
	u := domain.User{
		ID:           id,
		Name:         "User " + id,
		Email:        id + "@Example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedProject(t *testing.T, s *Store, ownerID string) domain.Project {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.Project{ID: idx.New().String(), Title: "Project", OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Projects().CreateProject(context.Background(), p))
	return p
}

func seedTask(t *testing.T, s *Store, projectID, ownerID string, status domain.TaskStatus) domain.Task {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	due := time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)
	desc := "details"
	task := domain.Task{
		ID:          idx.New().String(),
		Title:       "Task",
		Description: &desc,
		Status:      status,
		Priority:    domain.PriorityHigh,
		DueDate:     &due,
		ProjectID:   projectID,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.Tasks().CreateTask(context.Background(), task))
	return task
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s)

	got, err := s.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	err = s.Users().CreateUser(ctx, domain.User{
		ID: idx.New().String(), Name: "dupe", Email: u.Email, PasswordHash: "x",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	updated, err := s.Users().UpdateUser(ctx, u.ID, domain.UserPatch{Name: domain.Some("Renamed")}, time.Now())
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "hash", updated.PasswordHash)

	_, err = s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRolesAndTokens(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s)

	now := time.Now().UTC()
	role := domain.Role{ID: idx.New().String(), Name: "role-" + idx.New().String(), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Roles().CreateRole(ctx, role))
	require.NoError(t, s.Roles().AssignRole(ctx, u.ID, role.ID))
	require.NoError(t, s.Roles().AssignRole(ctx, u.ID, role.ID))

	held, err := s.Roles().ListUserRoles(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)
	require.Equal(t, role.Name, held[0].Name)

	live := domain.AccessToken{ID: idx.New().String(), UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	dead := domain.AccessToken{ID: idx.New().String(), UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, s.AccessTokens().CreateAccessToken(ctx, live))
	require.NoError(t, s.AccessTokens().CreateAccessToken(ctx, dead))

	n, err := s.AccessTokens().DeleteExpiredAccessTokens(ctx, now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(1))

	require.NoError(t, s.AccessTokens().TouchAccessToken(ctx, live.ID, now))
	got, err := s.AccessTokens().GetAccessToken(ctx, live.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)

	require.NoError(t, s.AccessTokens().DeleteAccessToken(ctx, live.ID))
	require.ErrorIs(t, s.AccessTokens().DeleteAccessToken(ctx, live.ID), store.ErrNotFound)
}

func TestTasks_PartialUpdateAndCascade(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProject(t, s, u.ID)
	task := seedTask(t, s, p.ID, u.ID, domain.TaskInProgress)

	got, err := s.Tasks().UpdateTask(ctx, task.ID, domain.TaskPatch{Title: domain.Some("A")}, time.Now())
	require.NoError(t, err)
	require.Equal(t, "A", got.Title)
	require.Equal(t, domain.TaskInProgress, got.Status)
	require.Equal(t, *task.DueDate, *got.DueDate)

	got, err = s.Tasks().UpdateTask(ctx, task.ID, domain.TaskPatch{DueDate: domain.Null[time.Time]()}, time.Now())
	require.NoError(t, err)
	require.Nil(t, got.DueDate)

	_, err = s.Tasks().UpdateTask(ctx, task.ID, domain.TaskPatch{ProjectID: domain.Some(idx.New().String())}, time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)

	listed, err := s.Tasks().ListTasks(ctx, domain.TaskFilter{ProjectID: p.ID, Status: domain.TaskInProgress})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, s.Projects().DeleteProject(ctx, p.ID))
	_, err = s.Tasks().GetTask(ctx, task.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s)

	id := idx.New().String()
	err := s.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now()
		if err := tx.Projects().CreateProject(ctx, domain.Project{ID: id, Title: "tx", OwnerID: u.ID, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	_, err = s.Projects().GetProject(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}
