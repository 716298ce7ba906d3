package http_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "github.com/aussiebroadwan/taskboard/internal/taskboard/http"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/notify"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *httpapi.Router
	store  *sqlite.Store
	hub    *notify.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("", priv)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	logger := slogx.Discard()
	hasher := cryptox.NewHasher("pepper")
	hub := notify.NewHub(notify.HubConfig{Logger: logger})
	t.Cleanup(hub.Close)

	tokens := &service.TokenService{
		Store:    st,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, "taskboard-test", time.Minute),
		Issuer:   "taskboard-test",
		TTL:      time.Hour,
	}
	seed := &service.SeedService{Store: st, Hasher: hasher, Admin: service.AdminAccount{
		Name: "Admin", Email: "admin@example.com", Password: "admin-password",
	}}
	require.NoError(t, seed.Seed(context.Background()))

	limits := httpx.DefaultRateLimits()
	limits.Strict.Burst = 1000

	r := httpapi.NewRouter(httpapi.RouterConfig{
		BuildVersion: "test",
		CORS:         httpx.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimits:   limits,
	}, st, hub, logger)
	r.TokenService = tokens
	r.UserService = &service.UserService{Store: st, Hasher: hasher, Tokens: tokens}
	r.RoleService = &service.RoleService{Store: st}
	r.ProjectService = &service.ProjectService{Store: st}
	r.TaskService = &service.TaskService{Store: st, Notifier: notify.NewNotifier(hub)}
	r.ApplyRoutes()

	return &testServer{router: r, store: st, hub: hub}
}

// do sends a JSON request and returns the recorder.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) register(t *testing.T, name, email string) tasksdk.AuthData {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/register", "", tasksdk.RegisterRequest{
		Name: name, Email: email, Password: "password123", PasswordConfirmation: "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[tasksdk.Response[tasksdk.AuthData]](t, rec).Data
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/login", "", tasksdk.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[tasksdk.Response[tasksdk.AuthData]](t, rec).Data.Token
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	auth := s.register(t, "Alice", "alice@example.com")
	require.Equal(t, "Bearer", auth.TokenType)
	require.NotEmpty(t, auth.Token)
	require.Equal(t, "alice@example.com", auth.User.Email)
	require.Len(t, auth.User.Roles, 1)
	require.Equal(t, "user", auth.User.Roles[0].Name)

	token := s.login(t, "alice@example.com", "password123")

	rec := s.do(t, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Alice", decode[tasksdk.Response[tasksdk.User]](t, rec).Data.Name)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = s.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logged out successfully", decode[tasksdk.MessageResponse](t, rec).Message)

	rec = s.do(t, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The register token is independent of the revoked login token.
	rec = s.do(t, http.MethodGet, "/user", auth.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Alice", "alice@example.com")

	t.Run("bad credentials", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/login", "", tasksdk.LoginRequest{Email: "alice@example.com", Password: "nope-nope"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode[tasksdk.ErrorResponse](t, rec)
		require.Equal(t, "error", body.Status)
		require.Equal(t, "Invalid login credentials", body.Message)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/register", "", tasksdk.RegisterRequest{
			Name: "Again", Email: "ALICE@example.com", Password: "password123", PasswordConfirmation: "password123",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[tasksdk.ErrorResponse](t, rec)
		require.Equal(t, httpx.ErrCodeValidation, body.Error)
		require.Contains(t, body.Errors, "email")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/register", "", `{"name":`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("no token", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/projects", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.ErrCodeUnauthenticated, decode[tasksdk.ErrorResponse](t, rec).Error)
	})
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Alice", "alice@example.com").Token

	rec := s.do(t, http.MethodPut, "/user/profile", token, map[string]string{
		"password": "new-password", "password_confirmation": "new-password", "current_password": "wrong-password",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Current password is incorrect", decode[tasksdk.ErrorResponse](t, rec).Message)

	rec = s.do(t, http.MethodPut, "/user/profile", token, map[string]string{"name": "Alicia"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[tasksdk.Response[tasksdk.User]](t, rec)
	require.Equal(t, "Profile updated successfully", body.Message)
	require.Equal(t, "Alicia", body.Data.Name)
}

func TestRolesArePublic(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/roles", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	for _, r := range decode[tasksdk.Response[[]tasksdk.Role]](t, rec).Data {
		names = append(names, r.Name)
	}
	require.ElementsMatch(t, []string{"admin", "manager", "user"}, names)
}

func TestProjectsAndTasks(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com").Token
	bob := s.register(t, "Bob", "bob@example.com").Token
	admin := s.login(t, "admin@example.com", "admin-password")

	rec := s.do(t, http.MethodPost, "/projects", alice, tasksdk.CreateProjectRequest{Title: "Launch"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decode[tasksdk.Response[tasksdk.Project]](t, rec).Data
	require.Nil(t, project.Description)

	rec = s.do(t, http.MethodPost, "/tasks", alice, tasksdk.CreateTaskRequest{
		Title: "Write copy", ProjectID: project.ID, DueDate: ptr("2030-01-31"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[tasksdk.Response[tasksdk.Task]](t, rec).Data
	require.Equal(t, "pending", task.Status)
	require.Equal(t, "medium", task.Priority)
	require.Equal(t, "2030-01-31", *task.DueDate)

	t.Run("project detail includes tasks", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/projects/"+project.ID, alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[tasksdk.Response[tasksdk.Project]](t, rec).Data
		require.Len(t, got.Tasks, 1)
		require.Equal(t, task.ID, got.Tasks[0].ID)
	})

	t.Run("foreign access is forbidden", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/tasks/"+task.ID, bob, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Unauthorized to view this task", decode[tasksdk.ErrorResponse](t, rec).Message)

		rec = s.do(t, http.MethodPost, "/tasks", bob, tasksdk.CreateTaskRequest{Title: "Sneak", ProjectID: project.ID})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Unauthorized to add tasks to this project", decode[tasksdk.ErrorResponse](t, rec).Message)
	})

	t.Run("admin sees every project", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/projects", bob, tasksdk.CreateProjectRequest{Title: "Bob's"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = s.do(t, http.MethodGet, "/projects", admin, nil)
		require.Len(t, decode[tasksdk.Response[[]tasksdk.Project]](t, rec).Data, 2)

		rec = s.do(t, http.MethodGet, "/projects", alice, nil)
		require.Len(t, decode[tasksdk.Response[[]tasksdk.Project]](t, rec).Data, 1)
	})

	t.Run("partial update clears only what is sent", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/tasks/"+task.ID, alice, map[string]any{"priority": "high"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[tasksdk.Response[tasksdk.Task]](t, rec).Data
		require.Equal(t, "high", got.Priority)
		require.Equal(t, "2030-01-31", *got.DueDate)

		rec = s.do(t, http.MethodPut, "/tasks/"+task.ID, alice, map[string]any{"due_date": nil})
		require.Equal(t, http.StatusOK, rec.Code)
		got = decode[tasksdk.Response[tasksdk.Task]](t, rec).Data
		require.Nil(t, got.DueDate)
		require.Equal(t, "high", got.Priority)
	})

	t.Run("invalid filter", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/tasks?status=done", alice, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, decode[tasksdk.ErrorResponse](t, rec).Errors, "status")
	})

	t.Run("delete twice", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/tasks/"+task.ID, alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Task deleted successfully", decode[tasksdk.MessageResponse](t, rec).Message)

		rec = s.do(t, http.MethodDelete, "/tasks/"+task.ID, alice, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, httpx.ErrCodeNotFound, decode[tasksdk.ErrorResponse](t, rec).Error)
	})

	t.Run("delete project", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/projects/"+project.ID, bob, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(t, http.MethodDelete, "/projects/"+project.ID, alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodGet, "/projects/"+project.ID, alice, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskEventStream(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)

	client := tasksdk.NewClient(srv.URL)
	ctx := context.Background()

	alice, err := client.Register(ctx, tasksdk.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "password123", PasswordConfirmation: "password123",
	})
	require.NoError(t, err)
	bob, err := client.Register(ctx, tasksdk.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "password123", PasswordConfirmation: "password123",
	})
	require.NoError(t, err)

	project, err := alice.CreateProject(ctx, tasksdk.CreateProjectRequest{Title: "Launch"})
	require.NoError(t, err)
	task, err := alice.CreateTask(ctx, tasksdk.CreateTaskRequest{Title: "Ship", ProjectID: project.ID})
	require.NoError(t, err)

	_, err = bob.SubscribeTask(ctx, task.ID)
	require.True(t, tasksdk.IsForbidden(err), "got %v", err)

	events, err := alice.SubscribeTask(ctx, task.ID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = events.Close() })

	channel := "task." + task.ID
	require.Eventually(t, func() bool { return s.hub.Subscribers(channel) == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = alice.UpdateTask(ctx, task.ID, tasksdk.UpdateTaskRequest{Title: tasksdk.Some("Ship it")})
	require.NoError(t, err)
	_, err = alice.UpdateTask(ctx, task.ID, tasksdk.UpdateTaskRequest{Status: tasksdk.Some("in_progress")})
	require.NoError(t, err)

	ev, err := events.Next(time.Now().Add(2 * time.Second))
	require.NoError(t, err)
	require.Equal(t, "task.status.changed", ev.Event)
	require.Equal(t, channel, ev.Channel)
	require.Equal(t, "pending", ev.Data.OldStatus)
	require.Equal(t, "in_progress", ev.Data.NewStatus)
	require.Equal(t, "Ship it", ev.Data.Title)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[tasksdk.HealthResponse](t, rec)
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "ok", body.Services.Database)

	rec = s.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", decode[tasksdk.LivezResponse](t, rec).Version)

	require.NoError(t, s.store.Close())
	rec = s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[tasksdk.HealthResponse](t, rec)
	require.Equal(t, "warning", body.Status)
	require.Equal(t, "error", body.Services.Database)
}

func TestSwaggerIsServed(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "/tasks/{id}"))
}

func ptr[T any](v T) *T { return &v }
