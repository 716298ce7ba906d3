package tasksdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Session carries a bearer token. It is safe for concurrent use but does
// not refresh; log in again once ExpiresAt passes.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time

	// User is the account as of register or login.
	User User
}

func newSession(c *Client, data AuthData) *Session {
	return &Session{client: c, token: data.Token, expiresAt: data.ExpiresAt, User: data.User}
}

func (s *Session) Token() string        { return s.token }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

func (s *Session) do(ctx context.Context, method, path string, body, out any, expectedStatus int) error {
	return s.client.do(ctx, s.token, method, path, body, out, expectedStatus)
}

// Logout revokes this session's token.
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/logout", nil, nil, http.StatusOK)
}

func (s *Session) Me(ctx context.Context) (*User, error) {
	var out Response[User]
	if err := s.do(ctx, http.MethodGet, "/user", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var out Response[User]
	if err := s.do(ctx, http.MethodPut, "/user/profile", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ============================================================================
// Projects
// ============================================================================

func (s *Session) ListProjects(ctx context.Context) ([]Project, error) {
	var out Response[[]Project]
	if err := s.do(ctx, http.MethodGet, "/projects", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (s *Session) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var out Response[Project]
	if err := s.do(ctx, http.MethodPost, "/projects", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetProject returns the project with its tasks.
func (s *Session) GetProject(ctx context.Context, id string) (*Project, error) {
	var out Response[Project]
	if err := s.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (s *Session) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*Project, error) {
	var out Response[Project]
	if err := s.do(ctx, http.MethodPut, "/projects/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (s *Session) DeleteProject(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

// ============================================================================
// Tasks
// ============================================================================

func (s *Session) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	q := url.Values{}
	if filter.ProjectID != "" {
		q.Set("project_id", filter.ProjectID)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Priority != "" {
		q.Set("priority", filter.Priority)
	}
	path := "/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out Response[[]Task]
	if err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (s *Session) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var out Response[Task]
	if err := s.do(ctx, http.MethodPost, "/tasks", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (s *Session) GetTask(ctx context.Context, id string) (*Task, error) {
	var out Response[Task]
	if err := s.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (s *Session) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	var out Response[Task]
	if err := s.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (s *Session) DeleteTask(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

// ============================================================================
// Events
// ============================================================================

// TaskEvents is an open subscription to one task's event stream.
type TaskEvents struct {
	conn *websocket.Conn
}

// SubscribeTask opens the event stream of task id.
func (s *Session) SubscribeTask(ctx context.Context, id string) (*TaskEvents, error) {
	u := s.client.BaseURL + "/tasks/" + url.PathEscape(id) + "/events"
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	return &TaskEvents{conn: conn}, nil
}

// Next blocks until the next event arrives or the deadline passes. A zero
// deadline waits forever.
func (e *TaskEvents) Next(deadline time.Time) (*TaskEvent, error) {
	if err := e.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	var ev TaskEvent
	if err := e.conn.ReadJSON(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (e *TaskEvents) Close() error {
	_ = e.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return e.conn.Close()
}
