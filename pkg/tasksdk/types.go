package tasksdk

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the success envelope every endpoint answers with.
type Response[T any] struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// MessageResponse is a success envelope without data.
type MessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope. Error is a stable machine readable
// code and Errors holds per field validation messages.
type ErrorResponse struct {
	Status  string              `json:"status" example:"error"`
	Message string              `json:"message"`
	Error   string              `json:"error,omitempty" example:"validation_failed"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// ============================================================================
// Identity
// ============================================================================

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name" example:"user"`
	Description string `json:"description,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthData is returned by register and login.
type AuthData struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest changes the caller's name and/or password. A new
// password needs CurrentPassword.
type UpdateProfileRequest struct {
	Name                 *string `json:"name,omitempty"`
	Password             *string `json:"password,omitempty"`
	PasswordConfirmation *string `json:"password_confirmation,omitempty"`
	CurrentPassword      *string `json:"current_password,omitempty"`
}

// ============================================================================
// Projects and tasks
// ============================================================================

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tasks       []Task    `json:"tasks,omitempty"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status" enums:"pending,in_progress,completed"`
	Priority    string    `json:"priority" enums:"low,medium,high"`
	DueDate     *string   `json:"due_date" example:"2030-01-31"`
	ProjectID   string    `json:"project_id"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateProjectRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateProjectRequest only touches fields present in the JSON body.
type UpdateProjectRequest struct {
	Title       Optional[string] `json:"title,omitzero" swaggertype:"string"`
	Description Optional[string] `json:"description,omitzero" swaggertype:"string"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" enums:"pending,in_progress,completed"`
	Priority    *string `json:"priority,omitempty" enums:"low,medium,high"`
	DueDate     *string `json:"due_date,omitempty" example:"2030-01-31"`
	ProjectID   string  `json:"project_id"`
}

// UpdateTaskRequest only touches fields present in the JSON body. Description
// and due date may be set to null.
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title,omitzero" swaggertype:"string"`
	Description Optional[string] `json:"description,omitzero" swaggertype:"string"`
	Status      Optional[string] `json:"status,omitzero" swaggertype:"string" enums:"pending,in_progress,completed"`
	Priority    Optional[string] `json:"priority,omitzero" swaggertype:"string" enums:"low,medium,high"`
	DueDate     Optional[string] `json:"due_date,omitzero" swaggertype:"string"`
	ProjectID   Optional[string] `json:"project_id,omitzero" swaggertype:"string"`
}

// TaskFilter narrows ListTasks. Empty fields are not sent.
type TaskFilter struct {
	ProjectID string
	Status    string
	Priority  string
}

// TaskEvent is one frame of the task event stream.
type TaskEvent struct {
	Event   string            `json:"event" example:"task.status.changed"`
	Channel string            `json:"channel"`
	Data    TaskStatusChanged `json:"data"`
}

type TaskStatusChanged struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ProjectID string    `json:"project_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ============================================================================
// Health
// ============================================================================

type HealthServices struct {
	Database string `json:"database" example:"ok"`
	API      string `json:"api" example:"ok"`
}

// HealthResponse reports "ok", or "warning" when storage is unreachable.
type HealthResponse struct {
	Status    string         `json:"status" example:"ok"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Services  HealthServices `json:"services"`
}

type LivezResponse struct {
	Status  string `json:"status" example:"ok"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
