package domain

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports enum membership. Any valid status may follow any other.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of due dates.
const DateLayout = "2006-01-02"

type Task struct {
	ID          string
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time // date only, UTC midnight
	ProjectID   string
	OwnerID     string // the creator, not the project owner
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskPatch struct {
	Title       Field[string]
	Description Field[string]
	Status      Field[TaskStatus]
	Priority    Field[TaskPriority]
	DueDate     Field[time.Time]
	ProjectID   Field[string]
}

func (p TaskPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Status.Set &&
		!p.Priority.Set && !p.DueDate.Set && !p.ProjectID.Set
}

// TaskFilter narrows ListTasks. Set fields combine with AND.
type TaskFilter struct {
	ProjectID string
	OwnerID   string
	Status    TaskStatus
	Priority  TaskPriority
}
