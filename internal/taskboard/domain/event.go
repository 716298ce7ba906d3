package domain

import "time"

const EventTaskStatusChanged = "task.status.changed"

// TaskChannel names the per task channel status events are published on.
func TaskChannel(taskID string) string { return "task." + taskID }

// TaskStatusChanged is published when an update moves a task to a different
// status.
type TaskStatusChanged struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	OldStatus TaskStatus `json:"old_status"`
	NewStatus TaskStatus `json:"new_status"`
	ProjectID string     `json:"project_id"`
	UpdatedAt time.Time  `json:"updated_at"`
}
