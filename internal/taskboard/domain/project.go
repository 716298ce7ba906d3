package domain

import "time"

type Project struct {
	ID          string
	Title       string
	Description *string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectPatch struct {
	Title       Field[string]
	Description Field[string]
}

// Empty reports whether the patch changes nothing.
func (p ProjectPatch) Empty() bool { return !p.Title.Set && !p.Description.Set }

// ProjectFilter narrows ListProjects. Zero values match everything.
type ProjectFilter struct {
	OwnerID string
}
