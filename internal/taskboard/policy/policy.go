// Package policy decides whether an actor may perform an operation on a
// project or task. Every function here is pure; callers load the resource
// and pass it in, and nothing is cached between calls.
package policy

import "github.com/aussiebroadwan/taskboard/internal/taskboard/domain"

type Operation uint8

const (
	OpView Operation = iota + 1
	OpCreate
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpView:
		return "view"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

type ResourceKind uint8

const (
	KindProject ResourceKind = iota + 1
	KindTask
)

// Resource is the ownership view of a project or task.
type Resource struct {
	Kind    ResourceKind
	ID      string
	OwnerID string
}

func ProjectResource(p domain.Project) Resource {
	return Resource{Kind: KindProject, ID: p.ID, OwnerID: p.OwnerID}
}

// TaskResource keys task access to the task's creator. The owner of the
// parent project gets no access through this resource.
func TaskResource(t domain.Task) Resource {
	return Resource{Kind: KindTask, ID: t.ID, OwnerID: t.OwnerID}
}

// CanAccess reports whether actor may perform op on res. Admins may do
// anything; everyone else only touches what they own.
func CanAccess(actor domain.Actor, res Resource, op Operation) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.UserID == "" || op < OpView || op > OpDelete {
		return false
	}

	switch res.Kind {
	case KindProject, KindTask:
		return res.OwnerID == actor.UserID
	}
	return false
}

// CanCreateTaskIn checks the target project, since the task does not exist
// yet.
func CanCreateTaskIn(actor domain.Actor, project domain.Project) bool {
	return CanAccess(actor, ProjectResource(project), OpCreate)
}

// CanMoveTaskTo checks create permission on the destination project of a
// task whose project_id is being changed.
func CanMoveTaskTo(actor domain.Actor, destination domain.Project) bool {
	return CanCreateTaskIn(actor, destination)
}

// CanListProjectTasks gates listing tasks filtered to one project.
func CanListProjectTasks(actor domain.Actor, project domain.Project) bool {
	return CanAccess(actor, ProjectResource(project), OpView)
}
