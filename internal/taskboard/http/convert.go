package http

import (
	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

func toRole(r domain.Role) tasksdk.Role {
	return tasksdk.Role{ID: r.ID, Name: r.Name, Description: r.Description}
}

func toRoles(roles []domain.Role) []tasksdk.Role {
	out := make([]tasksdk.Role, len(roles))
	for i, r := range roles {
		out[i] = toRole(r)
	}
	return out
}

func toUser(a service.Account) tasksdk.User {
	return tasksdk.User{
		ID:        a.User.ID,
		Name:      a.User.Name,
		Email:     a.User.Email,
		Roles:     toRoles(a.Roles),
		CreatedAt: a.User.CreatedAt,
		UpdatedAt: a.User.UpdatedAt,
	}
}

func toAuthData(s service.Session) tasksdk.AuthData {
	return tasksdk.AuthData{
		User:      toUser(s.Account),
		Token:     s.Token.Token,
		TokenType: s.Token.TokenType,
		ExpiresAt: s.Token.ExpiresAt,
	}
}

func toProject(p domain.Project) tasksdk.Project {
	return tasksdk.Project{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		UserID:      p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjects(ps []domain.Project) []tasksdk.Project {
	out := make([]tasksdk.Project, len(ps))
	for i, p := range ps {
		out[i] = toProject(p)
	}
	return out
}

func toTask(t domain.Task) tasksdk.Task {
	out := tasksdk.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		ProjectID:   t.ProjectID,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(domain.DateLayout)
		out.DueDate = &due
	}
	return out
}

func toTasks(ts []domain.Task) []tasksdk.Task {
	out := make([]tasksdk.Task, len(ts))
	for i, t := range ts {
		out[i] = toTask(t)
	}
	return out
}

// field carries presence and null through from the wire to the service.
func field[T any](o tasksdk.Optional[T]) domain.Field[T] {
	switch {
	case !o.Set:
		return domain.Field[T]{}
	case o.Null:
		return domain.Null[T]()
	default:
		return domain.Some(o.Value)
	}
}

func success[T any](message string, data T) tasksdk.Response[T] {
	return tasksdk.Response[T]{Status: tasksdk.StatusSuccess, Message: message, Data: data}
}

func successMessage(message string) tasksdk.MessageResponse {
	return tasksdk.MessageResponse{Status: tasksdk.StatusSuccess, Message: message}
}
