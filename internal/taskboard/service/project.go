package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/policy"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

type ProjectInput struct {
	Title       string
	Description *string
}

// ProjectPatchInput is a partial project update as received.
type ProjectPatchInput struct {
	Title       domain.Field[string]
	Description domain.Field[string]
}

// ProjectDetail is a project with every task filed under it.
type ProjectDetail struct {
	domain.Project
	Tasks []domain.Task
}

type ProjectService struct {
	Store store.Store
}

// List returns every project for admins and the actor's own otherwise.
func (s *ProjectService) List(ctx context.Context, actor domain.Actor) ([]domain.Project, error) {
	filter := domain.ProjectFilter{}
	if !actor.IsAdmin() {
		filter.OwnerID = actor.UserID
	}
	return s.Store.Projects().ListProjects(ctx, filter)
}

// Create files a new project owned by the actor.
func (s *ProjectService) Create(ctx context.Context, actor domain.Actor, in ProjectInput) (domain.Project, error) {
	in.Title = strings.TrimSpace(in.Title)

	v := &ValidationError{}
	requireString(v, "title", in.Title)
	if err := v.Err(); err != nil {
		return domain.Project{}, err
	}

	now := time.Now().UTC()
	p := domain.Project{
		ID:          idx.New().String(),
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Projects().CreateProject(ctx, p); err != nil {
		return domain.Project{}, err
	}

	slogx.FromContext(ctx).Info("project created", slog.String("project_id", p.ID))
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, actor domain.Actor, id string) (ProjectDetail, error) {
	p, err := s.resolve(ctx, id)
	if err != nil {
		return ProjectDetail{}, err
	}
	if !policy.CanAccess(actor, policy.ProjectResource(p), policy.OpView) {
		return ProjectDetail{}, forbidden("view this project")
	}

	tasks, err := s.Store.Tasks().ListTasks(ctx, domain.TaskFilter{ProjectID: p.ID})
	if err != nil {
		return ProjectDetail{}, err
	}
	return ProjectDetail{Project: p, Tasks: tasks}, nil
}

// Update applies the supplied fields only.
func (s *ProjectService) Update(ctx context.Context, actor domain.Actor, id string, in ProjectPatchInput) (domain.Project, error) {
	var patch domain.ProjectPatch

	v := &ValidationError{}
	if in.Title.Set {
		title, _ := in.Title.Get()
		title = strings.TrimSpace(title)
		requireString(v, "title", title)
		patch.Title = domain.Some(title)
	}
	patch.Description = in.Description
	if err := v.Err(); err != nil {
		return domain.Project{}, err
	}

	p, err := s.resolve(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	if !policy.CanAccess(actor, policy.ProjectResource(p), policy.OpUpdate) {
		return domain.Project{}, forbidden("update this project")
	}

	if patch.Empty() {
		return p, nil
	}

	updated, err := s.Store.Projects().UpdateProject(ctx, p.ID, patch, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, notFound("project")
		}
		return domain.Project{}, err
	}
	return updated, nil
}

// Delete removes the project together with its tasks.
func (s *ProjectService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	p, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanAccess(actor, policy.ProjectResource(p), policy.OpDelete) {
		return forbidden("delete this project")
	}

	if err := s.Store.Projects().DeleteProject(ctx, p.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("project")
		}
		return err
	}

	slogx.FromContext(ctx).Info("project deleted", slog.String("project_id", p.ID))
	return nil
}

func (s *ProjectService) resolve(ctx context.Context, id string) (domain.Project, error) {
	return resolveProject(ctx, s.Store, id)
}

func resolveProject(ctx context.Context, st store.Store, id string) (domain.Project, error) {
	p, err := st.Projects().GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, notFound("project")
		}
		return domain.Project{}, err
	}
	return p, nil
}
