package postgres

import (
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
)

// Row models. Timestamps are written by the services, so GORM's automatic
// time tracking is switched off on every model.

type userModel struct {
	ID           string    `gorm:"type:varchar(26);primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type roleModel struct {
	ID          string    `gorm:"type:varchar(26);primaryKey"`
	Name        string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Description string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (roleModel) TableName() string { return "roles" }

func (m roleModel) toDomain() domain.Role {
	return domain.Role{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type userRoleModel struct {
	UserID    string     `gorm:"type:varchar(26);primaryKey"`
	RoleID    string     `gorm:"type:varchar(26);primaryKey"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime:false"`
	User      *userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role      *roleModel `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

func (userRoleModel) TableName() string { return "user_roles" }

type accessTokenModel struct {
	ID         string     `gorm:"type:varchar(26);primaryKey"`
	UserID     string     `gorm:"type:varchar(26);not null;index"`
	Name       string     `gorm:"not null;default:''"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime:false"`
	LastUsedAt *time.Time
	ExpiresAt  time.Time  `gorm:"not null;index"`
	User       *userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (accessTokenModel) TableName() string { return "access_tokens" }

func (m accessTokenModel) toDomain() domain.AccessToken {
	t := domain.AccessToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt.UTC(),
		ExpiresAt: m.ExpiresAt.UTC(),
	}
	if m.LastUsedAt != nil {
		at := m.LastUsedAt.UTC()
		t.LastUsedAt = &at
	}
	return t
}

type projectModel struct {
	ID          string     `gorm:"type:varchar(26);primaryKey"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Description *string    `gorm:"type:text"`
	UserID      string     `gorm:"type:varchar(26);not null;index"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime:false"`
	User        *userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (projectModel) TableName() string { return "projects" }

func projectFromDomain(p domain.Project) projectModel {
	return projectModel{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		UserID:      p.OwnerID,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func (m projectModel) toDomain() domain.Project {
	return domain.Project{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		OwnerID:     m.UserID,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type taskModel struct {
	ID          string        `gorm:"type:varchar(26);primaryKey"`
	Title       string        `gorm:"type:varchar(255);not null"`
	Description *string       `gorm:"type:text"`
	Status      string        `gorm:"type:varchar(16);not null;default:pending;index;check:tasks_status_check,status IN ('pending','in_progress','completed')"`
	Priority    string        `gorm:"type:varchar(16);not null;default:medium;index;check:tasks_priority_check,priority IN ('low','medium','high')"`
	DueDate     *time.Time    `gorm:"type:date"`
	ProjectID   string        `gorm:"type:varchar(26);not null;index"`
	UserID      string        `gorm:"type:varchar(26);not null;index"`
	CreatedAt   time.Time     `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time     `gorm:"not null;autoUpdateTime:false"`
	Project     *projectModel `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	User        *userModel    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (taskModel) TableName() string { return "tasks" }

func taskFromDomain(t domain.Task) taskModel {
	m := taskModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		ProjectID:   t.ProjectID,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		m.DueDate = &d
	}
	return m
}

func (m taskModel) toDomain() domain.Task {
	t := domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TaskStatus(m.Status),
		Priority:    domain.TaskPriority(m.Priority),
		ProjectID:   m.ProjectID,
		OwnerID:     m.UserID,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if m.DueDate != nil {
		y, mo, d := m.DueDate.Date()
		due := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
		t.DueDate = &due
	}
	return t
}
