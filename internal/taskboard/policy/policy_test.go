package policy

import (
	"testing"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/stretchr/testify/require"
)

var allOps = []Operation{OpView, OpCreate, OpUpdate, OpDelete}

func TestCanAccess_AdminAlwaysAllowed(t *testing.T) {
	t.Parallel()

	admin := domain.NewActor("admin-1", "tok", []string{"admin"})
	resources := []Resource{
		{Kind: KindProject, OwnerID: "someone"},
		{Kind: KindTask, OwnerID: "someone-else"},
		{Kind: KindProject, OwnerID: ""},
	}

	for _, res := range resources {
		for _, op := range allOps {
			require.True(t, CanAccess(admin, res, op), "%v on %+v", op, res)
		}
	}
}

func TestCanAccess_OwnerOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		roles   []string
		ownerID string
		want    bool
	}{
		{"owner", []string{"user"}, "u1", true},
		{"other user", []string{"user"}, "u2", false},
		{"manager is not admin", []string{"manager"}, "u2", false},
		{"manager owns", []string{"manager"}, "u1", true},
		{"no roles owns", nil, "u1", true},
		{"no roles other", nil, "u2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := domain.NewActor("u1", "tok", tt.roles)
			for _, kind := range []ResourceKind{KindProject, KindTask} {
				for _, op := range allOps {
					got := CanAccess(actor, Resource{Kind: kind, OwnerID: tt.ownerID}, op)
					require.Equal(t, tt.want, got, "kind=%d op=%v", kind, op)
				}
			}
		})
	}
}

func TestCanAccess_TaskOwnershipIsCreatorNotProjectOwner(t *testing.T) {
	t.Parallel()

	projectOwner := domain.NewActor("owner", "tok", []string{"user"})
	project := domain.Project{ID: "p1", OwnerID: "owner"}
	task := domain.Task{ID: "t1", ProjectID: "p1", OwnerID: "admin-who-created-it"}

	require.True(t, CanAccess(projectOwner, ProjectResource(project), OpView))
	for _, op := range allOps {
		require.False(t, CanAccess(projectOwner, TaskResource(task), op), "project owner must not reach task via %v", op)
	}
}

func TestCanAccess_RejectsMalformedInput(t *testing.T) {
	t.Parallel()

	anon := domain.Actor{}
	require.False(t, CanAccess(anon, Resource{Kind: KindProject, OwnerID: ""}, OpView))

	user := domain.NewActor("u1", "tok", []string{"user"})
	require.False(t, CanAccess(user, Resource{Kind: 0, OwnerID: "u1"}, OpView))
	require.False(t, CanAccess(user, Resource{Kind: KindTask, OwnerID: "u1"}, Operation(0)))
}

func TestCanCreateTaskIn(t *testing.T) {
	t.Parallel()

	user := domain.NewActor("u1", "tok", []string{"user"})
	admin := domain.NewActor("a1", "tok", []string{"admin", "user"})

	own := domain.Project{ID: "p1", OwnerID: "u1"}
	foreign := domain.Project{ID: "p2", OwnerID: "u2"}

	require.True(t, CanCreateTaskIn(user, own))
	require.False(t, CanCreateTaskIn(user, foreign))
	require.True(t, CanCreateTaskIn(admin, foreign))

	require.True(t, CanMoveTaskTo(user, own))
	require.False(t, CanMoveTaskTo(user, foreign))
	require.True(t, CanMoveTaskTo(admin, foreign))

	require.True(t, CanListProjectTasks(user, own))
	require.False(t, CanListProjectTasks(user, foreign))
}

func TestOperationString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "view", OpView.String())
	require.Equal(t, "delete", OpDelete.String())
	require.Equal(t, "unknown", Operation(42).String())
}
