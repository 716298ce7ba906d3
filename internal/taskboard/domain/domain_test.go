package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/stretchr/testify/require"
)

func TestParseRoleSet(t *testing.T) {
	t.Parallel()

	set := domain.ParseRoleSet([]string{"user", " Admin ", "auditor"})
	require.True(t, set.Has(domain.RoleAdmin))
	require.True(t, set.Has(domain.RoleUser))
	require.False(t, set.Has(domain.RoleManager))
	require.Equal(t, []string{"admin", "user"}, set.Names())
	require.Equal(t, "admin,user", set.String())

	require.False(t, domain.RoleSet(0).Has(0), "empty set has nothing")
	require.Empty(t, domain.ParseRoleSet(nil).Names())
}

func TestActorIsAdmin(t *testing.T) {
	t.Parallel()

	require.True(t, domain.NewActor("u", "t", []string{"admin"}).IsAdmin())
	require.False(t, domain.NewActor("u", "t", []string{"manager", "user"}).IsAdmin())
}

func TestField(t *testing.T) {
	t.Parallel()

	var unset domain.Field[string]
	_, ok := unset.Get()
	require.False(t, unset.Set)
	require.False(t, ok)

	null := domain.Null[string]()
	_, ok = null.Get()
	require.True(t, null.Set)
	require.False(t, ok)

	v, ok := domain.Some("x").Get()
	require.True(t, ok)
	require.Equal(t, "x", v)
}

func TestEnums(t *testing.T) {
	t.Parallel()

	for _, s := range []domain.TaskStatus{"pending", "in_progress", "completed"} {
		require.True(t, s.Valid())
	}
	require.False(t, domain.TaskStatus("done").Valid())
	require.False(t, domain.TaskStatus("").Valid())

	for _, p := range []domain.TaskPriority{"low", "medium", "high"} {
		require.True(t, p.Valid())
	}
	require.False(t, domain.TaskPriority("urgent").Valid())
}

func TestPatchEmpty(t *testing.T) {
	t.Parallel()

	require.True(t, domain.TaskPatch{}.Empty())
	require.False(t, domain.TaskPatch{DueDate: domain.Null[time.Time]()}.Empty())
	require.True(t, domain.ProjectPatch{}.Empty())
	require.False(t, domain.ProjectPatch{Title: domain.Some("t")}.Empty())
}

func TestAccessTokenExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok := domain.AccessToken{ExpiresAt: now}
	require.True(t, tok.Expired(now))
	require.False(t, tok.Expired(now.Add(-time.Second)))
}

func TestTaskChannel(t *testing.T) {
	t.Parallel()
	require.Equal(t, "task.01J0", domain.TaskChannel("01J0"))
}
