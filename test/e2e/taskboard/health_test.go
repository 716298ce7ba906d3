package taskboard_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	client := setupTaskboard(t)

	live, err := client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.NotEmpty(t, live.Version)

	health, err := client.Health(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Services.Database)
	require.Equal(t, "ok", health.Services.API)
}

func TestRolesAreSeeded(t *testing.T) {
	client := setupTaskboard(t)

	roles, err := client.ListRoles(t.Context())
	require.NoError(t, err)

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	require.ElementsMatch(t, []string{"admin", "manager", "user"}, names)
}
