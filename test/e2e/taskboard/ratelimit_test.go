package taskboard_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitLogin verifies the strict limit on /login with production
// defaults (burst of 10).
func TestRateLimitLogin(t *testing.T) {
	client := tasksdk.NewClient(startService(t, nil))
	ctx := t.Context()

	for i := range 10 {
		_, err := client.Login(ctx, "nobody@example.com", "wrong-password")
		require.True(t, tasksdk.IsUnauthorized(err), "request %d should fail on credentials, got %v", i+1, err)
	}

	_, err := client.Login(ctx, "nobody@example.com", "wrong-password")
	require.True(t, tasksdk.IsStatus(err, http.StatusTooManyRequests), "got %v", err)

	var apiErr *tasksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, tasksdk.ErrorCodeRateLimited, apiErr.Code)
}
