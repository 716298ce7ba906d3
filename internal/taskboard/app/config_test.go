package app

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"ENV", "PORT", "DATABASE_DRIVER", "DATABASE_URL", "TOKEN_TTL", "HOUSEKEEPING_INTERVAL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("HOUSEKEEPING_INTERVAL", "15")
	t.Setenv("RATELIMIT_STRICT_BURST", "3")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://taskboard@localhost/taskboard")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, 3, cfg.RateLimits.Strict.Burst)
	require.Equal(t, "postgres", cfg.DatabaseDriver)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"sqlite", Config{DatabaseDriver: "sqlite", TokenTTL: time.Hour}, true},
		{"postgres without url", Config{DatabaseDriver: "postgres", TokenTTL: time.Hour}, false},
		{"unknown driver", Config{DatabaseDriver: "mysql", TokenTTL: time.Hour}, false},
		{"zero ttl", Config{DatabaseDriver: "sqlite"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	check := checkOrigin([]string{"https://app.example"})

	req := httptest.NewRequest("GET", "http://api.example/tasks/1/events", nil)
	require.True(t, check(req), "no origin header")

	req.Header.Set("Origin", "https://app.example")
	require.True(t, check(req))

	req.Header.Set("Origin", "http://api.example")
	require.True(t, check(req), "same host")

	req.Header.Set("Origin", "https://evil.example")
	require.False(t, check(req))

	require.True(t, checkOrigin([]string{"*"})(req))
}
