package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

// HealthHandler godoc
//
//	@Summary		Health check
//	@Description	Always answers 200. Status is "warning" and services.database is "error" when storage is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tasksdk.HealthResponse	"status, message, timestamp, services"
//	@Router			/health [get].
func HealthHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := tasksdk.HealthResponse{
			Status:    "ok",
			Message:   "API is running",
			Timestamp: time.Now().UTC(),
			Services:  tasksdk.HealthServices{Database: "ok", API: "ok"},
		}

		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Warn("database ping failed", "error", err)
			resp.Status = "warning"
			resp.Message = "Database connection failed"
			resp.Services.Database = "error"
		}

		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Returns 200 while the process is serving, with uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tasksdk.LivezResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, tasksdk.LivezResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
