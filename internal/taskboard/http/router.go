package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/notify"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"

	_ "github.com/aussiebroadwan/taskboard/api/taskboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimits

	store          store.Store
	hub            *notify.Hub
	TokenService   *service.TokenService
	UserService    *service.UserService
	RoleService    *service.RoleService
	ProjectService *service.ProjectService
	TaskService    *service.TaskService
}

type RouterConfig struct {
	BuildVersion string
	CORS         httpx.CORSConfig
	RateLimits   httpx.RateLimits
}

func NewRouter(cfg RouterConfig, st store.Store, hub *notify.Hub, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		logger:       logger,
		limits:       cfg.RateLimits,
		store:        st,
		hub:          hub,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(cfg.CORS),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerRoles()
	r.registerProjects()
	r.registerTasks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Taskboard API
//	@version		0.1.0
//	@description	Multi-tenant project and task tracking. Users own projects and the tasks they create; admins see everything.
//	@description
//	@description				Task status changes are pushed to websocket subscribers of GET /tasks/{id}/events.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/taskboard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token from /login or /register. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured requires a bearer token and limits per user.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(tokenAuthenticator{r.TokenService}),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{UserService: r.UserService}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	r.Mux.Handle("POST /logout", r.secured(h.HandleLogout, r.limits.Moderate))
}

func (r *Router) registerUsers() {
	h := &UserHandler{UserService: r.UserService}

	r.Mux.Handle("GET /user", r.secured(h.HandleProfile, r.limits.Lenient))
	r.Mux.Handle("PUT /user/profile", r.secured(h.HandleUpdateProfile, r.limits.Moderate))
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RoleService: r.RoleService}

	// Reference data, readable without a token
	r.Mux.Handle("GET /roles",
		httpx.Chain(h,
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{ProjectService: r.ProjectService}

	r.Mux.Handle("GET /projects", r.secured(h.HandleList, r.limits.Lenient))
	r.Mux.Handle("POST /projects", r.secured(h.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("GET /projects/{id}", r.secured(h.HandleGet, r.limits.Lenient))
	r.Mux.Handle("PUT /projects/{id}", r.secured(h.HandleUpdate, r.limits.Moderate))
	r.Mux.Handle("DELETE /projects/{id}", r.secured(h.HandleDelete, r.limits.Moderate))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	r.Mux.Handle("GET /tasks", r.secured(h.HandleList, r.limits.Lenient))
	r.Mux.Handle("POST /tasks", r.secured(h.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("GET /tasks/{id}", r.secured(h.HandleGet, r.limits.Lenient))
	r.Mux.Handle("PUT /tasks/{id}", r.secured(h.HandleUpdate, r.limits.Moderate))
	r.Mux.Handle("DELETE /tasks/{id}", r.secured(h.HandleDelete, r.limits.Moderate))

	events := &TaskEventsHandler{TaskService: r.TaskService, Hub: r.hub}
	r.Mux.Handle("GET /tasks/{id}/events", r.secured(events.ServeHTTP, r.limits.Lenient))
}

func (r *Router) registerSystem() {
	// Probes - public limit, monitoring may poll frequently
	r.Mux.Handle("GET /health",
		httpx.Chain(HealthHandler(r.store),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
