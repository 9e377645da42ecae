package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskpilot/taskpilot/internal/api/handlers"
	"github.com/taskpilot/taskpilot/internal/api/middleware"
)

// Router wraps the HTTP multiplexer with middleware and handlers.
type Router struct {
	mux      *http.ServeMux
	app      *App
	auth     *handlers.AuthHandler
	projects *handlers.ProjectHandler
	tasks    *handlers.TaskHandler
}

// NewRouter creates the API router with all routes configured.
func NewRouter(app *App) http.Handler {
	r := &Router{
		mux: http.NewServeMux(),
		app: app,
	}

	r.auth = handlers.NewAuthHandler(app.Auth, app.Config.IsProduction(), app.Config.SessionMaxAge)
	r.projects = handlers.NewProjectHandler(app.Projects)
	r.tasks = handlers.NewTaskHandler(app.Tasks)

	r.registerRoutes()

	return r.buildMiddlewareChain(r.mux)
}

func (r *Router) registerRoutes() {
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	// Auth
	r.mux.HandleFunc("POST /auth/register", r.auth.Register)
	r.mux.HandleFunc("POST /auth/login", r.auth.Login)
	r.mux.HandleFunc("POST /auth/signout", r.auth.Signout)
	r.mux.HandleFunc("GET /auth/me", r.requireAuth(r.auth.Me))

	// Projects (requires auth)
	r.mux.HandleFunc("GET /project", r.requireAuth(r.projects.List))
	r.mux.HandleFunc("POST /project/create", r.requireAuth(r.projects.Create))
	r.mux.HandleFunc("GET /project/{id}", r.requireAuth(r.projects.Get))
	r.mux.HandleFunc("PUT /project/update/{id}", r.requireAuth(r.projects.Update))
	r.mux.HandleFunc("DELETE /project/delete/{id}", r.requireAuth(r.projects.Delete))

	// Tasks (requires auth)
	r.mux.HandleFunc("GET /task", r.requireAuth(r.tasks.List))
	r.mux.HandleFunc("GET /task/project/{projectName}", r.requireAuth(r.tasks.ListByProject))
	r.mux.HandleFunc("POST /task/create", r.requireAuth(r.tasks.Create))
	r.mux.HandleFunc("GET /task/{id}", r.requireAuth(r.tasks.Get))
	r.mux.HandleFunc("PUT /task/update/{id}", r.requireAuth(r.tasks.Update))
	r.mux.HandleFunc("DELETE /task/delete/{id}", r.requireAuth(r.tasks.Delete))
}

func (r *Router) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Applied in reverse order; last applied runs first.
	handler = middleware.Recovery(handler)
	handler = middleware.Logger(handler)

	if !r.app.Config.Debug {
		handler = middleware.RateLimit(r.app.Config.RequestsPerMinute)(handler)
	}

	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)

	return handler
}

// requireAuth resolves the session cookie to an identity and attaches it to
// the request context. A missing cookie and a bad token get distinct
// messages.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		cookie, err := req.Cookie("session")
		if err != nil {
			Unauthorized(w, req, "authentication required")
			return
		}

		identity, err := r.app.Auth.ValidateSession(req.Context(), cookie.Value)
		if err != nil {
			slog.Warn("invalid session",
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			Unauthorized(w, req, "invalid or expired session")
			return
		}

		next(w, req.WithContext(handlers.WithIdentity(req.Context(), identity)))
	}
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	if err := r.app.Ping(req.Context()); err != nil {
		slog.Error("database health check failed",
			"error", err,
			"request_id", middleware.GetRequestID(req.Context()),
		)
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"checks": map[string]string{"database": "unhealthy"},
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]string{"database": "healthy"},
	})
}
