package http

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"internhub/internal/domain/user"
	"internhub/internal/http/handlers"
	"internhub/internal/http/metrics"
	httpmw "internhub/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	InternshipHandler  *handlers.InternshipHandler
	ApplicationHandler *handlers.ApplicationHandler
	StatsHandler       *handlers.StatsHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	Logger             *zap.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps           RouterDependencies
	metricsHandler *metrics.Handler
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps, metricsHandler: metrics.NewHandler(deps.Metrics)}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover,
		httpmw.Metrics(r.deps.Metrics),
		httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.metricsHandler.ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/login":
			r.deps.AuthHandler.Login(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/register":
			r.deps.AuthHandler.Register(w, req)
			return
		}

		if strings.HasPrefix(path, "/api/") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	mentorOrAdmin := httpmw.RequireRole(user.RoleMentor, user.RoleAdmin)

	switch {
	case req.Method == http.MethodPost && path == "/api/logout":
		r.deps.AuthHandler.Logout(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/stats":
		r.deps.StatsHandler.Get(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/users":
		r.deps.UserHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/api/users/"):
		r.deps.UserHandler.Get(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/api/users/"):
		r.deps.UserHandler.Update(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/internships":
		r.deps.InternshipHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/internships":
		httpmw.RequireRole(user.RoleMentor)(http.HandlerFunc(r.deps.InternshipHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/api/internships/mentor/"):
		r.deps.InternshipHandler.ListByMentor(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/api/internships/") && strings.HasSuffix(path, "/select"):
		mentorOrAdmin(http.HandlerFunc(r.deps.InternshipHandler.Select)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/api/internships/") && strings.HasSuffix(path, "/unselect"):
		mentorOrAdmin(http.HandlerFunc(r.deps.InternshipHandler.Unselect)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/api/internships/"):
		r.deps.InternshipHandler.Get(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/api/internships/"):
		mentorOrAdmin(http.HandlerFunc(r.deps.InternshipHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/api/internships/"):
		mentorOrAdmin(http.HandlerFunc(r.deps.InternshipHandler.Delete)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/applications":
		httpmw.RequireRole(user.RoleStudent)(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/api/applications/student/"):
		r.deps.ApplicationHandler.ListByStudent(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/api/applications/internship/"):
		r.deps.ApplicationHandler.ListByInternship(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/api/applications/"):
		mentorOrAdmin(http.HandlerFunc(r.deps.ApplicationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}
