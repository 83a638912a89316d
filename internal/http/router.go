package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/http/handlers"
	httpmw "github.com/mike2377/gestion-stage-sub000/internal/http/middleware"
)

type RouterDependencies struct {
	StageHandler       *handlers.StageHandler
	ApplicationHandler *handlers.ApplicationHandler
	ConventionHandler  *handlers.ConventionHandler
	TaskHandler        *handlers.TaskHandler
	EvaluationHandler  *handlers.EvaluationHandler
	ReportHandler      *handlers.ReportHandler
	StatsHandler       *handlers.StatsHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Logger             *slog.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(r.deps.Logger),
		httpmw.Timeout(r.deps.RequestTimeout),
	)
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
		case req.Method == http.MethodGet && path == "/stages":
			r.deps.StageHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/stages/") && strings.Count(path, "/") == 2:
			r.deps.StageHandler.Get(w, req)
			return
		}

		for _, prefix := range []string{"/stages", "/applications", "/conventions", "/tasks", "/evaluations", "/reports", "/stats", "/audit"} {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					r.handleProtected(w, req)
				}))
				protected.ServeHTTP(w, req)
				return
			}
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodPost && path == "/stages":
		httpmw.RequireRole(user.RoleEnterprise, user.RoleTeacher)(http.HandlerFunc(r.deps.StageHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/stages/") && strings.HasSuffix(path, "/transition"):
		r.deps.StageHandler.Transition(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/stages/") && strings.HasSuffix(path, "/assign-student"):
		httpmw.RequireRole(user.RoleTeacher, user.RoleResponsible)(http.HandlerFunc(r.deps.StageHandler.AssignStudent)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/stages/") && strings.HasSuffix(path, "/assign-tutor"):
		httpmw.RequireRole(user.RoleTeacher, user.RoleResponsible)(http.HandlerFunc(r.deps.StageHandler.AssignTutor)).ServeHTTP(w, req)
		return

	case req.Method == http.MethodPost && path == "/applications":
		httpmw.RequireRole(user.RoleStudent)(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/") && strings.Count(path, "/") == 2:
		r.deps.ApplicationHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/transition"):
		r.deps.ApplicationHandler.Transition(w, req)
		return

	case req.Method == http.MethodPost && path == "/conventions":
		httpmw.RequireRole(user.RoleEnterprise, user.RoleTeacher, user.RoleResponsible)(http.HandlerFunc(r.deps.ConventionHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/conventions":
		r.deps.ConventionHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/conventions/") && strings.Count(path, "/") == 2:
		r.deps.ConventionHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/conventions/") && strings.HasSuffix(path, "/submit"):
		r.deps.ConventionHandler.Act(w, req, "submit")
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/conventions/") && strings.HasSuffix(path, "/sign"):
		r.deps.ConventionHandler.Act(w, req, "sign")
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/conventions/") && strings.HasSuffix(path, "/decline"):
		r.deps.ConventionHandler.Act(w, req, "decline")
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/conventions/") && strings.HasSuffix(path, "/transition"):
		r.deps.ConventionHandler.Act(w, req, "transition")
		return

	case req.Method == http.MethodPost && path == "/tasks":
		httpmw.RequireRole(user.RoleEnterprise, user.RoleTeacher, user.RoleTutor)(http.HandlerFunc(r.deps.TaskHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/tasks":
		r.deps.TaskHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/tasks/") && strings.Count(path, "/") == 2:
		r.deps.TaskHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/tasks/") && strings.HasSuffix(path, "/transition"):
		r.deps.TaskHandler.Transition(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/tasks/") && strings.HasSuffix(path, "/progress"):
		r.deps.TaskHandler.UpdateProgress(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/tasks/") && strings.HasSuffix(path, "/comments"):
		r.deps.TaskHandler.AddComment(w, req)
		return

	case req.Method == http.MethodPost && path == "/evaluations":
		httpmw.RequireRole(user.RoleTutor, user.RoleTeacher)(http.HandlerFunc(r.deps.EvaluationHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/evaluations":
		r.deps.EvaluationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/evaluations/") && strings.Count(path, "/") == 2:
		r.deps.EvaluationHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/evaluations/") && strings.HasSuffix(path, "/transition"):
		r.deps.EvaluationHandler.Transition(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/evaluations/") && strings.HasSuffix(path, "/grade"):
		httpmw.RequireRole(user.RoleTeacher, user.RoleResponsible)(http.HandlerFunc(r.deps.EvaluationHandler.Grade)).ServeHTTP(w, req)
		return

	case req.Method == http.MethodPost && path == "/reports":
		httpmw.RequireRole(user.RoleStudent)(http.HandlerFunc(r.deps.ReportHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/reports":
		r.deps.ReportHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/reports/") && strings.Count(path, "/") == 2:
		r.deps.ReportHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/reports/") && strings.HasSuffix(path, "/transition"):
		r.deps.ReportHandler.Transition(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/reports/") && strings.HasSuffix(path, "/grade"):
		httpmw.RequireRole(user.RoleTeacher, user.RoleResponsible)(http.HandlerFunc(r.deps.ReportHandler.Grade)).ServeHTTP(w, req)
		return

	case req.Method == http.MethodGet && path == "/stats":
		r.deps.StatsHandler.Overview(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/audit/"):
		r.deps.StatsHandler.Trail(w, req)
		return
	}

	http.NotFound(w, req)
}
