package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	notifyHandler "github.com/nidaan-ai/triage-backend/internal/handler/notify"
	triageHandler "github.com/nidaan-ai/triage-backend/internal/handler/triage"
	middlewarePkg "github.com/nidaan-ai/triage-backend/internal/middleware"
	auditService "github.com/nidaan-ai/triage-backend/internal/service/audit"
)

// NewRouter wires HTTP routes to core services. deliverer may be nil when
// messaging is not configured.
func NewRouter(pipeline triageHandler.Pipeline, deliverer notifyHandler.Deliverer, audit *auditService.Service, features triageHandler.Features) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	triageHandler.New(pipeline, audit, features).RegisterRoutes(r)
	notifyHandler.New(deliverer, audit).RegisterRoutes(r)

	return r
}
