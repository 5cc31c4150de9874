package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/estudiante-elite/backend/internal/auth"
	"github.com/estudiante-elite/backend/internal/events"
	chathandler "github.com/estudiante-elite/backend/internal/handler/chat"
	eventshandler "github.com/estudiante-elite/backend/internal/handler/events"
	summaryhandler "github.com/estudiante-elite/backend/internal/handler/summary"
	transcribehandler "github.com/estudiante-elite/backend/internal/handler/transcribe"
	middlewarePkg "github.com/estudiante-elite/backend/internal/middleware"
	"github.com/estudiante-elite/backend/internal/service/session"
	"github.com/estudiante-elite/backend/internal/store"
)

// Deps collects the services the router wires into handlers. Optional
// collaborators may be nil; their endpoints answer 503.
type Deps struct {
	Store       store.Store
	Sessions    *session.Service
	Hub         *events.Hub
	Summary     summaryhandler.Generator
	Transcriber transcribehandler.Transcriber
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chathandler.New(deps.Sessions, deps.Store)
	summaryHandler := summaryhandler.New(deps.Summary)
	transcribeHandler := transcribehandler.New(deps.Transcriber)
	eventsHandler := eventshandler.New(deps.Hub)

	r.Route("/api", func(api chi.Router) {
		api.Use(auth.Middleware)

		chatHandler.RegisterRoutes(api)
		summaryHandler.RegisterRoutes(api)
		transcribeHandler.RegisterRoutes(api)
		eventsHandler.RegisterRoutes(api)
	})

	return r
}
