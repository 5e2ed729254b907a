package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/flatten", s.handleFlatten)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/reparent", s.handleReparent)
		r.Post("/transfer", s.handleTransfer)
		r.Post("/apply", s.handleApply)
		r.Post("/drop-target", s.handleDropTarget)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}
