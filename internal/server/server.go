package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/claude/ironcoach/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	registry *builder.Registry
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured. The registry is
// injected so tests can exercise multiple constants versions side by side.
func New(db *storage.DB, registry *builder.Registry, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		registry: registry,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1/programs", func(r chi.Router) {
		// Read surface (no auth — tsnet handles access)
		r.Get("/algorithms/{builderType}/constants", s.handleGetConstants)
		r.Get("/algorithms/{builderType}/constants/{version}", s.handleGetConstantsVersion)
		r.Post("/preview", s.handlePreview)
		r.Get("/", s.handleListPrograms)
		r.Get("/{id}", s.handleGetProgram)

		// Mutating surface (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleCreateProgram)
			r.Post("/{id}/regenerate", s.handleRegenerateProgram)
		})
	})
}
