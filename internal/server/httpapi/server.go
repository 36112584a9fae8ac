// Package httpapi exposes the auth server's HTTP surface: session reads,
// challenge-based login, logout, oauth consent, and chat token issuance.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hivegate/hivegate/internal/logging"
	"github.com/hivegate/hivegate/internal/server/challenge"
	"github.com/hivegate/hivegate/internal/server/metrics"
	"github.com/hivegate/hivegate/internal/server/services"
	"github.com/hivegate/hivegate/internal/server/session"
)

// Server wires the auth service and cookie plumbing into an HTTP router.
type Server struct {
	auth       *services.AuthService
	sessions   *session.Store
	challenges *challenge.Issuer
	metrics    *metrics.Metrics
	log        logging.Logger
}

func NewServer(auth *services.AuthService, sessions *session.Store, challenges *challenge.Issuer, m *metrics.Metrics, log logging.Logger) *Server {
	return &Server{
		auth:       auth,
		sessions:   sessions,
		challenges: challenges,
		metrics:    m,
		log:        log,
	}
}

// Router builds the route tree. State-changing endpoints sit behind the CSRF
// header check; reads do not.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/auth", func(api chi.Router) {
		api.Get("/session", s.handleSession)

		api.Group(func(mut chi.Router) {
			mut.Use(s.requireCsrfHeader)
			mut.Post("/login", s.handleLogin)
			mut.Post("/logout", s.handleLogout)
			mut.Post("/consent", s.handleConsent)
			mut.Post("/chat-token", s.handleChatToken)
		})
	})

	return r
}
