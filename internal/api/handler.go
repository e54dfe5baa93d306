// Package api wires the HTTP surface of the heritage discovery service:
// nearby-site search, per-site description enrichment, chat, and account
// registration/login.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"heritage/internal/archive"
	"heritage/internal/auth"
	"heritage/internal/describe"
	"heritage/internal/events"
	"heritage/internal/users"
	"heritage/pkg/overpass"
)

// SessionHeader carries the browsing-session id used to scope description
// caches. Requests without it get a throwaway per-request session.
const SessionHeader = "X-Session-ID"

// Fetcher runs a raw geodata query; implemented by overpass.Client.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (*overpass.Response, error)
}

// Handler holds the dependencies of all HTTP endpoints. Users, publisher and
// archiver may be nil; the corresponding features then degrade gracefully.
type Handler struct {
	logger    *slog.Logger
	fetcher   Fetcher
	generator describe.TextGenerator
	enricher  *describe.Enricher
	sessions  *describe.Registry
	users     *users.Store
	tokens    *auth.Manager
	publisher *events.Publisher
	archiver  *archive.Service
}

// Config collects the handler dependencies.
type Config struct {
	Logger    *slog.Logger
	Fetcher   Fetcher
	Generator describe.TextGenerator
	Users     *users.Store
	Tokens    *auth.Manager
	Publisher *events.Publisher
	Archiver  *archive.Service
}

// NewHandler builds a Handler and its session registry.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		fetcher:   cfg.Fetcher,
		generator: cfg.Generator,
		enricher:  describe.NewEnricher(cfg.Generator),
		sessions:  describe.NewRegistry(),
		users:     cfg.Users,
		tokens:    cfg.Tokens,
		publisher: cfg.Publisher,
		archiver:  cfg.Archiver,
	}
}

// Router assembles the chi routes for the service.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/sites", h.GetSites)
		r.Post("/describe", h.Describe)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/session", h.NewSession)
		r.Delete("/session", h.EndSession)

		// Chat is reserved for logged-in users.
		r.Group(func(r chi.Router) {
			r.Use(h.tokens.Middleware())
			r.Post("/chat", h.Chat)
		})
	})
	return r
}

// NewSession issues a fresh browsing-session id for description caching.
func (h *Handler) NewSession(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"sessionId": h.sessions.NewSession()})
}

// EndSession discards the caller's browsing session and its cached
// descriptions. Clients that never call it keep their session for the life of
// the process.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if id := r.Header.Get(SessionHeader); id != "" {
		h.sessions.Drop(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionCache resolves the caller's description cache. A request without a
// session header gets a cache that lives only for this request.
func (h *Handler) sessionCache(r *http.Request) *describe.Cache {
	if id := r.Header.Get(SessionHeader); id != "" {
		return h.sessions.Cache(id)
	}
	return describe.NewCache()
}
