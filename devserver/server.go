// Package devserver is a development fragment endpoint. It serves markdown
// pages over the same wire format the fetch client speaks, so the cache can
// be exercised without the real admin backend.
package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/krisalay/navcache/fetch"
	"github.com/krisalay/navcache/types"
)

// EndpointPath mirrors the WordPress admin endpoint. "/" is served too.
const EndpointPath = "/admin-ajax.php"

// Config holds server configuration.
type Config struct {
	Addr string

	// Token is the session token clients must send as nonce.
	// A random one is generated when empty.
	Token string

	// Action and RouteParam default to the fetch client's defaults.
	Action     string
	RouteParam string

	// Delay is added to every page response, to make loading states visible.
	Delay time.Duration

	AllowAll bool // allow all CORS origins
	Logger   types.Logger
}

type page struct {
	title string
	html  string
}

// Server serves page fragments.
type Server struct {
	cfg        Config
	logger     types.Logger
	router     chi.Router
	httpServer *http.Server

	mu      sync.RWMutex
	pages   map[types.Route]page
	failing map[types.Route]string
	hits    map[types.Route]int
	closed  bool
}

// New renders pages and builds the router.
func New(cfg Config, pages []Page) (*Server, error) {
	if cfg.Token == "" {
		cfg.Token = uuid.NewString()
	}
	if cfg.Action == "" {
		cfg.Action = fetch.DefaultAction
	}
	if cfg.RouteParam == "" {
		cfg.RouteParam = fetch.DefaultRouteParam
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		pages:   make(map[types.Route]page, len(pages)),
		failing: make(map[types.Route]string),
		hits:    make(map[types.Route]int),
	}

	md := newMarkdown()
	for _, p := range pages {
		html, err := toHTML(md, p)
		if err != nil {
			return nil, err
		}
		s.pages[p.Route] = page{title: p.Title, html: html}
	}

	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With", fetch.RequestIDHeader},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/", s.handleAction)
	r.Post(EndpointPath, s.handleAction)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

/*
handleAction answers one page request.

BEHAVIOR:
- wrong action → 400
- bad nonce → 403
- unknown or failing page → 200 with success:false
- otherwise → success:true with the fragment under data
*/
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, failure("malformed form"))
		return
	}
	if r.PostForm.Get("action") != s.cfg.Action {
		writeJSON(w, http.StatusBadRequest, failure("unknown action"))
		return
	}
	if r.PostForm.Get("nonce") != s.cfg.Token {
		writeJSON(w, http.StatusForbidden, failure("invalid or expired session token"))
		return
	}

	route := types.Route(r.PostForm.Get(s.cfg.RouteParam))
	if route == "" {
		writeJSON(w, http.StatusBadRequest, failure("missing page"))
		return
	}

	if s.cfg.Delay > 0 {
		select {
		case <-time.After(s.cfg.Delay):
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	s.hits[route]++
	p, ok := s.pages[route]
	reason, failing := s.failing[route]
	s.mu.Unlock()

	switch {
	case failing:
		writeJSON(w, http.StatusOK, failure(reason))
	case !ok:
		writeJSON(w, http.StatusOK, failure(fmt.Sprintf("page %q does not exist", route)))
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]string{
				"content": p.html,
				"title":   p.title,
			},
		})
	}
}

func failure(message string) map[string]any {
	return map[string]any{
		"success": false,
		"data":    map[string]string{"message": message},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SetFailing makes route answer with success:false and reason until cleared
// with an empty reason.
func (s *Server) SetFailing(route types.Route, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reason == "" {
		delete(s.failing, route)
		return
	}
	s.failing[route] = reason
}

// Hits returns how many page requests route has received.
func (s *Server) Hits(route types.Route) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits[route]
}

// Routes returns the served routes, sorted.
func (s *Server) Routes() []types.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	routes := make([]types.Route, 0, len(s.pages))
	for r := range s.pages {
		routes = append(routes, r)
	}
	slices.Sort(routes)
	return routes
}

// Token returns the session token clients must present.
func (s *Server) Token() string { return s.cfg.Token }

// Handler returns the router, for mounting or httptest.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return http.ErrServerClosed
	}
	s.httpServer = srv
	n := len(s.pages)
	s.mu.Unlock()

	s.logger.Info("fragment endpoint listening", "addr", ln.Addr().String(), "pages", n)
	return srv.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}
