// ABOUTME: In-memory development backend serving a fixture trip and decision draft over chi
// ABOUTME: Speaks the same envelope, bearer auth and refresh-cookie contract as the real API
package mockserver

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/models"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// RefreshCookie carries the long-lived refresh credential.
const RefreshCookie = "tripnara_refresh"

// Fixture identifiers.
const (
	TripID  = "trip-iceland"
	DraftID = "draft-iceland"
)

// Options configures New.
type Options struct {
	Logger *zap.Logger
	// OpenAuth accepts requests without a bearer token.
	OpenAuth bool
	// Latency is added to every response.
	Latency time.Duration
}

// Server is the mock backend. It is safe for concurrent use.
type Server struct {
	router  chi.Router
	logger  *zap.Logger
	opts    Options
	static  map[string]json.RawMessage
	mu      sync.Mutex
	tokens  map[string]bool
	refresh map[string]bool
	drafts  map[string]*models.DecisionDraft
	history map[string][]models.DecisionDraftVersion

	directions []models.RouteDirection
	templates  []*models.RouteTemplate
}

// New loads the fixtures and builds the router.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{
		logger:  opts.Logger,
		opts:    opts,
		static:  map[string]json.RawMessage{},
		tokens:  map[string]bool{},
		refresh: map[string]bool{},
		drafts:  map[string]*models.DecisionDraft{},
		history: map[string][]models.DecisionDraftVersion{},
	}
	entries, err := fixtures.ReadDir("fixtures")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		raw, err := fixtures.ReadFile("fixtures/" + e.Name())
		if err != nil {
			return nil, err
		}
		s.static[strings.TrimSuffix(e.Name(), ".json")] = raw
	}

	var d models.DecisionDraft
	if err := json.Unmarshal(s.static[DraftID], &d); err != nil {
		return nil, fmt.Errorf("decoding draft fixture: %w", err)
	}
	s.drafts[d.DraftID] = &d
	s.history[d.DraftID] = []models.DecisionDraftVersion{snapshot(&d, 1, "initial plan")}
	if err := s.loadDirections(); err != nil {
		return nil, err
	}

	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// IssueToken mints an access token the server will accept.
func (s *Server) IssueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked()
}

func (s *Server) issueLocked() string {
	tok := "mock-" + uuid.NewString()
	s.tokens[tok] = true
	return tok
}

// RevokeTokens invalidates every access token, as though they all expired.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]bool{}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	if s.opts.Latency > 0 {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				select {
				case <-time.After(s.opts.Latency):
				case <-req.Context().Done():
					return
				}
				next.ServeHTTP(w, req)
			})
		})
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/email/send-code", func(w http.ResponseWriter, _ *http.Request) { writeData(w, nil) })
		r.Post("/email/login", s.login)
		r.Post("/refresh", s.refreshToken)
		r.Post("/logout", s.logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/trips", s.fixture("trips"))
		r.Route("/trips/{id}", func(r chi.Router) {
			r.Get("/", s.tripFixture(""))
			r.Get("/state", s.tripFixture("state-"))
			r.Get("/persona-alerts", s.tripFixture("alerts-"))
			r.Get("/conflicts", s.tripFixture("conflicts-"))
			r.Get("/metrics", s.tripFixture("metrics-"))
			r.Get("/suggestions", s.tripFixture("suggestions-"))
		})

		r.Route("/decision-draft/{id}", func(r chi.Router) {
			r.Get("/", s.getDraft)
			r.Get("/explanation", s.explanation)
			r.Get("/replay", s.replay)
			r.Get("/versions", s.versions)
			r.Get("/versions/{v1}/compare/{v2}", s.compare)
			r.Post("/preview-impact", s.previewImpact)
			r.Patch("/steps/{stepId}", s.updateStep)
		})

		r.Route("/route-directions", s.directionRoutes)

		r.Post("/decision/validate-safety", s.validateSafety)
		r.Post("/execution/execute", s.execute)
		r.Get("/decision-engine/v1/health", func(w http.ResponseWriter, _ *http.Request) {
			writeData(w, models.EngineHealth{Status: "ok"})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such endpoint in the mock backend")
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("mock request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.OpenAuth {
			next.ServeHTTP(w, r)
			return
		}
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		valid := ok && s.tokens[tok]
		s.mu.Unlock()
		if !valid {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "access token missing or expired")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.EmailLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "email and code are required")
		return
	}
	s.mu.Lock()
	tok := s.issueLocked()
	rt := uuid.NewString()
	s.refresh[rt] = true
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: rt, Path: "/", HttpOnly: true})
	email := req.Email
	writeData(w, models.Session{AccessToken: tok, User: models.User{ID: "user-" + rt[:8], Email: &email}})
}

// refreshToken answers with a bare body, not the envelope.
func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)
	s.mu.Lock()
	valid := err == nil && s.refresh[c.Value]
	var tok string
	if valid {
		tok = s.issueLocked()
	}
	s.mu.Unlock()
	if !valid {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "refresh token missing or revoked")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": tok})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(RefreshCookie); err == nil {
		s.mu.Lock()
		delete(s.refresh, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: "", Path: "/", MaxAge: -1})
	writeData(w, nil)
}

func (s *Server) fixture(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, s.static[name])
	}
}

func (s *Server) tripFixture(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := s.static[prefix+chi.URLParam(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found")
			return
		}
		writeData(w, raw)
	}
}

var errNoDraft = errors.New("draft not found")

func (s *Server) draft(r *http.Request) (*models.DecisionDraft, error) {
	d, ok := s.drafts[chi.URLParam(r, "id")]
	if !ok {
		return nil, errNoDraft
	}
	return d, nil
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
