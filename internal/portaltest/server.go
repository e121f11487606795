package portaltest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	basePath = "/macros/exec"
	issuer   = "apk-portal-fake"
	signKey  = "portaltest-sign-key"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// Request is one call observed by the fake.
type Request struct {
	Method      string
	Path        string
	ContentType string
	AccessToken string
	RequestID   string
}

// Server is a running fake portal.
type Server struct {
	srv    *httptest.Server
	router *chi.Mux
	logger *logger.Logger

	mu            sync.Mutex
	users         map[string]string
	builds        []models.Build
	files         map[string][]byte
	buildsPayload any
	accessTokens  map[string]string
	refreshTokens map[string]string
	accessTTL     time.Duration
	failRefresh   bool
	failures      map[string]Failure
	requests      []Request
}

// Failure is a canned failure returned for a path instead of the normal
// response.
type Failure struct {
	StatusCode int
	Body       any
}

// Option configures a Server.
type Option func(*Server)

// WithUser registers an account the fake accepts at /login.
func WithUser(username, password string) Option {
	return func(s *Server) {
		s.users[username] = password
	}
}

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = ttl
	}
}

// WithLogger makes the fake log every request.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer starts a fake portal and registers its shutdown with t.Cleanup.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		logger:        logger.Nop(),
		users:         make(map[string]string),
		files:         make(map[string][]byte),
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
		accessTTL:     defaultAccessTTL,
		failures:      make(map[string]Failure),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	s.srv = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.srv.Close)

	return s
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.withRequestLogger)
	router.Use(withLogging)
	router.Use(s.withJournal)

	router.Post(basePath+"/login", s.login)
	router.Post(basePath+"/token/refresh", s.refresh)
	router.Get(basePath+"/apks", s.listAPKs)
	router.Get("/files/{name}", s.file)

	return router
}

// serveHTTP folds the "path" query parameter into the URL path so that chi
// can route single-endpoint calls like ordinary REST ones.
func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if op := r.URL.Query().Get("path"); op != "" && r.URL.Path == basePath {
		r = r.Clone(r.Context())
		r.URL.Path = basePath + op
		r.URL.RawPath = ""
	}
	s.router.ServeHTTP(w, r)
}

// BaseURL is the portal API base URL to configure the client with.
func (s *Server) BaseURL() string {
	return s.srv.URL + basePath
}

// Close shuts the fake down. Later calls fail with a transport error.
func (s *Server) Close() {
	s.srv.Close()
}

// AddBuild publishes a build whose URL serves content.
func (s *Server) AddBuild(version, buildDate, notes string, content []byte) models.Build {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := "app-" + version + ".apk"
	s.files[name] = content
	build := models.Build{
		Version:   version,
		BuildDate: buildDate,
		Notes:     notes,
		URL:       s.srv.URL + "/files/" + url.PathEscape(name),
	}
	s.builds = append(s.builds, build)
	return build
}

// SetBuilds replaces the published list. Files are not touched.
func (s *Server) SetBuilds(builds ...models.Build) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds = append([]models.Build(nil), builds...)
	s.buildsPayload = nil
}

// SetBuildsPayload makes /apks answer with an arbitrary "data" value.
func (s *Server) SetBuildsPayload(data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buildsPayload = data
}

// ExpireAccessTokens invalidates every access token issued so far; the next
// /apks call with one of them answers TOKEN_EXPIRED.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.accessTokens)
}

// SetRefreshFailure makes /token/refresh reject every request.
func (s *Server) SetRefreshFailure(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRefresh = fail
}

// FailPath makes every call to the logical path answer with f.
func (s *Server) FailPath(path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = f
}

// Calls returns how many times the logical path (e.g. "/apks") was called.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Requests returns a copy of the request journal.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// IssueTokens returns a valid token pair for username without a /login call.
func (s *Server) IssueTokens(username string) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(username)
}
