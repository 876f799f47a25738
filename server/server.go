package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/merchant-portal/auth"
	"github.com/jrsteele09/merchant-portal/guard"
	"github.com/jrsteele09/merchant-portal/internal/config"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/jrsteele09/merchant-portal/tenants"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators a Server is built from.
type Deps struct {
	Gateway auth.Gateway      // Used by the login forms
	Backend auth.Gateway      // Optional: when set, the backend login contract is served under /api
	Storage sessions.Storage  // Shared key/value space; each browser gets its own scope
	Tenants tenants.Repo      // Optional tenant directory for display names
	NowFunc func() time.Time  // Optional clock override
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	secure  bool   // Served over https, per BASE_URL
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	auth    *auth.Service
	backend auth.Gateway
	storage sessions.Storage
	tenants tenants.Repo
	guard   *guard.Guard
	limiter *loginLimiter
	pages   *pageTemplates
	nowFunc func() time.Time
}

func New(config config.Config, deps Deps) (*Server, error) {
	if deps.Storage == nil {
		return nil, errors.New("[Server New] session storage is required")
	}
	authService, err := auth.NewService(deps.Gateway)
	if err != nil {
		return nil, err
	}
	pages, err := parsePageTemplates()
	if err != nil {
		return nil, err
	}
	nowFunc := deps.NowFunc
	if nowFunc == nil {
		nowFunc = time.Now
	}

	s := &Server{
		env:     config.GetEnv(),
		secure:  strings.HasPrefix(config.GetBaseURL(), "https://"),
		mux:     http.NewServeMux(),
		config:  config,
		auth:    authService,
		backend: deps.Backend,
		storage: deps.Storage,
		tenants: deps.Tenants,
		guard:   guard.New(nowFunc),
		limiter: newLoginLimiter(config.GetLoginRateLimit(), config.GetLoginRateBurst(), nowFunc),
		pages:   pages,
		nowFunc: nowFunc,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}
