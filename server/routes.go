package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	// Navigation: login pages, admin area and tenant areas, all behind the guard
	s.RegisterRouteHandler("GET "+RouteNavigation, ChainMiddleware(s.NavigationHandler(), s.HTMLMiddleWare(s.RequireNavigationAuth())...))

	// LOGIN
	s.RegisterRouteHandler("POST "+RouteAdminLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteTenantLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionAPIHandler(), s.APIMiddleware(s.BrowserSessionMiddleware)...))
	if s.backend != nil {
		s.RegisterRouteHandler("POST "+RouteAPIAdminLogin, ChainMiddleware(s.BackendLoginHandler(), s.APIMiddleware()...))
		s.RegisterRouteHandler("POST "+RouteAPIMerchantLogin, ChainMiddleware(s.BackendLoginHandler(), s.APIMiddleware()...))
		s.RegisterRouteHandler("POST "+RouteAPILogout, ChainMiddleware(s.BackendLogoutHandler(), s.APIMiddleware()...))
	}
	s.RegisterRouteHandler("OPTIONS "+RouteAPIPrefix+"/", ChainMiddleware(http.NotFound, s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteStatic, ChainMiddleware(s.serveFileHandler(), s.CacheMiddleware, s.LoggingMiddleware))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/static/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			log.Debug().Err(err).Str("file", filePath).Msg("static file not served")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
