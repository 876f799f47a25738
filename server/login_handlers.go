package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/merchant-portal/auth"
	"github.com/jrsteele09/merchant-portal/tenants"
	"github.com/rs/zerolog/log"
)

const messageTooManyAttempts = "Too many login attempts. Please wait and try again."

// loginPageData contains data for rendering the login page
type loginPageData struct {
	AppName  string
	Title    string
	TenantID string
	Action   string
	Error    string
	Username string // Preserve username on error
}

func (s *Server) loginPage(tenantID string) loginPageData {
	data := loginPageData{
		AppName:  s.config.GetAppName(),
		Title:    s.config.GetAppName(),
		TenantID: tenantID,
		Action:   RouteAdminLogin,
	}
	if tenantID != "" {
		data.Title = tenants.Name(s.tenants, tenantID)
		data.Action = tenants.LoginPath(tenantID)
	}
	return data
}

// LoginSubmissionHandler processes the admin (POST /login) and tenant (POST /{subdomain}/login) login forms.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.PathValue("subdomain")
		if tenantID != "" && !tenants.ValidID(tenantID) {
			http.NotFound(w, r)
			return
		}
		page := s.loginPage(tenantID)

		if !s.limiter.Allow(clientAddress(r)) {
			page.Error = messageTooManyAttempts
			render(w, s.pages.login, http.StatusTooManyRequests, page)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		page.Username = r.PostFormValue("username")
		password := r.PostFormValue("password")

		store := storeFromContext(r.Context())
		session, err := s.auth.Login(r.Context(), store, tenantID, page.Username, password)
		if errors.Is(err, auth.ErrStaleResponse) {
			log.Debug().Str("tenant", tenantID).Msg("login abandoned by client")
			return
		}
		if err != nil {
			page.Error = auth.UserMessage(err)
			render(w, s.pages.login, loginFailureStatus(err), page)
			return
		}

		if session.IsAdmin() {
			redirect(w, r, tenants.AdminHomePath())
			return
		}
		redirect(w, r, tenants.HomePath(session.Scope()))
	}
}

// LogoutHandler ends the session of the calling browser and returns to the admin login.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.Logout(r.Context(), storeFromContext(r.Context()))
		redirect(w, r, tenants.AdminLoginPath())
	}
}

func loginFailureStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrEmptyCredentials):
		return http.StatusBadRequest
	case auth.Retryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnauthorized
	}
}
