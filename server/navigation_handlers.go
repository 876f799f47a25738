package server

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/jrsteele09/merchant-portal/tenants"
)

var (
	adminSections    = []string{"merchants", "users", "settlements", "reports"}
	merchantSections = []string{"dashboard", "stores", "tables", "menu", "orders", "reports", "payouts", "staff", "settings"}
)

type portalPageData struct {
	AppName     string
	Heading     string
	DisplayName string
	Base        string
	Section     string
	Sections    []string
	ExpiresAt   time.Time
}

// NavigationHandler renders whatever the guard let through: login pages, the admin area or a tenant area.
func (s *Server) NavigationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision, ok := decisionFromContext(r.Context())
		if !ok {
			redirect(w, r, tenants.AdminLoginPath())
			return
		}
		store := storeFromContext(r.Context())
		target := decision.Target

		switch target.Area {
		case tenants.AreaAdminLogin:
			if session, ok := store.Load(r.Context()); ok && session.IsAdmin() {
				redirect(w, r, tenants.AdminHomePath())
				return
			}
			render(w, s.pages.login, http.StatusOK, s.loginPage(""))

		case tenants.AreaTenantLogin:
			if session, ok := store.Load(r.Context()); ok && session.Scope() == target.TenantID {
				redirect(w, r, tenants.HomePath(target.TenantID))
				return
			}
			render(w, s.pages.login, http.StatusOK, s.loginPage(target.TenantID))

		case tenants.AreaAdmin:
			s.renderPortal(w, r, target, s.config.GetAppName(), tenants.AdminHomePath(), adminSections)

		case tenants.AreaTenant:
			s.renderPortal(w, r, target, tenants.Name(s.tenants, target.TenantID), tenants.HomePath(target.TenantID), merchantSections)

		default:
			redirect(w, r, tenants.AdminLoginPath())
		}
	}
}

func (s *Server) renderPortal(w http.ResponseWriter, r *http.Request, target tenants.Target, heading, base string, sections []string) {
	section, _, _ := strings.Cut(target.Section, "/")
	if section == "" {
		section = sections[0]
	}
	if !slices.Contains(sections, section) {
		http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		return
	}

	session, ok := storeFromContext(r.Context()).Load(r.Context())
	if !ok {
		// Logged out between the guard and here.
		redirect(w, r, tenants.AdminLoginPath())
		return
	}

	render(w, s.pages.portal, http.StatusOK, portalPageData{
		AppName:     s.config.GetAppName(),
		Heading:     heading,
		DisplayName: session.DisplayName,
		Base:        base,
		Section:     section,
		Sections:    sections,
		ExpiresAt:   session.ExpiresAt,
	})
}
