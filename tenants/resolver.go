package tenants

import "strings"

// Area is the namespace a path belongs to.
type Area int

const (
	AreaUnknown     Area = iota // Reserved, malformed or otherwise unroutable
	AreaAdminLogin              // "/" and "/login"
	AreaAdmin                   // "/dashboard[/section]"
	AreaTenantLogin             // "/{tenant}/login"
	AreaTenant                  // "/{tenant}[/section]"
)

func (a Area) String() string {
	switch a {
	case AreaAdminLogin:
		return "admin-login"
	case AreaAdmin:
		return "admin"
	case AreaTenantLogin:
		return "tenant-login"
	case AreaTenant:
		return "tenant"
	default:
		return "unknown"
	}
}

// AdminPrefix is the first path segment of the admin area.
const AdminPrefix = "dashboard"

// Target is what a path resolves to.
type Target struct {
	Area     Area
	TenantID string // Set for AreaTenant and AreaTenantLogin
	Section  string // Remaining path below the area root, without leading slash
}

// Public reports whether the target is reachable without a session.
func (t Target) Public() bool {
	return t.Area == AreaAdminLogin || t.Area == AreaTenantLogin
}

// Resolve maps a URL path onto a Target. It is a pure function of the path:
// the admin namespace is recognised first and reserved segments never name a tenant.
func Resolve(path string) Target {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Target{Area: AreaAdminLogin}
	}

	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		if s == "" || s == "." || s == ".." {
			return Target{Area: AreaUnknown}
		}
	}

	first, rest := segments[0], strings.Join(segments[1:], "/")
	switch first {
	case "login":
		if rest != "" {
			return Target{Area: AreaUnknown}
		}
		return Target{Area: AreaAdminLogin}
	case AdminPrefix:
		return Target{Area: AreaAdmin, Section: rest}
	}

	if !ValidID(first) {
		return Target{Area: AreaUnknown}
	}
	if rest == "login" {
		return Target{Area: AreaTenantLogin, TenantID: first}
	}
	return Target{Area: AreaTenant, TenantID: first, Section: rest}
}

// AdminLoginPath is where unauthenticated admin navigations are sent.
func AdminLoginPath() string {
	return "/"
}

// AdminHomePath is where an admin lands after logging in.
func AdminHomePath() string {
	return "/" + AdminPrefix
}

// LoginPath is the login page scoped to tenantID.
func LoginPath(tenantID string) string {
	return "/" + tenantID + "/login"
}

// HomePath is where a merchant operator of tenantID lands after logging in.
func HomePath(tenantID string) string {
	return "/" + tenantID
}
