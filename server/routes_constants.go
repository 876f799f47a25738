package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Navigation: everything not matched below is resolved by the tenant resolver
	RouteNavigation = "/"

	// Login & Logout forms
	RouteAdminLogin  = "/login"
	RouteTenantLogin = "/{subdomain}/login"
	RouteLogout      = "/logout"

	// Backend login contract, mounted under RouteAPIPrefix
	RouteAPIPrefix        = "/api"
	RouteAPIAdminLogin    = RouteAPIPrefix + "/auth/admin/login"
	RouteAPIMerchantLogin = RouteAPIPrefix + "/auth/merchant/{subdomain}/login"
	RouteAPILogout        = RouteAPIPrefix + "/auth/logout"
	RouteAPISession       = RouteAPIPrefix + "/session"

	RouteHealth = "/healthz"

	// Static Asset Routes (patterns)
	RouteStatic = "/static/{file}"
)
