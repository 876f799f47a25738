package tenants_test

import (
	"strings"
	"testing"

	"github.com/jrsteele09/merchant-portal/tenants"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want tenants.Target
	}{
		{"/", tenants.Target{Area: tenants.AreaAdminLogin}},
		{"", tenants.Target{Area: tenants.AreaAdminLogin}},
		{"/login", tenants.Target{Area: tenants.AreaAdminLogin}},
		{"/login/", tenants.Target{Area: tenants.AreaAdminLogin}},
		{"/dashboard", tenants.Target{Area: tenants.AreaAdmin}},
		{"/dashboard/", tenants.Target{Area: tenants.AreaAdmin}},
		{"/dashboard/settlements", tenants.Target{Area: tenants.AreaAdmin, Section: "settlements"}},
		{"/kudu-restaurant", tenants.Target{Area: tenants.AreaTenant, TenantID: "kudu-restaurant"}},
		{"/kudu-restaurant/login", tenants.Target{Area: tenants.AreaTenantLogin, TenantID: "kudu-restaurant"}},
		{"/kudu-restaurant/orders", tenants.Target{Area: tenants.AreaTenant, TenantID: "kudu-restaurant", Section: "orders"}},
		{"/Kudu-Restaurant/orders", tenants.Target{Area: tenants.AreaTenant, TenantID: "Kudu-Restaurant", Section: "orders"}},
		{"/mash/menu/items", tenants.Target{Area: tenants.AreaTenant, TenantID: "mash", Section: "menu/items"}},
		{"/api/session", tenants.Target{Area: tenants.AreaUnknown}},
		{"/logout", tenants.Target{Area: tenants.AreaUnknown}},
		{"/static/app.css", tenants.Target{Area: tenants.AreaUnknown}},
		{"/favicon.ico", tenants.Target{Area: tenants.AreaUnknown}},
		{"/login/extra", tenants.Target{Area: tenants.AreaUnknown}},
		{"/-leading-dash", tenants.Target{Area: tenants.AreaUnknown}},
		{"/mash/../dashboard", tenants.Target{Area: tenants.AreaUnknown}},
		{"/mash//orders", tenants.Target{Area: tenants.AreaUnknown}},
		{"/with.dot", tenants.Target{Area: tenants.AreaUnknown}},
		{"/" + strings.Repeat("a", 64), tenants.Target{Area: tenants.AreaUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, tenants.Resolve(tt.path))
		})
	}
}

func TestResolve_AdminNamespaceNeverATenant(t *testing.T) {
	for _, path := range []string{"/dashboard", "/dashboard/login", "/dashboard/merchants"} {
		target := tenants.Resolve(path)
		require.Equal(t, tenants.AreaAdmin, target.Area)
		require.Empty(t, target.TenantID)
	}
}

func TestTarget_Public(t *testing.T) {
	require.True(t, tenants.Resolve("/").Public())
	require.True(t, tenants.Resolve("/mash/login").Public())
	require.False(t, tenants.Resolve("/mash").Public())
	require.False(t, tenants.Resolve("/dashboard").Public())
	require.False(t, tenants.Resolve("/api").Public())
}

func TestPaths(t *testing.T) {
	require.Equal(t, "/", tenants.AdminLoginPath())
	require.Equal(t, "/dashboard", tenants.AdminHomePath())
	require.Equal(t, "/mash/login", tenants.LoginPath("mash"))
	require.Equal(t, "/mash", tenants.HomePath("mash"))
	require.Equal(t, tenants.AreaTenantLogin, tenants.Resolve(tenants.LoginPath("kudu-restaurant")).Area)
}
