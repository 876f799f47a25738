package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/merchant-portal/auth/fixturegateway"
	"github.com/jrsteele09/merchant-portal/credentials"
	fakecredentialrepo "github.com/jrsteele09/merchant-portal/credentials/repofake"
	"github.com/jrsteele09/merchant-portal/guard"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/jrsteele09/merchant-portal/sessions/storage"
	"github.com/jrsteele09/merchant-portal/tenants"
	"github.com/jrsteele09/merchant-portal/token"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func session(role sessions.Role, tenant string) sessions.Session {
	return sessions.Session{
		Role:        role,
		DisplayName: "someone",
		TenantScope: tenant,
		IssuedAt:    now.Add(-time.Hour),
		ExpiresAt:   now.Add(time.Hour),
		Token:       "t",
	}
}

func TestAuthorize(t *testing.T) {
	admin := session(sessions.RoleAdmin, "")
	adminWithStrayScope := session(sessions.RoleAdmin, "mash")
	kudu := session(sessions.RoleMerchant, "kudu-restaurant")
	expiredAdmin := admin
	expiredAdmin.ExpiresAt = now
	expiredKudu := kudu
	expiredKudu.ExpiresAt = now.Add(-time.Second)

	tests := []struct {
		name     string
		path     string
		session  sessions.Session
		ok       bool
		verdict  guard.Verdict
		redirect string
	}{
		{"admin login is public", "/", sessions.Session{}, false, guard.Allowed, ""},
		{"tenant login is public", "/mash/login", sessions.Session{}, false, guard.Allowed, ""},
		{"admin area no session", "/dashboard", sessions.Session{}, false, guard.DeniedToAdminLogin, "/"},
		{"admin area admin", "/dashboard/users", admin, true, guard.Allowed, ""},
		{"admin area expired admin", "/dashboard", expiredAdmin, true, guard.DeniedToAdminLogin, "/"},
		{"admin area merchant", "/dashboard", kudu, true, guard.DeniedToAdminLogin, "/"},
		{"tenant area no session", "/mash/orders", sessions.Session{}, false, guard.DeniedToTenantLogin, "/mash/login"},
		{"tenant area own tenant", "/kudu-restaurant/orders", kudu, true, guard.Allowed, ""},
		{"tenant area other tenant", "/mash/orders", kudu, true, guard.DeniedToTenantLogin, "/mash/login"},
		{"tenant area case differs", "/Kudu-Restaurant/orders", kudu, true, guard.DeniedToTenantLogin, "/Kudu-Restaurant/login"},
		{"tenant area prefix", "/kudu/orders", kudu, true, guard.DeniedToTenantLogin, "/kudu/login"},
		{"tenant area expired", "/kudu-restaurant", expiredKudu, true, guard.DeniedToTenantLogin, "/kudu-restaurant/login"},
		{"tenant area admin", "/kudu-restaurant", admin, true, guard.DeniedToTenantLogin, "/kudu-restaurant/login"},
		{"tenant area admin with stray scope", "/mash", adminWithStrayScope, true, guard.DeniedToTenantLogin, "/mash/login"},
		{"not ok ignores session", "/kudu-restaurant", kudu, false, guard.DeniedToTenantLogin, "/kudu-restaurant/login"},
		{"reserved segment", "/api", admin, true, guard.DeniedToAdminLogin, "/"},
		{"malformed path", "/mash/../dashboard", admin, true, guard.DeniedToAdminLogin, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := guard.Authorize(tenants.Resolve(tt.path), tt.session, tt.ok, now)
			require.Equal(t, tt.verdict, d.Verdict, d.Verdict.String())
			require.Equal(t, tt.redirect, d.RedirectTo)
			require.Equal(t, tt.verdict == guard.Allowed, d.Allowed())
		})
	}
}

func TestAuthorize_DistinctTenantsRedirectToTarget(t *testing.T) {
	ids := []string{"al-rajhi-markets", "kudu-restaurant", "mash", "Mash", "mash2"}
	for _, a := range ids {
		for _, b := range ids {
			if a == b {
				continue
			}
			d := guard.Authorize(tenants.Resolve("/"+b+"/orders"), session(sessions.RoleMerchant, a), true, now)
			require.Equal(t, guard.DeniedToTenantLogin, d.Verdict, "%s -> %s", a, b)
			require.Equal(t, "/"+b+"/login", d.RedirectTo)
		}
	}
}

type countingReader struct {
	store *sessions.Store
	reads int
}

func (r *countingReader) Load(ctx context.Context) (sessions.Session, bool) {
	r.reads++
	return r.store.Load(ctx)
}

func TestGuard_Scenarios(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return now }

	repo := fakecredentialrepo.NewFakeCredentialRepo()
	require.NoError(t, credentials.Seed(ctx, repo, bcrypt.MinCost))
	issuer, err := token.NewIssuer([]byte("secret"), "merchant-portal", nil, clock)
	require.NoError(t, err)
	gateway := fixturegateway.New(repo, issuer, fixturegateway.WithNowFunc(clock))

	store := sessions.NewStore(storage.NewInMemory(), sessions.WithClock(clock))
	reader := &countingReader{store: store}
	g := guard.New(clock)

	t.Run("admin cannot enter a tenant area", func(t *testing.T) {
		s, err := gateway.Authenticate(ctx, "", "geidea_admin", "Geidea@2025!")
		require.NoError(t, err)
		require.Equal(t, sessions.RoleAdmin, s.Role)
		require.NoError(t, store.Save(ctx, s))

		require.True(t, g.Evaluate(ctx, "/dashboard/merchants", reader).Allowed())

		d := g.Evaluate(ctx, "/kudu-restaurant", reader)
		require.Equal(t, guard.DeniedToTenantLogin, d.Verdict)
		require.Equal(t, "/kudu-restaurant/login", d.RedirectTo)
	})

	t.Run("merchant is bound to its tenant", func(t *testing.T) {
		s, err := gateway.Authenticate(ctx, "kudu-restaurant", "kudu_admin", "Kudu@2025!")
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, s))

		require.True(t, g.Evaluate(ctx, "/kudu-restaurant/orders", reader).Allowed())

		d := g.Evaluate(ctx, "/mash/orders", reader)
		require.Equal(t, guard.DeniedToTenantLogin, d.Verdict)
		require.Equal(t, "/mash/login", d.RedirectTo)

		d = g.Evaluate(ctx, "/dashboard", reader)
		require.Equal(t, guard.DeniedToAdminLogin, d.Verdict)
	})

	t.Run("verdicts follow logout", func(t *testing.T) {
		require.True(t, g.Evaluate(ctx, "/kudu-restaurant", reader).Allowed())
		store.Clear(ctx)
		require.False(t, g.Evaluate(ctx, "/kudu-restaurant", reader).Allowed())
	})

	t.Run("public pages skip the store", func(t *testing.T) {
		before := reader.reads
		require.True(t, g.Evaluate(ctx, "/mash/login", reader).Allowed())
		require.True(t, g.Evaluate(ctx, "/", reader).Allowed())
		require.Equal(t, before, reader.reads)
	})
}
