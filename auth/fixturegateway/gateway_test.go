package fixturegateway_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/merchant-portal/auth/fixturegateway"
	"github.com/jrsteele09/merchant-portal/credentials"
	fakecredentialrepo "github.com/jrsteele09/merchant-portal/credentials/repofake"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/jrsteele09/merchant-portal/token"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newGateway(t *testing.T) *fixturegateway.Gateway {
	t.Helper()
	repo := fakecredentialrepo.NewFakeCredentialRepo()
	require.NoError(t, credentials.Seed(context.Background(), repo, bcrypt.MinCost))

	nowFunc := func() time.Time { return baseTime }
	issuer, err := token.NewIssuer([]byte("test-secret"), "merchant-portal", nil, nowFunc)
	require.NoError(t, err)
	return fixturegateway.New(repo, issuer, fixturegateway.WithNowFunc(nowFunc))
}

func TestAuthenticate_Admin(t *testing.T) {
	g := newGateway(t)

	s, err := g.Authenticate(context.Background(), "", "geidea_admin", "Geidea@2025!")
	require.NoError(t, err)
	require.Equal(t, sessions.RoleAdmin, s.Role)
	require.Equal(t, "Geidea Admin", s.DisplayName)
	require.Empty(t, s.TenantScope)
	require.Equal(t, baseTime, s.IssuedAt)
	require.Equal(t, baseTime.Add(8*time.Hour), s.ExpiresAt)
	require.NotEmpty(t, s.Token)
	require.NoError(t, s.Validate())
}

func TestAuthenticate_Merchants(t *testing.T) {
	g := newGateway(t)

	tests := []struct {
		tenant   string
		username string
		password string
	}{
		{"al-rajhi-markets", "alrajhi_admin", "AlRajhi@2025!"},
		{"kudu-restaurant", "kudu_admin", "Kudu@2025!"},
		{"mash", "mash_admin", "Mash@2025!"},
	}
	for _, tt := range tests {
		t.Run(tt.tenant, func(t *testing.T) {
			s, err := g.Authenticate(context.Background(), tt.tenant, tt.username, tt.password)
			require.NoError(t, err)
			require.Equal(t, sessions.RoleMerchant, s.Role)
			require.Equal(t, tt.tenant, s.TenantScope)

			claims, err := g.Verify(s.Token)
			require.NoError(t, err)
			require.Equal(t, tt.tenant, claims.Tenant)
		})
	}
}

func TestAuthenticate_FailuresAreGeneric(t *testing.T) {
	g := newGateway(t)

	tests := []struct {
		name     string
		tenant   string
		username string
		password string
	}{
		{"wrong password", "mash", "mash_admin", "wrong"},
		{"wrong username", "mash", "someone", "Mash@2025!"},
		{"unknown tenant", "no-such-tenant", "mash_admin", "Mash@2025!"},
		{"tenant case differs", "Mash", "mash_admin", "Mash@2025!"},
		{"tenant prefix", "mas", "mash_admin", "Mash@2025!"},
		{"other tenant's login", "kudu-restaurant", "mash_admin", "Mash@2025!"},
		{"admin login at tenant", "mash", "geidea_admin", "Geidea@2025!"},
		{"tenant login as admin", "", "mash_admin", "Mash@2025!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Authenticate(context.Background(), tt.tenant, tt.username, tt.password)
			require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
			require.NotErrorIs(t, err, apperrors.ErrGatewayUnreachable)
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	g := newGateway(t)
	ctx := context.Background()

	s, err := g.Authenticate(ctx, "kudu-restaurant", "kudu_admin", "Kudu@2025!")
	require.NoError(t, err)

	require.NoError(t, g.Logout(ctx, s.Token))
	_, err = g.Verify(s.Token)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	require.NoError(t, g.Logout(ctx, s.Token))
	require.NoError(t, g.Logout(ctx, "garbage"))
}
