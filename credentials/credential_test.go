package credentials_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/merchant-portal/credentials"
	fakecredentialrepo "github.com/jrsteele09/merchant-portal/credentials/repofake"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewRecord(t *testing.T) {
	admin, err := credentials.NewRecord(credentials.AdminTenantID, "Geidea Admin", "geidea_admin", "Geidea@2025!", bcrypt.MinCost)
	require.NoError(t, err)
	require.Equal(t, sessions.RoleAdmin, admin.Role)
	require.NotContains(t, admin.UsernameHash, "geidea_admin")
	require.NotContains(t, admin.PasswordHash, "Geidea@2025!")

	merchant, err := credentials.NewRecord("mash", "Mash Restaurant", "mash_admin", "Mash@2025!", bcrypt.MinCost)
	require.NoError(t, err)
	require.Equal(t, sessions.RoleMerchant, merchant.Role)
	require.Equal(t, "mash", merchant.TenantID)
}

func TestRecord_Matches(t *testing.T) {
	record, err := credentials.NewRecord("mash", "Mash Restaurant", "mash_admin", "Mash@2025!", bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, record.Matches("mash_admin", "Mash@2025!"))
	require.False(t, record.Matches("mash_admin", "mash@2025!"))
	require.False(t, record.Matches("Mash_admin", "Mash@2025!"))
	require.False(t, record.Matches("", ""))
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repo := fakecredentialrepo.NewFakeCredentialRepo()
	require.NoError(t, credentials.Seed(ctx, repo, bcrypt.MinCost))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, credentials.AdminTenantID, records[0].TenantID)

	kudu, err := repo.Get(ctx, "kudu-restaurant")
	require.NoError(t, err)
	require.True(t, kudu.Matches("kudu_admin", "Kudu@2025!"))

	_, err = repo.Get(ctx, "Kudu-Restaurant")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "kudu-restaurant"))
	_, err = repo.Get(ctx, "kudu-restaurant")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
