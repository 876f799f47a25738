package pgrepo_test

import (
	"context"
	"os"
	"testing"

	"github.com/jrsteele09/merchant-portal/credentials"
	"github.com/jrsteele09/merchant-portal/credentials/pgrepo"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRepo_Integration(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_TEST_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_TEST_URL not set")
	}
	ctx := context.Background()

	repo, err := pgrepo.Connect(ctx, databaseURL)
	require.NoError(t, err)
	defer repo.Close()

	record, err := credentials.NewRecord("pg-test-tenant", "PG Test", "pg_user", "Pg@2025!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, record))
	t.Cleanup(func() { _ = repo.Delete(ctx, "pg-test-tenant") })

	got, err := repo.Get(ctx, "pg-test-tenant")
	require.NoError(t, err)
	require.Equal(t, record.Role, got.Role)
	require.True(t, got.Matches("pg_user", "Pg@2025!"))

	record.DisplayName = "Renamed"
	require.NoError(t, repo.Upsert(ctx, record))
	got, err = repo.Get(ctx, "pg-test-tenant")
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.DisplayName)

	require.NoError(t, repo.Delete(ctx, "pg-test-tenant"))
	_, err = repo.Get(ctx, "pg-test-tenant")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
