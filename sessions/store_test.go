package sessions_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/jrsteele09/merchant-portal/sessions/storage"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func merchantSession(tenant string) sessions.Session {
	return sessions.Session{
		Role:        sessions.RoleMerchant,
		DisplayName: "Kudu Restaurant",
		TenantScope: tenant,
		IssuedAt:    baseTime,
		ExpiresAt:   baseTime.Add(8 * time.Hour),
		Token:       "token-" + tenant,
	}
}

func adminSession() sessions.Session {
	return sessions.Session{
		Role:        sessions.RoleAdmin,
		DisplayName: "Geidea Admin",
		IssuedAt:    baseTime,
		ExpiresAt:   baseTime.Add(8 * time.Hour),
		Token:       "token-admin",
	}
}

func newStore(t *testing.T) (*sessions.Store, *storage.InMemory, *clock) {
	t.Helper()
	c := &clock{now: baseTime}
	backend := storage.NewInMemory()
	return sessions.NewStore(backend, sessions.WithClock(c.Now)), backend, c
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()

	for _, s := range []sessions.Session{adminSession(), merchantSession("kudu-restaurant")} {
		store, _, _ := newStore(t)
		require.NoError(t, store.Save(ctx, s))

		got, ok := store.Load(ctx)
		require.True(t, ok)
		require.True(t, s.ExpiresAt.Equal(got.ExpiresAt))
		require.True(t, s.IssuedAt.Equal(got.IssuedAt))
		got.ExpiresAt, got.IssuedAt = s.ExpiresAt, s.IssuedAt
		require.Equal(t, s, got)
	}
}

func TestStore_SaveReplacesPrior(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStore(t)

	require.NoError(t, store.Save(ctx, merchantSession("kudu-restaurant")))
	require.Equal(t, "kudu-restaurant", store.ActiveTenant(ctx))

	require.NoError(t, store.Save(ctx, adminSession()))
	got, ok := store.Load(ctx)
	require.True(t, ok)
	require.Equal(t, sessions.RoleAdmin, got.Role)
	require.Empty(t, store.ActiveTenant(ctx))
}

func TestStore_SaveRejectsIncomplete(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStore(t)

	missingScope := merchantSession("")
	require.ErrorIs(t, store.Save(ctx, missingScope), apperrors.ErrIncompleteSession)

	missingToken := adminSession()
	missingToken.Token = ""
	require.ErrorIs(t, store.Save(ctx, missingToken), apperrors.ErrIncompleteSession)

	_, ok := store.Load(ctx)
	require.False(t, ok)
}

func TestStore_LazyExpiry(t *testing.T) {
	ctx := context.Background()
	store, backend, c := newStore(t)
	require.NoError(t, store.Save(ctx, adminSession()))

	before, err := backend.Get(ctx, sessions.KeySession)
	require.NoError(t, err)

	c.now = baseTime.Add(8*time.Hour - time.Second)
	_, ok := store.Load(ctx)
	require.True(t, ok)

	c.now = baseTime.Add(8 * time.Hour)
	_, ok = store.Load(ctx)
	require.False(t, ok)

	after, err := backend.Get(ctx, sessions.KeySession)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newStore(t)
	require.NoError(t, store.Save(ctx, merchantSession("mash")))

	store.Clear(ctx)
	_, ok := store.Load(ctx)
	require.False(t, ok)

	store.Clear(ctx)
	_, ok = store.Load(ctx)
	require.False(t, ok)

	_, err := backend.Get(ctx, sessions.KeyActiveTenant)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_MalformedIsClearedSilently(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("{corrupted")},
		{"wrong shape", []byte(`["admin"]`)},
		{"unknown role", []byte(`{"role":"root","token":"t","expiresAt":"2099-01-01T00:00:00Z"}`)},
		{"merchant without scope", []byte(`{"role":"merchant","token":"t","expiresAt":"2099-01-01T00:00:00Z"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, backend, _ := newStore(t)
			require.NoError(t, backend.Set(ctx, sessions.KeySession, tt.data))
			require.NoError(t, backend.Set(ctx, sessions.KeyActiveTenant, []byte("mash")))

			_, ok := store.Load(ctx)
			require.False(t, ok)

			_, err := backend.Get(ctx, sessions.KeySession)
			require.ErrorIs(t, err, apperrors.ErrNotFound)
			_, err = backend.Get(ctx, sessions.KeyActiveTenant)
			require.ErrorIs(t, err, apperrors.ErrNotFound)
		})
	}
}

type unavailableStorage struct{}

func (unavailableStorage) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage disabled")
}

func (unavailableStorage) Set(context.Context, string, []byte) error {
	return errors.New("storage disabled")
}

func (unavailableStorage) Delete(context.Context, string) error {
	return errors.New("storage disabled")
}

func TestStore_UnavailableStorageFailsClosed(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewStore(unavailableStorage{})

	require.Error(t, store.Save(ctx, adminSession()))
	_, ok := store.Load(ctx)
	require.False(t, ok)
	store.Clear(ctx)
	require.Empty(t, store.ActiveTenant(ctx))
}

func TestSession_Scope(t *testing.T) {
	admin := adminSession()
	admin.TenantScope = "kudu-restaurant"
	require.Empty(t, admin.Scope())

	require.Equal(t, "mash", merchantSession("mash").Scope())
	require.Empty(t, merchantSession("mash").Redacted().Token)
}

// failingKeyStorage is an in-memory storage whose writes to one key fail.
type failingKeyStorage struct {
	*storage.InMemory
	failKey string
}

func (f failingKeyStorage) Set(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.InMemory.Set(ctx, key, value)
}

func (f failingKeyStorage) Delete(ctx context.Context, key string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.InMemory.Delete(ctx, key)
}

func TestStore_PartialSaveLeavesNoSession(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		failKey string
		session sessions.Session
	}{
		{"merchant, active tenant write fails", sessions.KeyActiveTenant, merchantSession("kudu-restaurant")},
		{"admin, active tenant delete fails", sessions.KeyActiveTenant, adminSession()},
		{"session write fails", sessions.KeySession, merchantSession("mash")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := failingKeyStorage{InMemory: storage.NewInMemory(), failKey: tt.failKey}
			store := sessions.NewStore(backend, sessions.WithClock(func() time.Time { return baseTime }))

			err := store.Save(ctx, tt.session)
			require.ErrorIs(t, err, apperrors.ErrSessionUnavailable)

			_, ok := store.Load(ctx)
			require.False(t, ok)
			_, err = backend.Get(ctx, sessions.KeySession)
			require.ErrorIs(t, err, apperrors.ErrNotFound)
		})
	}
}

func TestStore_FailedSaveDropsPriorSession(t *testing.T) {
	ctx := context.Background()
	backend := failingKeyStorage{InMemory: storage.NewInMemory()}
	store := sessions.NewStore(backend, sessions.WithClock(func() time.Time { return baseTime }))
	require.NoError(t, store.Save(ctx, adminSession()))

	backend.failKey = sessions.KeyActiveTenant
	store = sessions.NewStore(backend, sessions.WithClock(func() time.Time { return baseTime }))
	require.ErrorIs(t, store.Save(ctx, merchantSession("kudu-restaurant")), apperrors.ErrSessionUnavailable)

	_, ok := store.Load(ctx)
	require.False(t, ok)
}
