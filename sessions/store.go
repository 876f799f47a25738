package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/rs/zerolog/log"
)

// Store is the single source of truth for who is logged in, with what scope, until when.
// Writes replace the prior value (last write wins); reads never block on writers.
type Store struct {
	storage Storage
	now     func() time.Time
}

type StoreOption func(*Store)

// WithClock overrides the clock used for the lazy expiry check.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists session, replacing any prior one. When storage fails part way
// the session is cleared so a failed save never leaves a usable record behind.
func (s *Store) Save(ctx context.Context, session Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("[sessions Save] %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[sessions Save] marshal: %w", err)
	}
	if err := s.storage.Set(ctx, KeySession, data); err != nil {
		s.Clear(ctx)
		return fmt.Errorf("[sessions Save] write session: %v: %w", err, apperrors.ErrSessionUnavailable)
	}

	if session.IsMerchant() {
		err = s.storage.Set(ctx, KeyActiveTenant, []byte(session.TenantScope))
	} else {
		err = s.deleteKey(ctx, KeyActiveTenant)
	}
	if err != nil {
		s.Clear(ctx)
		return fmt.Errorf("[sessions Save] write active tenant: %v: %w", err, apperrors.ErrSessionUnavailable)
	}
	return nil
}

// Load returns the current session. It reports false when there is no session,
// when the stored record is malformed (which also clears storage), when the
// session has expired, or when storage cannot be read.
func (s *Store) Load(ctx context.Context) (Session, bool) {
	data, err := s.storage.Get(ctx, KeySession)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			log.Warn().Err(err).Msg("session storage unavailable, treating as logged out")
		}
		return Session{}, false
	}

	session, err := decode(data)
	if err != nil {
		log.Debug().Err(err).Msg("discarding stored session")
		s.Clear(ctx)
		return Session{}, false
	}

	if session.Expired(s.now()) {
		return Session{}, false
	}
	return session, true
}

// Clear removes the session unconditionally. It is idempotent.
func (s *Store) Clear(ctx context.Context) {
	for _, key := range []string{KeySession, KeyActiveTenant} {
		if err := s.deleteKey(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to clear session storage")
		}
	}
}

// ActiveTenant returns the redundant copy of the active tenant id, for display lookups only.
// Authorization must use Session.TenantScope instead.
func (s *Store) ActiveTenant(ctx context.Context) string {
	data, err := s.storage.Get(ctx, KeyActiveTenant)
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *Store) deleteKey(ctx context.Context, key string) error {
	err := s.storage.Delete(ctx, key)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return nil
}

func decode(data []byte) (Session, error) {
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedSession, err)
	}
	if err := session.Validate(); err != nil {
		return Session{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedSession, err)
	}
	return session, nil
}
