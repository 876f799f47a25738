package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/rs/zerolog/log"
)

// Service runs the login and logout flows on top of a Gateway.
type Service struct {
	gateway Gateway
}

func NewService(gateway Gateway) (*Service, error) {
	if gateway == nil {
		return nil, errors.New("[auth NewService] gateway is required")
	}
	return &Service{gateway: gateway}, nil
}

// Login authenticates against the gateway and saves the resulting session into store.
// If ctx is done by the time the gateway answers, the answer is discarded and
// nothing is saved, so an abandoned login cannot overwrite a newer state.
func (s *Service) Login(ctx context.Context, store SessionStore, tenantID, username, password string) (sessions.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return sessions.Session{}, ErrEmptyCredentials
	}

	session, err := s.gateway.Authenticate(ctx, tenantID, username, password)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return sessions.Session{}, fmt.Errorf("%w: %w", ErrStaleResponse, ctxErr)
	}
	if err != nil {
		logger := log.Info()
		if Retryable(err) {
			logger = log.Warn()
		}
		logger.Err(err).Str("tenant", tenantID).Msg("login failed")
		return sessions.Session{}, err
	}

	if err := store.Save(ctx, session); err != nil {
		log.Warn().Err(err).Str("tenant", tenantID).Msg("login succeeded but the session could not be stored")
		return sessions.Session{}, fmt.Errorf("[auth Login] %w", err)
	}
	log.Info().Str("role", string(session.Role)).Str("tenant", session.Scope()).Msg("login succeeded")
	return session, nil
}

// Logout tells the gateway the token is finished and clears store.
// The store is cleared even when the gateway call fails.
func (s *Service) Logout(ctx context.Context, store SessionStore) {
	if session, ok := store.Load(ctx); ok {
		if err := s.gateway.Logout(ctx, session.Token); err != nil {
			log.Warn().Err(err).Msg("gateway logout failed, clearing local session anyway")
		}
	}
	store.Clear(ctx)
}
