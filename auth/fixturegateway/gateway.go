package fixturegateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/merchant-portal/auth"
	"github.com/jrsteele09/merchant-portal/credentials"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/jrsteele09/merchant-portal/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var _ auth.Gateway = (*Gateway)(nil)

// DefaultValidity is how long an issued session stays valid.
const DefaultValidity = 8 * time.Hour

// Gateway authenticates against credential records held in-process and signs its own session tokens.
type Gateway struct {
	records  credentials.Repo
	issuer   *token.Issuer
	validity time.Duration
	nowFunc  func() time.Time
}

type Option func(*Gateway)

// WithNowFunc sets the clock used for issuedAt/expiresAt (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(g *Gateway) {
		g.nowFunc = nowFunc
	}
}

// WithValidity overrides DefaultValidity.
func WithValidity(validity time.Duration) Option {
	return func(g *Gateway) {
		if validity > 0 {
			g.validity = validity
		}
	}
}

func New(records credentials.Repo, issuer *token.Issuer, options ...Option) *Gateway {
	g := &Gateway{
		records:  records,
		issuer:   issuer,
		validity: DefaultValidity,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *Gateway) Authenticate(ctx context.Context, tenantID, username, password string) (sessions.Session, error) {
	record, err := g.records.Get(ctx, tenantID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return sessions.Session{}, fmt.Errorf("[fixturegateway Authenticate] %v: %w", err, apperrors.ErrGatewayUnreachable)
		}
		// Spend the same bcrypt time as a real mismatch so unknown tenants are not distinguishable.
		credentials.CheckPasswordHash(password, dummyHash())
		return sessions.Session{}, apperrors.ErrInvalidCredentials
	}

	if record.TenantID != tenantID || !record.Matches(username, password) {
		return sessions.Session{}, apperrors.ErrInvalidCredentials
	}

	now := g.nowFunc()
	session := sessions.Session{
		Role:        record.Role,
		DisplayName: record.DisplayName,
		IssuedAt:    now,
		ExpiresAt:   now.Add(g.validity),
	}
	if record.Role == sessions.RoleMerchant {
		session.TenantScope = record.TenantID
	}

	session.Token, err = g.issuer.Issue(session.Role, session.DisplayName, session.TenantScope, session.IssuedAt, session.ExpiresAt)
	if err != nil {
		return sessions.Session{}, fmt.Errorf("[fixturegateway Authenticate] %w", err)
	}
	return session, nil
}

// Logout revokes the token. Tokens that are already invalid are ignored.
func (g *Gateway) Logout(_ context.Context, tokenString string) error {
	claims, err := g.issuer.Verify(tokenString)
	if err != nil {
		log.Debug().Err(err).Msg("logout with unusable token")
		return nil
	}
	if err := g.issuer.Revoke(claims); err != nil {
		return fmt.Errorf("[fixturegateway Logout] %w", err)
	}
	return nil
}

// Verify returns the claims of a live token issued by this gateway.
func (g *Gateway) Verify(tokenString string) (*token.Claims, error) {
	return g.issuer.Verify(tokenString)
}

var dummyHash = sync.OnceValue(func() string {
	hash, err := credentials.HashPassword("not-a-real-password", bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return hash
})
