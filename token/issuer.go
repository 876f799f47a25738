package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
)

// Claims is the payload of a portal session token.
type Claims struct {
	jwtlib.RegisteredClaims
	Role   sessions.Role `json:"rol"`
	Name   string        `json:"name,omitempty"`
	Tenant string        `json:"tenant,omitempty"`
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret  []byte
	issuer  string
	revoked RevokedTokenCache
	nowFunc func() time.Time
}

// NewIssuer creates an Issuer. An empty secret is replaced by 32 random bytes,
// which means tokens do not survive a restart.
func NewIssuer(secret []byte, issuer string, revoked RevokedTokenCache, nowFunc func() time.Time) (*Issuer, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("[token NewIssuer] generate secret: %w", err)
		}
	}
	if nowFunc == nil {
		nowFunc = time.Now
	}
	if revoked == nil {
		revoked = NewInMemoryRevokedTokenCache(nowFunc)
	}
	return &Issuer{secret: secret, issuer: issuer, revoked: revoked, nowFunc: nowFunc}, nil
}

// Issue signs a token describing the session's principal and validity window.
func (i *Issuer) Issue(role sessions.Role, name, tenant string, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    i.issuer,
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		},
		Role:   role,
		Name:   name,
		Tenant: tenant,
	}
	if role == sessions.RoleMerchant {
		claims.Subject = tenant
	} else {
		claims.Subject = string(role)
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("[token Issue] failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, expiry and revocation of a token.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(tokenString, claims, func(t *jwtlib.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(i.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(i.nowFunc),
	)
	if errors.Is(err, jwtlib.ErrTokenExpired) {
		return nil, apperrors.ErrTokenExpired
	}
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "%v", err)
	}
	if i.revoked.IsRevoked(claims.ID) {
		return nil, apperrors.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke marks a verified token as unusable until it would have expired anyway.
func (i *Issuer) Revoke(claims *Claims) error {
	i.revoked.Cleanup()
	return i.revoked.Add(claims.ID, claims.ExpiresAt.Time)
}
