package oidcgateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/merchant-portal/auth"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

var _ auth.Gateway = (*Gateway)(nil)

// TenantPlaceholder is replaced by the tenant id in Config.TenantIssuerTemplate.
const TenantPlaceholder = "{tenant}"

type Config struct {
	AdminIssuer          string // e.g. "https://idp.example.com/realms/admin"
	TenantIssuerTemplate string // e.g. "https://idp.example.com/realms/{tenant}"
	ClientID             string
	ClientSecret         string
	Validity             time.Duration
}

type provider struct {
	oauth2   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// Gateway authenticates with the OAuth2 password grant against one OpenID Connect
// issuer for the admin and one issuer per tenant.
type Gateway struct {
	config     Config
	httpClient *http.Client
	nowFunc    func() time.Time

	providers     map[string]*provider // issuer URL -> provider
	providersLock sync.RWMutex
}

type Option func(*Gateway)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = httpClient
	}
}

func WithNowFunc(nowFunc func() time.Time) Option {
	return func(g *Gateway) {
		g.nowFunc = nowFunc
	}
}

func New(config Config, options ...Option) (*Gateway, error) {
	if config.AdminIssuer == "" {
		return nil, errors.New("[oidcgateway New] admin issuer is required")
	}
	if !strings.Contains(config.TenantIssuerTemplate, TenantPlaceholder) {
		return nil, fmt.Errorf("[oidcgateway New] tenant issuer template must contain %s", TenantPlaceholder)
	}
	if config.Validity <= 0 {
		config.Validity = 8 * time.Hour
	}
	g := &Gateway{
		config:     config,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		nowFunc:    time.Now,
		providers:  make(map[string]*provider),
	}
	for _, opt := range options {
		opt(g)
	}
	g.httpClient = withUpstreamStatus(g.httpClient)
	return g, nil
}

// upstreamStatusTransport reports 5xx answers from the identity provider as transport
// failures, so an outage during discovery or key fetches reads as unreachable.
type upstreamStatusTransport struct {
	base http.RoundTripper
}

func (t upstreamStatusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("identity provider answered %s", resp.Status)
	}
	return resp, nil
}

func withUpstreamStatus(client *http.Client) *http.Client {
	wrapped := *client
	base := wrapped.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped.Transport = upstreamStatusTransport{base: base}
	return &wrapped
}

func (g *Gateway) issuerFor(tenantID string) string {
	if tenantID == "" {
		return g.config.AdminIssuer
	}
	return strings.ReplaceAll(g.config.TenantIssuerTemplate, TenantPlaceholder, url.PathEscape(tenantID))
}

func (g *Gateway) Authenticate(ctx context.Context, tenantID, username, password string) (sessions.Session, error) {
	ctx = oidc.ClientContext(ctx, g.httpClient)

	p, err := g.provider(ctx, g.issuerFor(tenantID))
	if err != nil {
		if isNetworkError(err) {
			return sessions.Session{}, fmt.Errorf("[oidcgateway Authenticate] %v: %w", err, apperrors.ErrGatewayUnreachable)
		}
		// No issuer for this tenant is the same as no credential record.
		// Outages arrive as *url.Error and were handled above.
		log.Debug().Err(err).Str("tenant", tenantID).Msg("oidc discovery failed")
		return sessions.Session{}, apperrors.ErrInvalidCredentials
	}

	tok, err := p.oauth2.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return sessions.Session{}, classifyTokenError(err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		return sessions.Session{}, fmt.Errorf("[oidcgateway Authenticate] no id_token in token response: %w", apperrors.ErrGatewayUnreachable)
	}
	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		if isNetworkError(err) {
			return sessions.Session{}, fmt.Errorf("[oidcgateway Authenticate] %v: %w", err, apperrors.ErrGatewayUnreachable)
		}
		return sessions.Session{}, fmt.Errorf("[oidcgateway Authenticate] id token: %v: %w", err, apperrors.ErrInvalidCredentials)
	}

	var claims struct {
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return sessions.Session{}, fmt.Errorf("[oidcgateway Authenticate] claims: %v: %w", err, apperrors.ErrInvalidCredentials)
	}

	now := g.nowFunc()
	session := sessions.Session{
		Role:        sessions.RoleAdmin,
		DisplayName: claims.Name,
		IssuedAt:    now,
		ExpiresAt:   now.Add(g.config.Validity),
		Token:       tok.AccessToken,
	}
	if session.DisplayName == "" {
		session.DisplayName = claims.PreferredUsername
	}
	if tenantID != "" {
		session.Role = sessions.RoleMerchant
		session.TenantScope = tenantID
	}
	return session, nil
}

// Logout is a no-op: the issued access tokens are short-lived and the password grant
// gives no refresh token worth revoking.
func (g *Gateway) Logout(_ context.Context, _ string) error {
	return nil
}

func (g *Gateway) provider(ctx context.Context, issuer string) (*provider, error) {
	g.providersLock.RLock()
	p, exists := g.providers[issuer]
	g.providersLock.RUnlock()
	if exists {
		return p, nil
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	p = &provider{
		oauth2: &oauth2.Config{
			ClientID:     g.config.ClientID,
			ClientSecret: g.config.ClientSecret,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile"},
		},
		verifier: oidcProvider.Verifier(&oidc.Config{
			ClientID: g.config.ClientID,
			Now:      g.nowFunc,
		}),
	}
	g.providersLock.Lock()
	g.providers[issuer] = p
	g.providersLock.Unlock()

	return p, nil
}

func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
		retrieveErr.Response.StatusCode < http.StatusInternalServerError {
		return fmt.Errorf("[oidcgateway Authenticate] %s: %w", retrieveErr.ErrorCode, apperrors.ErrInvalidCredentials)
	}
	return fmt.Errorf("[oidcgateway Authenticate] token request: %v: %w", err, apperrors.ErrGatewayUnreachable)
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
