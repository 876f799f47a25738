package config

import (
	"fmt"
	"time"
)

// Gateway modes select the Auth Gateway implementation.
const (
	GatewayModeFixture = "fixture"
	GatewayModeHTTP    = "http"
	GatewayModeOIDC    = "oidc"
)

type AuthConfig interface {
	GetGatewayMode() string
	GetGatewayURL() string
	GetGatewayTimeout() time.Duration
	GetSessionValidity() time.Duration
	GetTokenSecret() string
	GetOIDCAdminIssuer() string
	GetOIDCTenantIssuerTemplate() string
	GetOIDCClientID() string
	GetOIDCClientSecret() string
	GetLoginRateLimit() float64
	GetLoginRateBurst() int
}

type Auth struct {
	GatewayMode     string        `env:"GATEWAY_MODE" envDefault:"fixture"`
	GatewayURL      string        `env:"GATEWAY_URL" envDefault:"http://localhost:5000/api"`
	GatewayTimeout  time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
	SessionValidity time.Duration `env:"SESSION_VALIDITY" envDefault:"8h"`
	TokenSecret     string        `env:"TOKEN_SECRET"`

	OIDCAdminIssuer          string `env:"OIDC_ADMIN_ISSUER"`
	OIDCTenantIssuerTemplate string `env:"OIDC_TENANT_ISSUER_TEMPLATE"`
	OIDCClientID             string `env:"OIDC_CLIENT_ID" envDefault:"merchant-portal"`
	OIDCClientSecret         string `env:"OIDC_CLIENT_SECRET"`

	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT" envDefault:"1"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST" envDefault:"5"`
}

var _ AuthConfig = Auth{}

func (a Auth) validate() error {
	switch a.GatewayMode {
	case GatewayModeFixture, GatewayModeHTTP:
	case GatewayModeOIDC:
		if a.OIDCAdminIssuer == "" || a.OIDCTenantIssuerTemplate == "" {
			return fmt.Errorf("GATEWAY_MODE=oidc requires OIDC_ADMIN_ISSUER and OIDC_TENANT_ISSUER_TEMPLATE")
		}
	default:
		return fmt.Errorf("unknown GATEWAY_MODE %q", a.GatewayMode)
	}
	if a.SessionValidity <= 0 {
		return fmt.Errorf("SESSION_VALIDITY must be positive")
	}
	return nil
}

func (a Auth) GetGatewayMode() string {
	return a.GatewayMode
}

func (a Auth) GetGatewayURL() string {
	return a.GatewayURL
}

func (a Auth) GetGatewayTimeout() time.Duration {
	return a.GatewayTimeout
}

// GetSessionValidity is the fixed window added to the login time to get a session's expiry.
func (a Auth) GetSessionValidity() time.Duration {
	return a.SessionValidity
}

// GetTokenSecret returns the HMAC secret for fixture-issued session tokens.
// Empty means a random secret is generated at startup.
func (a Auth) GetTokenSecret() string {
	return a.TokenSecret
}

func (a Auth) GetOIDCAdminIssuer() string {
	return a.OIDCAdminIssuer
}

// GetOIDCTenantIssuerTemplate returns an issuer URL containing a "{tenant}" placeholder.
func (a Auth) GetOIDCTenantIssuerTemplate() string {
	return a.OIDCTenantIssuerTemplate
}

func (a Auth) GetOIDCClientID() string {
	return a.OIDCClientID
}

func (a Auth) GetOIDCClientSecret() string {
	return a.OIDCClientSecret
}

// GetLoginRateLimit is the sustained login attempts per second allowed per client address.
func (a Auth) GetLoginRateLimit() float64 {
	return a.LoginRateLimit
}

func (a Auth) GetLoginRateBurst() int {
	return a.LoginRateBurst
}
