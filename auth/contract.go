package auth

import (
	"time"

	"github.com/jrsteele09/merchant-portal/sessions"
)

// Paths of the backend login contract, relative to the API base.
const (
	PathAdminLogin    = "/auth/admin/login"
	PathMerchantLogin = "/auth/merchant/{subdomain}/login"
	PathLogout        = "/auth/logout"
)

// Envelope wraps every backend API response.
type Envelope[T any] struct {
	Data      T         `json:"data"`
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the data of a successful admin or merchant login.
type LoginResponse struct {
	Token             string        `json:"token"`
	Role              sessions.Role `json:"role"`
	Name              string        `json:"name"`
	MerchantSubdomain string        `json:"merchantSubdomain,omitempty"`
	ExpiresAt         time.Time     `json:"expiresAt"`
}

// NewLoginResponse describes session in the backend contract's terms.
func NewLoginResponse(session sessions.Session) LoginResponse {
	return LoginResponse{
		Token:             session.Token,
		Role:              session.Role,
		Name:              session.DisplayName,
		MerchantSubdomain: session.Scope(),
		ExpiresAt:         session.ExpiresAt,
	}
}

// Session converts a login response into a session issued at issuedAt.
func (r LoginResponse) Session(issuedAt time.Time) sessions.Session {
	s := sessions.Session{
		Role:        r.Role,
		DisplayName: r.Name,
		IssuedAt:    issuedAt,
		ExpiresAt:   r.ExpiresAt,
		Token:       r.Token,
	}
	if r.Role == sessions.RoleMerchant {
		s.TenantScope = r.MerchantSubdomain
	}
	return s
}
