package sessions

import (
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
)

// Role identifies the kind of principal a session belongs to.
type Role string

const (
	RoleAdmin    Role = "admin"    // Back-office operator, admin area only
	RoleMerchant Role = "merchant" // Merchant operator, bound to exactly one tenant
)

// Session is the persisted record of an authenticated principal.
// Sessions are values: they are replaced on login/logout, never edited in place.
type Session struct {
	Role        Role      `json:"role"`
	DisplayName string    `json:"name"`
	TenantScope string    `json:"merchantSubdomain,omitempty"` // Only meaningful for RoleMerchant
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Token       string    `json:"token"` // Opaque credential forwarded to the backend
}

// Expired reports whether the session's validity window has passed at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsAdmin reports whether the session has the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// IsMerchant reports whether the session has the merchant-operator role.
func (s Session) IsMerchant() bool {
	return s.Role == RoleMerchant
}

// Scope returns the tenant the session is bound to. Admin sessions have none.
func (s Session) Scope() string {
	if s.Role != RoleMerchant {
		return ""
	}
	return s.TenantScope
}

// Validate checks the fields every persisted session must carry.
func (s Session) Validate() error {
	switch s.Role {
	case RoleAdmin:
	case RoleMerchant:
		if s.TenantScope == "" {
			return fmt.Errorf("merchant session without tenant scope: %w", apperrors.ErrIncompleteSession)
		}
	default:
		return fmt.Errorf("unknown role %q: %w", s.Role, apperrors.ErrIncompleteSession)
	}
	if s.Token == "" {
		return fmt.Errorf("missing token: %w", apperrors.ErrIncompleteSession)
	}
	if s.ExpiresAt.IsZero() {
		return fmt.Errorf("missing expiry: %w", apperrors.ErrIncompleteSession)
	}
	return nil
}

// Redacted returns a copy without the token, safe to hand to a UI.
func (s Session) Redacted() Session {
	s.Token = ""
	return s
}
