package auth

import (
	"context"

	"github.com/jrsteele09/merchant-portal/sessions"
)

// Gateway exchanges credentials for a session.
//
// An empty tenantID is an admin login. Otherwise only the credential record of that
// exact tenant is consulted. Implementations return errors wrapping
// errors.ErrInvalidCredentials for any mismatch, including unknown tenants, and
// errors.ErrGatewayUnreachable when the backing service cannot be reached.
// Implementations must never log usernames or passwords.
type Gateway interface {
	Authenticate(ctx context.Context, tenantID, username, password string) (sessions.Session, error)
	Logout(ctx context.Context, token string) error
}

// SessionStore is satisfied by *sessions.Store.
type SessionStore interface {
	Save(ctx context.Context, session sessions.Session) error
	Load(ctx context.Context) (sessions.Session, bool)
	Clear(ctx context.Context)
}
