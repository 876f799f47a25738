package guard

import (
	"context"
	"time"

	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/jrsteele09/merchant-portal/tenants"
)

// Verdict is the outcome of one navigation attempt.
type Verdict int

const (
	Allowed Verdict = iota
	DeniedToAdminLogin
	DeniedToTenantLogin
)

func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case DeniedToAdminLogin:
		return "denied-to-admin-login"
	case DeniedToTenantLogin:
		return "denied-to-tenant-login"
	default:
		return "unknown"
	}
}

// Decision is what the caller should do with a navigation. RedirectTo is empty when allowed.
type Decision struct {
	Verdict    Verdict
	RedirectTo string
	Target     tenants.Target
}

func (d Decision) Allowed() bool {
	return d.Verdict == Allowed
}

// Authorize decides a single navigation. It has no side effects; ok is false when
// there is no session.
//
// The admin area needs a live admin session. A tenant area needs a live merchant
// session scoped to exactly that tenant; anything else is sent to that tenant's
// own login page, never to the global one.
func Authorize(target tenants.Target, session sessions.Session, ok bool, now time.Time) Decision {
	live := ok && !session.Expired(now)

	switch target.Area {
	case tenants.AreaAdminLogin, tenants.AreaTenantLogin:
		return Decision{Verdict: Allowed, Target: target}

	case tenants.AreaAdmin:
		if live && session.IsAdmin() {
			return Decision{Verdict: Allowed, Target: target}
		}
		return Decision{Verdict: DeniedToAdminLogin, RedirectTo: tenants.AdminLoginPath(), Target: target}

	case tenants.AreaTenant:
		if live && session.IsMerchant() && session.TenantScope == target.TenantID {
			return Decision{Verdict: Allowed, Target: target}
		}
		return Decision{Verdict: DeniedToTenantLogin, RedirectTo: tenants.LoginPath(target.TenantID), Target: target}
	}

	return Decision{Verdict: DeniedToAdminLogin, RedirectTo: tenants.AdminLoginPath(), Target: target}
}

// SessionReader is satisfied by *sessions.Store.
type SessionReader interface {
	Load(ctx context.Context) (sessions.Session, bool)
}

// Guard evaluates navigations against the current contents of a session store.
type Guard struct {
	nowFunc func() time.Time
}

func New(nowFunc func() time.Time) *Guard {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Guard{nowFunc: nowFunc}
}

// Evaluate resolves path and authorizes it against a fresh read of reader.
// Nothing is cached between calls.
func (g *Guard) Evaluate(ctx context.Context, path string, reader SessionReader) Decision {
	target := tenants.Resolve(path)
	if target.Public() {
		return Decision{Verdict: Allowed, Target: target}
	}
	session, ok := reader.Load(ctx)
	return Authorize(target, session, ok, g.nowFunc())
}
