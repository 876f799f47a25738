package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/merchant-portal/guard"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyStore stores the browser-scoped *sessions.Store
	ContextKeyStore ContextKey = "session_store"
	// ContextKeyDecision stores the guard.Decision for the current navigation
	ContextKeyDecision ContextKey = "decision"
)

// BrowserCookieName identifies a browser. It carries no authority on its own: it only
// selects which stored session record the request reads and writes.
const BrowserCookieName = "portal_sid"

const browserCookieMaxAge = 400 * 24 * 3600

// BrowserSessionMiddleware attaches the session store of the calling browser to the
// request context, issuing a new browser id when the request has none.
func (s *Server) BrowserSessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browserID := ""
		if cookie, err := r.Cookie(BrowserCookieName); err == nil {
			if id, err := uuid.Parse(cookie.Value); err == nil {
				browserID = id.String()
			}
		}
		if browserID == "" {
			browserID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     BrowserCookieName,
				Value:    browserID,
				Path:     "/",
				MaxAge:   browserCookieMaxAge,
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		store := sessions.NewStore(sessions.Scope(s.storage, "browser:"+browserID), sessions.WithClock(s.nowFunc))
		ctx := context.WithValue(r.Context(), ContextKeyStore, store)
		next(w, r.WithContext(ctx))
	}
}

func storeFromContext(ctx context.Context) *sessions.Store {
	store, _ := ctx.Value(ContextKeyStore).(*sessions.Store)
	return store
}

// RequireNavigationAuth runs the guard on every navigation and performs the redirect it asks for.
// It must be chained after BrowserSessionMiddleware.
func (s *Server) RequireNavigationAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			store := storeFromContext(r.Context())
			if store == nil {
				log.Error().Msg("navigation without a session store, denying")
				redirect(w, r, "/")
				return
			}

			decision := s.guard.Evaluate(r.Context(), r.URL.Path, store)
			if !decision.Allowed() {
				log.Debug().
					Str("path", r.URL.Path).
					Stringer("verdict", decision.Verdict).
					Str("redirect", decision.RedirectTo).
					Msg("navigation denied")
				redirect(w, r, decision.RedirectTo)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyDecision, decision)
			next(w, r.WithContext(ctx))
		}
	}
}

func decisionFromContext(ctx context.Context) (guard.Decision, bool) {
	decision, ok := ctx.Value(ContextKeyDecision).(guard.Decision)
	return decision, ok
}

// redirect helper for htmx-aware redirects
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
