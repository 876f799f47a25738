package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/merchant-portal/auth"
	"github.com/jrsteele09/merchant-portal/tenants"
	"github.com/rs/zerolog/log"
)

const maxRequestBody = 1 << 20

func writeEnvelope[T any](w http.ResponseWriter, status int, envelope auth.Envelope[T]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, auth.Envelope[any]{Message: message, Timestamp: s.nowFunc().UTC()})
}

// BackendLoginHandler serves the admin and merchant login endpoints of the backend contract.
func (s *Server) BackendLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.PathValue("subdomain")

		if !s.limiter.Allow(clientAddress(r)) {
			s.fail(w, http.StatusTooManyRequests, messageTooManyAttempts)
			return
		}

		var req auth.LoginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
			s.fail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Username) == "" || req.Password == "" {
			s.fail(w, http.StatusBadRequest, auth.MessageEmptyCredentials)
			return
		}
		if tenantID != "" && !tenants.ValidID(tenantID) {
			s.fail(w, http.StatusUnauthorized, auth.MessageInvalidCredentials)
			return
		}

		session, err := s.backend.Authenticate(r.Context(), tenantID, req.Username, req.Password)
		if err != nil {
			s.fail(w, loginFailureStatus(err), auth.UserMessage(err))
			return
		}

		writeEnvelope(w, http.StatusOK, auth.Envelope[auth.LoginResponse]{
			Data:      auth.NewLoginResponse(session),
			Success:   true,
			Timestamp: s.nowFunc().UTC(),
		})
	}
}

// BackendLogoutHandler acknowledges a logout for the bearer token. Unknown tokens are acknowledged too.
func (s *Server) BackendLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			s.fail(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		if err := s.backend.Logout(r.Context(), token); err != nil {
			log.Warn().Err(err).Msg("backend logout failed")
		}
		writeEnvelope(w, http.StatusOK, auth.Envelope[any]{Success: true, Timestamp: s.nowFunc().UTC()})
	}
}

// SessionAPIHandler returns the calling browser's session without its token.
func (s *Server) SessionAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := storeFromContext(r.Context()).Load(r.Context())
		if !ok {
			s.fail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeEnvelope(w, http.StatusOK, auth.Envelope[any]{
			Data:      session.Redacted(),
			Success:   true,
			Timestamp: s.nowFunc().UTC(),
		})
	}
}

