package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/server/metrics"
	"github.com/hivegate/hivegate/internal/server/models"
	"github.com/hivegate/hivegate/internal/server/services"
)

// handleSession returns the current user and makes sure the visitor holds a
// login challenge for a future login attempt.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.challenges.IssueIfAbsent(w, r) {
		s.metrics.ChallengeIssued()
	}
	writeJSON(w, http.StatusOK, s.sessions.Get(r))
}

// handleLogin verifies a signed challenge and starts a session. Unknown
// loginType/keyType values are a 400; every credential failure returns the
// same 401 body, with the reason only logged.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.LoginAttempt(metrics.ResultFailure)
		writeError(w, http.StatusUnauthorized, common.ErrAuthenticationFailed.Error())
		return
	}

	chal, err := s.challenges.Read(r)
	if err != nil {
		s.log.Info(r.Context(), "login rejected: challenge unreadable", "error", err)
		s.metrics.LoginAttempt(metrics.ResultFailure)
		writeError(w, http.StatusUnauthorized, common.ErrAuthenticationFailed.Error())
		return
	}

	user, err := s.auth.VerifyLogin(r.Context(), &req, chal)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUpstreamUnavailable):
			s.metrics.LoginAttempt(metrics.ResultUnavailable)
			writeError(w, http.StatusServiceUnavailable, common.ErrUpstreamUnavailable.Error())
		case errors.Is(err, common.ErrInvalidLoginType), errors.Is(err, common.ErrUnsupportedKeyType):
			// A broken client, not bad credentials.
			s.metrics.LoginAttempt(metrics.ResultFailure)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.metrics.LoginAttempt(metrics.ResultFailure)
			writeError(w, http.StatusUnauthorized, common.ErrAuthenticationFailed.Error())
		}
		return
	}

	if err := s.sessions.Set(r, w, *user); err != nil {
		s.log.Error(r.Context(), "session write failed", "username", user.Username, "error", err)
		s.metrics.LoginAttempt(metrics.ResultFailure)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// The signature for this challenge has been consumed; replaying it
	// against a fresh challenge will not verify.
	s.challenges.Rotate(w, r)
	s.metrics.LoginAttempt(metrics.ResultSuccess)
	s.log.Info(r.Context(), "login", "username", user.Username, "loginType", user.LoginType, "keyType", user.KeyType)
	writeJSON(w, http.StatusOK, user)
}

// handleLogout destroys the session and challenge cookies. Logging out
// without a session still succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := s.sessions.Get(r)
	if err := s.sessions.Destroy(r, w); err != nil {
		s.log.Error(r.Context(), "session destroy failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.challenges.Clear(w)
	s.metrics.SessionDestroyed()
	if user.IsLoggedIn {
		s.log.Info(r.Context(), "logout", "username", user.Username)
	}
	writeJSON(w, http.StatusOK, models.DefaultUser())
}

type consentRequest struct {
	ClientID string `json:"clientId"`
	Granted  bool   `json:"granted"`
}

// handleConsent records an oauth consent decision on the session.
func (s *Server) handleConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user := s.sessions.Get(r)
	if err := s.auth.UpdateConsent(&user, req.ClientID, req.Granted); err != nil {
		writeError(w, http.StatusUnauthorized, common.ErrAuthenticationFailed.Error())
		return
	}
	if err := s.sessions.Set(r, w, user); err != nil {
		s.log.Error(r.Context(), "session write failed", "username", user.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleChatToken mints a chat token for the logged-in user and stores it on
// the session so later session reads include it.
func (s *Server) handleChatToken(w http.ResponseWriter, r *http.Request) {
	user := s.sessions.Get(r)
	if _, err := s.auth.IssueChatToken(r.Context(), &user); err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) {
			writeError(w, http.StatusUnauthorized, common.ErrAuthenticationFailed.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.sessions.Set(r, w, user); err != nil {
		s.log.Error(r.Context(), "session write failed", "username", user.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.metrics.ChatTokenIssued()
	writeJSON(w, http.StatusOK, user)
}
