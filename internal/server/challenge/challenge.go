// Package challenge issues the per-visitor login challenge: a random token
// the user's signature must cover. The token is stored twice: an httpOnly
// canonical copy the server trusts, and a readable copy client-side code
// includes in the signed message. This is a replay nonce, not a CSRF token.
package challenge

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/hivegate/hivegate/internal/common"
)

var (
	ErrNoChallenge       = errors.New("no login challenge issued")
	ErrChallengeMismatch = errors.New("login challenge cookies do not match")
)

// Issuer stamps and reads challenge cookies.
type Issuer struct {
	secure bool
}

func NewIssuer(secure bool) *Issuer {
	return &Issuer{secure: secure}
}

// IssueIfAbsent generates a fresh challenge unless the canonical cookie is
// already present, and reports whether it issued one. Idempotent: a visitor
// keeps one challenge until it is consumed by login or cleared by logout.
func (i *Issuer) IssueIfAbsent(w http.ResponseWriter, r *http.Request) bool {
	if _, err := r.Cookie(common.ChallengeServerCookieName); err == nil {
		return false
	}
	i.Rotate(w, r)
	return true
}

// Rotate unconditionally stamps a new challenge over any existing one.
// Login calls this after consuming a challenge so a captured signature
// cannot be replayed.
func (i *Issuer) Rotate(w http.ResponseWriter, _ *http.Request) {
	token := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     common.ChallengeServerCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     common.ChallengeCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear drops both cookies. Used by logout.
func (i *Issuer) Clear(w http.ResponseWriter) {
	for _, name := range []string{common.ChallengeServerCookieName, common.ChallengeCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Secure:   i.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// Read returns the challenge value the server will accept. Both copies must
// be present and equal; anything else means the visitor's state is stale or
// tampered with.
func (i *Issuer) Read(r *http.Request) (string, error) {
	server, err := r.Cookie(common.ChallengeServerCookieName)
	if err != nil {
		return "", ErrNoChallenge
	}
	client, err := r.Cookie(common.ChallengeCookieName)
	if err != nil {
		return "", ErrNoChallenge
	}
	if server.Value == "" || server.Value != client.Value {
		return "", ErrChallengeMismatch
	}
	return server.Value, nil
}
