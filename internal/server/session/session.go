// Package session implements the encrypted, cookie-backed session store.
// The whole User payload is re-encrypted on every mutation; the client only
// ever carries the opaque blob. There is no server-side session state.
package session

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/server/models"
)

const userValueKey = "user"

// Store wraps a gorilla CookieStore configured for the session cookie.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore derives independent signing and encryption keys from the
// configured secret. Secret length is validated at startup by the config
// layer, so a weak secret never reaches this point.
func NewStore(secret string, ttl time.Duration, secure bool) *Store {
	authKey := sha256.Sum256([]byte(secret + ":auth"))
	encKey := sha256.Sum256([]byte(secret + ":enc"))

	cs := sessions.NewCookieStore(authKey[:], encKey[:])
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// Get returns the session's User, or the default unauthenticated User when
// the cookie is absent, expired, or fails to decrypt. A bad cookie behaves
// exactly like no cookie.
func (s *Store) Get(r *http.Request) models.User {
	sess, err := s.cookies.Get(r, common.SessionCookieName)
	if err != nil {
		return models.DefaultUser()
	}
	raw, ok := sess.Values[userValueKey].(string)
	if !ok {
		return models.DefaultUser()
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.DefaultUser()
	}
	return user
}

// Set re-encrypts the full payload into the cookie. There are no partial
// updates: callers mutate a User and hand the whole record back.
func (s *Store) Set(r *http.Request, w http.ResponseWriter, user models.User) error {
	sess, _ := s.cookies.Get(r, common.SessionCookieName)

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	sess.Values[userValueKey] = string(raw)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Destroy clears the cookie. Destroying an absent session is a no-op that
// still emits the expiring Set-Cookie header.
func (s *Store) Destroy(r *http.Request, w http.ResponseWriter) error {
	sess, _ := s.cookies.Get(r, common.SessionCookieName)
	sess.Options.MaxAge = -1
	sess.Values = make(map[any]any)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
