package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/server/models"
)

func testStore() *Store {
	return NewStore(strings.Repeat("s", 32), time.Hour, false)
}

func loggedInUser() models.User {
	return models.User{
		IsLoggedIn:   true,
		Username:     "alice",
		AvatarURL:    models.AvatarURLFor("alice"),
		LoginType:    "wif",
		KeyType:      "posting",
		OauthConsent: map[string]bool{},
	}
}

// carryCookies copies Set-Cookie output from one response onto a fresh
// request, simulating the browser.
func carryCookies(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := testStore()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)

	require.NoError(t, s.Set(req, w, loggedInUser()))

	got := s.Get(carryCookies(t, w))
	assert.Equal(t, loggedInUser(), got)
}

func TestStore_CookieAttributes(t *testing.T) {
	t.Parallel()

	s := NewStore(strings.Repeat("s", 32), time.Hour, true)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, s.Set(req, w, loggedInUser()))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, common.SessionCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	// The payload must be opaque: no plaintext username in the cookie.
	assert.NotContains(t, c.Value, "alice")
}

func TestStore_GetWithoutCookie(t *testing.T) {
	t.Parallel()

	s := testStore()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, models.DefaultUser(), s.Get(req))
}

func TestStore_GetWithTamperedCookie(t *testing.T) {
	t.Parallel()

	s := testStore()
	w := httptest.NewRecorder()
	require.NoError(t, s.Set(httptest.NewRequest(http.MethodPost, "/", nil), w, loggedInUser()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := w.Result().Cookies()[0]
	c.Value = "tampered" + c.Value
	req.AddCookie(c)

	assert.Equal(t, models.DefaultUser(), s.Get(req))
}

func TestStore_WrongSecretRejectsCookie(t *testing.T) {
	t.Parallel()

	s := testStore()
	w := httptest.NewRecorder()
	require.NoError(t, s.Set(httptest.NewRequest(http.MethodPost, "/", nil), w, loggedInUser()))

	other := NewStore(strings.Repeat("x", 32), time.Hour, false)
	assert.Equal(t, models.DefaultUser(), other.Get(carryCookies(t, w)))
}

func TestStore_DestroyClearsCookie(t *testing.T) {
	t.Parallel()

	s := testStore()
	w := httptest.NewRecorder()
	require.NoError(t, s.Destroy(httptest.NewRequest(http.MethodPost, "/logout", nil), w))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, common.SessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestStore_DestroyThenGetReturnsDefault(t *testing.T) {
	t.Parallel()

	s := testStore()

	// Log in.
	w := httptest.NewRecorder()
	require.NoError(t, s.Set(httptest.NewRequest(http.MethodPost, "/", nil), w, loggedInUser()))
	authed := carryCookies(t, w)

	// Log out carrying the session cookie.
	w2 := httptest.NewRecorder()
	require.NoError(t, s.Destroy(authed, w2))

	assert.Equal(t, models.DefaultUser(), s.Get(carryCookies(t, w2)))
}
