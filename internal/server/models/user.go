// Package models holds the server-side data records shared across the
// session, service, and HTTP layers.
package models

// User is the authenticated-visitor record carried inside the encrypted
// session cookie. The zero values of OauthConsent and ChatAuthToken are
// placeholders populated later by the consent and chat-token flows.
type User struct {
	IsLoggedIn    bool            `json:"isLoggedIn"`
	Username      string          `json:"username"`
	AvatarURL     string          `json:"avatarUrl"`
	LoginType     string          `json:"loginType"`
	KeyType       string          `json:"keyType"`
	OauthConsent  map[string]bool `json:"oauthConsent"`
	ChatAuthToken string          `json:"chatAuthToken"`
}

// DefaultUser is the unauthenticated state returned whenever no valid
// session exists. Logout resets the session to this value.
func DefaultUser() User {
	return User{
		IsLoggedIn:   false,
		OauthConsent: map[string]bool{},
	}
}

// AvatarURLFor is the conventional avatar endpoint for a Hive account.
func AvatarURLFor(username string) string {
	return "https://images.hive.blog/u/" + username + "/avatar"
}
