package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hivegate/hivegate/internal/common"
)

// ChatClaims binds a chat token to the session's username.
type ChatClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateChatToken mints the short-lived HS256 token the chat service
// accepts. The secret is the dedicated chat secret, not the session secret.
func GenerateChatToken(username string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ChatClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Username: username,
	})
	return token.SignedString(secret)
}

// UsernameFromChatToken validates a chat token and returns the username it
// was minted for.
func UsernameFromChatToken(tokenString string, secret []byte) (string, error) {
	claims := &ChatClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}
	return claims.Username, nil
}
