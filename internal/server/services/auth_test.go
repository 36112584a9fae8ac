package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
	"github.com/hivegate/hivegate/internal/logging"
	"github.com/hivegate/hivegate/internal/server/auth"
	"github.com/hivegate/hivegate/internal/server/config"
	"github.com/hivegate/hivegate/internal/server/models"
)

type fakeFetcher struct {
	authorities map[string]*authority.Authority
	err         error
}

func (f *fakeFetcher) FetchAuthority(_ context.Context, account string, _ authority.KeyType) (*authority.Authority, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.authorities[account]
	if !ok {
		return nil, common.ErrAccountNotFound
	}
	return a, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ChatTokenSecret = "0123456789abcdef0123456789abcdef"
	return cfg
}

// newTestService returns a service backed by one single-key account and the
// private key that controls it.
func newTestService(t *testing.T, account string) (*AuthService, *keys.PrivateKey) {
	t.Helper()
	priv, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	fetcher := &fakeFetcher{authorities: map[string]*authority.Authority{
		account: {
			WeightThreshold: 1,
			KeyAuths:        []authority.KeyAuth{{Key: priv.PublicKey().String(), Weight: 1}},
		},
	}}
	verifier := auth.NewVerifier(fetcher, testLogger())
	return NewAuthService(verifier, testConfig(), testLogger()), priv
}

func signChallenge(t *testing.T, priv *keys.PrivateKey, challenge string) string {
	t.Helper()
	sig, err := keys.SignDigest(priv, keys.Digest(challenge))
	require.NoError(t, err)
	return sig.String()
}

func postingSig(sig string) map[string]string {
	return map[string]string{"posting": sig}
}

func TestVerifyLogin_Success(t *testing.T) {
	t.Parallel()

	svc, priv := newTestService(t, "goodactor")
	challenge := "challenge-token"

	user, err := svc.VerifyLogin(context.Background(), &LoginRequest{
		Username:   "goodactor",
		Signatures: postingSig(signChallenge(t, priv, challenge)),
		LoginType:  "wif",
		KeyType:    "posting",
	}, challenge)
	require.NoError(t, err)

	assert.True(t, user.IsLoggedIn)
	assert.Equal(t, "goodactor", user.Username)
	assert.Equal(t, "https://images.hive.blog/u/goodactor/avatar", user.AvatarURL)
	assert.Equal(t, "wif", user.LoginType)
	assert.Equal(t, "posting", user.KeyType)
	assert.Empty(t, user.ChatAuthToken)
}

func TestVerifyLogin_Failures(t *testing.T) {
	t.Parallel()

	svc, priv := newTestService(t, "goodactor")
	challenge := "challenge-token"
	goodSig := signChallenge(t, priv, challenge)

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr error
	}{
		{"invalid account name", LoginRequest{Username: "x", Signatures: postingSig(goodSig), LoginType: "wif", KeyType: "posting"}, common.ErrAuthenticationFailed},
		{"unknown login type", LoginRequest{Username: "goodactor", Signatures: postingSig(goodSig), LoginType: "magic", KeyType: "posting"}, common.ErrInvalidLoginType},
		{"owner key rejected", LoginRequest{Username: "goodactor", Signatures: postingSig(goodSig), LoginType: "wif", KeyType: "owner"}, common.ErrUnsupportedKeyType},
		{"missing signature for key type", LoginRequest{Username: "goodactor", Signatures: map[string]string{"active": goodSig}, LoginType: "wif", KeyType: "posting"}, common.ErrAuthenticationFailed},
		{"malformed signature", LoginRequest{Username: "goodactor", Signatures: postingSig("zz"), LoginType: "wif", KeyType: "posting"}, common.ErrAuthenticationFailed},
		{"unknown account", LoginRequest{Username: "otheractor", Signatures: postingSig(goodSig), LoginType: "wif", KeyType: "posting"}, common.ErrAuthenticationFailed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.VerifyLogin(context.Background(), &tt.req, challenge)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifyLogin_WrongChallenge(t *testing.T) {
	t.Parallel()

	svc, priv := newTestService(t, "goodactor")
	sig := signChallenge(t, priv, "challenge-a")

	_, err := svc.VerifyLogin(context.Background(), &LoginRequest{
		Username:   "goodactor",
		Signatures: postingSig(sig),
		LoginType:  "wif",
		KeyType:    "posting",
	}, "challenge-b")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestVerifyLogin_UpstreamUnavailable(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: common.ErrUpstreamUnavailable}
	verifier := auth.NewVerifier(fetcher, testLogger())
	svc := NewAuthService(verifier, testConfig(), testLogger())

	_, err := svc.VerifyLogin(context.Background(), &LoginRequest{
		Username:   "goodactor",
		Signatures: postingSig(strings.Repeat("00", 65)),
		LoginType:  "wif",
		KeyType:    "posting",
	}, "challenge")

	// A node outage must not masquerade as bad credentials.
	assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestUpdateConsent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, "goodactor")

	user := models.DefaultUser()
	err := svc.UpdateConsent(&user, "chat-client", true)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)

	user.IsLoggedIn = true
	user.Username = "goodactor"

	require.NoError(t, svc.UpdateConsent(&user, "chat-client", true))
	assert.True(t, user.OauthConsent["chat-client"])

	require.NoError(t, svc.UpdateConsent(&user, "chat-client", false))
	assert.False(t, user.OauthConsent["chat-client"])

	assert.ErrorIs(t, svc.UpdateConsent(&user, "", true), common.ErrAuthenticationFailed)
}

func TestIssueChatToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, "goodactor")

	anon := models.DefaultUser()
	_, err := svc.IssueChatToken(context.Background(), &anon)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)

	user := models.DefaultUser()
	user.IsLoggedIn = true
	user.Username = "goodactor"

	token, err := svc.IssueChatToken(context.Background(), &user)
	require.NoError(t, err)
	assert.Equal(t, token, user.ChatAuthToken)

	username, err := auth.UsernameFromChatToken(token, []byte(testConfig().ChatTokenSecret))
	require.NoError(t, err)
	assert.Equal(t, "goodactor", username)
}
