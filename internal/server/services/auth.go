// Package services contains server-side business logic. This file implements
// AuthService, which verifies signed login challenges against on-chain account
// authorities and manages the resulting user profile.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/accountname"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
	"github.com/hivegate/hivegate/internal/logging"
	"github.com/hivegate/hivegate/internal/server/auth"
	"github.com/hivegate/hivegate/internal/server/config"
	"github.com/hivegate/hivegate/internal/server/models"
	"github.com/hivegate/hivegate/internal/signer"
)

// LoginRequest carries the fields a client submits to prove control of an
// account key. Signatures maps a key type name to the hex-encoded compact
// signature over the challenge the server previously issued; only the entry
// matching KeyType is consulted.
type LoginRequest struct {
	Username   string            `json:"username"`
	Signatures map[string]string `json:"signatures"`
	LoginType  string            `json:"loginType"`
	KeyType    string            `json:"keyType"`
}

// AuthService provides authentication-related operations:
// - VerifyLogin: check a signed challenge against the account's chain authority
// - UpdateConsent: record a per-client oauth consent decision
// - IssueChatToken: mint a chat token for a logged-in user
type AuthService struct {
	verifier     *auth.Verifier
	log          logging.Logger
	chatSecret   []byte
	chatTokenTTL time.Duration
}

// NewAuthService constructs an AuthService using the verifier and server config.
func NewAuthService(verifier *auth.Verifier, cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		verifier:     verifier,
		log:          log,
		chatSecret:   []byte(cfg.ChatTokenSecret),
		chatTokenTTL: cfg.ChatTokenTTL,
	}
}

// VerifyLogin validates the request fields, checks the signature over the
// challenge against the account's authority, and returns the logged-in user
// profile. Bad enum fields surface as ErrInvalidLoginType or
// ErrUnsupportedKeyType: rejecting them reveals nothing about accounts, and a
// client sending them is broken rather than guessing. Credential failures all
// collapse to ErrAuthenticationFailed so responses do not reveal whether an
// account exists or which check failed; the detail is logged server-side.
// Node outages surface as ErrUpstreamUnavailable, since they say nothing
// about the credentials.
func (s *AuthService) VerifyLogin(ctx context.Context, req *LoginRequest, challenge string) (*models.User, error) {
	if err := accountname.Validate(req.Username); err != nil {
		s.log.Info(ctx, "login rejected: invalid account name", "username", req.Username, "error", err)
		return nil, common.ErrAuthenticationFailed
	}

	loginType, err := signer.ParseLoginType(req.LoginType)
	if err != nil {
		s.log.Info(ctx, "login rejected: unknown login type", "username", req.Username, "loginType", req.LoginType)
		return nil, err
	}

	keyType, err := authority.ParseKeyType(req.KeyType)
	if err != nil {
		s.log.Info(ctx, "login rejected: unsupported key type", "username", req.Username, "keyType", req.KeyType)
		return nil, err
	}

	hexSig, ok := req.Signatures[string(keyType)]
	if !ok || hexSig == "" {
		s.log.Info(ctx, "login rejected: no signature for key type", "username", req.Username, "keyType", keyType)
		return nil, common.ErrAuthenticationFailed
	}
	sig, err := keys.SignatureFromHex(hexSig)
	if err != nil {
		s.log.Info(ctx, "login rejected: malformed signature", "username", req.Username)
		return nil, common.ErrAuthenticationFailed
	}

	if err := s.verifier.VerifyLoginChallenge(ctx, req.Username, keyType, sig, challenge); err != nil {
		if errors.Is(err, common.ErrUpstreamUnavailable) {
			return nil, err
		}
		s.log.Info(ctx, "login rejected: challenge verification failed", "username", req.Username, "error", err)
		return nil, common.ErrAuthenticationFailed
	}

	user := models.DefaultUser()
	user.IsLoggedIn = true
	user.Username = req.Username
	user.AvatarURL = models.AvatarURLFor(req.Username)
	user.LoginType = string(loginType)
	user.KeyType = string(keyType)
	return &user, nil
}

// UpdateConsent records the user's oauth consent decision for a client id.
// It only operates on logged-in users.
func (s *AuthService) UpdateConsent(user *models.User, clientID string, granted bool) error {
	if user == nil || !user.IsLoggedIn {
		return common.ErrAuthenticationFailed
	}
	if clientID == "" {
		return common.ErrAuthenticationFailed
	}
	if user.OauthConsent == nil {
		user.OauthConsent = make(map[string]bool)
	}
	user.OauthConsent[clientID] = granted
	return nil
}

// IssueChatToken mints a signed chat token for the user and stores it on the
// profile so subsequent session reads return it.
func (s *AuthService) IssueChatToken(ctx context.Context, user *models.User) (string, error) {
	if user == nil || !user.IsLoggedIn {
		return "", common.ErrAuthenticationFailed
	}
	token, err := auth.GenerateChatToken(user.Username, s.chatSecret, s.chatTokenTTL)
	if err != nil {
		s.log.Error(ctx, "chat token generation failed", "username", user.Username, "error", err)
		return "", err
	}
	user.ChatAuthToken = token
	return token, nil
}
