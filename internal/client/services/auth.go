// Package services contains application services for the hivegate CLI.
// This file defines the authentication service: key import into the local
// encrypted store, challenge signing, and server login/logout.
package services

import (
	"context"
	"fmt"

	"github.com/hivegate/hivegate/internal/client/api"
	"github.com/hivegate/hivegate/internal/hive/accountname"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/server/models"
	"github.com/hivegate/hivegate/internal/signer"
	"github.com/hivegate/hivegate/internal/signer/keystore"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - ImportKey: store a WIF key encrypted under a password.
//   - RemoveKey: delete a stored key.
//   - Login: fetch a challenge, sign it with the chosen backend, and
//     authenticate against the server.
//   - Logout: destroy the server session.
//   - Session: read the current user without changing it.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	ImportKey(account, keyType, wif string, password []byte) error
	RemoveKey(account, keyType string) error
	HasKey(account, keyType string) bool
	Login(ctx context.Context, account, keyType, loginType string, credential []byte) (*models.User, error)
	Logout(ctx context.Context) (*models.User, error)
	Session(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
}

// authService is the concrete AuthService backed by the HTTP client and the
// local encrypted key store.
type authService struct {
	api         *api.Client
	keystore    *keystore.Store
	hiveAuthURL string
}

// NewAuthService constructs an AuthService bound to the given API client and
// key store.
func NewAuthService(client *api.Client, ks *keystore.Store, hiveAuthURL string) AuthService {
	return &authService{api: client, keystore: ks, hiveAuthURL: hiveAuthURL}
}

func (a *authService) ImportKey(account, keyType, wif string, password []byte) error {
	if err := accountname.Validate(account); err != nil {
		return err
	}
	kt, err := authority.ParseKeyType(keyType)
	if err != nil {
		return err
	}
	return a.keystore.ImportKey(account, kt, wif, password)
}

func (a *authService) RemoveKey(account, keyType string) error {
	kt, err := authority.ParseKeyType(keyType)
	if err != nil {
		return err
	}
	return a.keystore.RemoveKey(account, kt)
}

func (a *authService) HasKey(account, keyType string) bool {
	kt, err := authority.ParseKeyType(keyType)
	if err != nil {
		return false
	}
	return a.keystore.HasKey(account, kt)
}

// Login runs the full flow: a session read to obtain a challenge, a local
// signature over it, and the login call. For "wif" logins credential is the
// raw WIF string; for "hbauth" it is the key store password.
func (a *authService) Login(ctx context.Context, account, keyType, loginType string, credential []byte) (*models.User, error) {
	if err := accountname.Validate(account); err != nil {
		return nil, err
	}
	kt, err := authority.ParseKeyType(keyType)
	if err != nil {
		return nil, err
	}
	lt, err := signer.ParseLoginType(loginType)
	if err != nil {
		return nil, err
	}

	if _, err := a.api.Session(ctx); err != nil {
		return nil, fmt.Errorf("challenge fetch: %w", err)
	}
	challenge := a.api.Challenge()
	if challenge == "" {
		return nil, fmt.Errorf("server did not issue a login challenge")
	}

	deps := signer.Deps{
		Account:     account,
		KeyType:     kt,
		Keystore:    a.keystore,
		HiveAuthURL: a.hiveAuthURL,
	}
	var password []byte
	switch lt {
	case signer.LoginTypeWIF:
		deps.WIF = string(credential)
	case signer.LoginTypeHbauth:
		password = credential
	}

	s, err := signer.New(lt, deps)
	if err != nil {
		return nil, err
	}
	defer s.Destroy()

	sig, err := s.SignChallenge(ctx, challenge, password)
	if err != nil {
		return nil, fmt.Errorf("challenge signing: %w", err)
	}

	return a.api.Login(ctx, &api.LoginRequest{
		Username:   account,
		Signatures: map[string]string{string(kt): sig.String()},
		LoginType:  string(lt),
		KeyType:    string(kt),
	})
}

func (a *authService) Logout(ctx context.Context) (*models.User, error) {
	return a.api.Logout(ctx)
}

func (a *authService) Session(ctx context.Context) (*models.User, error) {
	return a.api.Session(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}
