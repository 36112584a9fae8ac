// Package signer abstracts over challenge-signing backends: a raw WIF key,
// the local encrypted key store (hbauth), a browser keychain extension, and
// the remote hiveauth service. All variants share one contract and differ
// only in where key material lives and who is trusted with it.
package signer

import (
	"context"
	"encoding/json"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
)

// LoginType names a signing backend.
type LoginType string

const (
	LoginTypeWIF      LoginType = "wif"
	LoginTypeHbauth   LoginType = "hbauth"
	LoginTypeKeychain LoginType = "keychain"
	LoginTypeHiveauth LoginType = "hiveauth"
)

// ParseLoginType maps the wire value to a LoginType, failing on unknown
// values instead of passing them through.
func ParseLoginType(s string) (LoginType, error) {
	switch LoginType(s) {
	case LoginTypeWIF, LoginTypeHbauth, LoginTypeKeychain, LoginTypeHiveauth:
		return LoginType(s), nil
	default:
		return "", common.ErrInvalidLoginType
	}
}

// SignedTransaction pairs an opaque transaction with its signatures.
type SignedTransaction struct {
	Transaction json.RawMessage `json:"transaction"`
	Signatures  []string        `json:"signatures"`
}

// BroadcastResult reports the outcome of a broadcast attempt.
type BroadcastResult struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Signer is the capability every backend implements.
//
// SignChallenge signs the sha256 digest of message with the account's key;
// password is only consulted by backends that need an unlock (hbauth) and is
// ignored elsewhere. Destroy releases any held secret material; a destroyed
// signer must not be reused.
type Signer interface {
	SignChallenge(ctx context.Context, message string, password []byte) (keys.Signature, error)
	SignTransaction(ctx context.Context, tx json.RawMessage) (*SignedTransaction, error)
	BroadcastTransaction(ctx context.Context, tx json.RawMessage) (*BroadcastResult, error)
	Destroy() error
}

// Broadcaster is the slice of the chain client signers need.
type Broadcaster interface {
	BroadcastTransaction(ctx context.Context, tx json.RawMessage) (json.RawMessage, error)
}

// Deps carries everything a backend might need; each variant picks what it
// uses and the factory validates the rest.
type Deps struct {
	Account string
	KeyType authority.KeyType

	// WIF is the raw private key for LoginTypeWIF.
	WIF string

	// Keystore backs LoginTypeHbauth.
	Keystore KeyProvider

	// Extension backs LoginTypeKeychain; capability detection happens in
	// the factory.
	Extension any

	// HiveAuthURL is the websocket endpoint for LoginTypeHiveauth.
	HiveAuthURL string

	// Chain is used by backends that broadcast locally signed transactions.
	Chain Broadcaster
}

// New selects and constructs the backend for loginType. Unknown login types
// fail with common.ErrInvalidLoginType rather than returning a nil signer.
func New(loginType LoginType, deps Deps) (Signer, error) {
	switch loginType {
	case LoginTypeWIF:
		return NewWIFSigner(deps.WIF, deps.Chain)
	case LoginTypeHbauth:
		return NewHbauthSigner(deps.Account, deps.KeyType, deps.Keystore, deps.Chain)
	case LoginTypeKeychain:
		return NewKeychainSigner(deps.Account, deps.KeyType, deps.Extension)
	case LoginTypeHiveauth:
		return NewHiveAuthSigner(deps.Account, deps.KeyType, deps.HiveAuthURL)
	default:
		return nil, common.ErrInvalidLoginType
	}
}
