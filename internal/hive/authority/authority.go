// Package authority models Hive account authorities: the mapping from
// public keys to weights plus a threshold, per key type.
package authority

import (
	"context"

	"github.com/hivegate/hivegate/internal/common"
)

// KeyType selects one of the account's independent authority levels.
type KeyType string

const (
	KeyTypePosting KeyType = "posting"
	KeyTypeActive  KeyType = "active"
	KeyTypeOwner   KeyType = "owner"
)

// ParseKeyType accepts the key types login is allowed to use. Owner keys are
// deliberately rejected: the login flow never asks users to expose them.
func ParseKeyType(s string) (KeyType, error) {
	switch KeyType(s) {
	case KeyTypePosting, KeyTypeActive:
		return KeyType(s), nil
	default:
		return "", common.ErrUnsupportedKeyType
	}
}

// KeyAuth is one public key and its weight within an authority.
type KeyAuth struct {
	Key    string
	Weight uint32
}

// Authority is the on-chain record for one key type of one account.
type Authority struct {
	WeightThreshold uint32
	KeyAuths        []KeyAuth
	// AccountAuths are delegated account authorities. Login only supports
	// direct keys, but the count matters for the multisig check.
	AccountAuths int
}

// SingleKey returns the authority's only key when the authority is the
// simple single-key, weight==threshold==1 form that login supports.
// Anything else is a multisig configuration and fails closed.
func (a *Authority) SingleKey() (KeyAuth, error) {
	if len(a.KeyAuths) != 1 || a.AccountAuths != 0 {
		return KeyAuth{}, common.ErrMultisigUnsupported
	}
	if a.WeightThreshold != 1 || a.KeyAuths[0].Weight != 1 {
		return KeyAuth{}, common.ErrMultisigUnsupported
	}
	return a.KeyAuths[0], nil
}

// Fetcher retrieves an account's authority for one key type from the chain.
// Implementations live outside this package (see the chain package); the
// login service depends only on this capability.
type Fetcher interface {
	FetchAuthority(ctx context.Context, account string, keyType KeyType) (*Authority, error)
}
