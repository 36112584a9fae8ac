// Package auth implements signature verification against on-chain account
// authority, and issuance of the chat auth token.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
	"github.com/hivegate/hivegate/internal/logging"
)

// Verify reports whether signature over message recovers exactly publicKey.
// An empty signature is rejected immediately with no crypto work. Equality
// is exact key equality, never a prefix or fuzzy match.
func Verify(sig keys.Signature, publicKey *keys.PublicKey, message string) bool {
	if len(sig) == 0 {
		return false
	}
	recovered, err := keys.RecoverDigest(sig, keys.Digest(message))
	if err != nil {
		return false
	}
	return recovered.Equals(publicKey)
}

// Verifier checks login challenges against chain-fetched authority.
type Verifier struct {
	fetcher authority.Fetcher
	log     logging.Logger
}

func NewVerifier(fetcher authority.Fetcher, log logging.Logger) *Verifier {
	return &Verifier{fetcher: fetcher, log: log}
}

// VerifyLoginChallenge fetches the account's authority for keyType and
// checks that sig over message recovers its key.
//
// Multisig authorities (threshold or weight above 1, multiple keys, account
// auths) fail closed with common.ErrMultisigUnsupported; the condition is
// also logged because it means a real account expects functionality this
// service does not provide.
func (v *Verifier) VerifyLoginChallenge(ctx context.Context, account string, keyType authority.KeyType, sig keys.Signature, message string) error {
	auth, err := v.fetcher.FetchAuthority(ctx, account, keyType)
	if err != nil {
		return fmt.Errorf("fetch authority for %s: %w", account, err)
	}

	keyAuth, err := auth.SingleKey()
	if err != nil {
		if errors.Is(err, common.ErrMultisigUnsupported) {
			v.log.Error(ctx, "multisig authority rejected",
				"account", account,
				"keyType", keyType,
				"threshold", auth.WeightThreshold,
				"keys", len(auth.KeyAuths),
				"accountAuths", auth.AccountAuths,
			)
		}
		return err
	}

	publicKey, err := keys.PublicKeyFromString(keyAuth.Key)
	if err != nil {
		return fmt.Errorf("parse authority key for %s: %w", account, err)
	}

	if !Verify(sig, publicKey, message) {
		return common.ErrAuthenticationFailed
	}
	return nil
}
