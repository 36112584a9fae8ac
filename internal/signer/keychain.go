package signer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
)

// The keychain backend delegates to a browser-injected extension object.
// In this codebase the extension is represented by whatever bridge value the
// host environment hands us; the three request capabilities below must all
// be present for the backend to be usable, mirroring the feature detection
// the web client performs before offering keychain login.

// BufferSigner is the requestSignBuffer capability.
type BufferSigner interface {
	RequestSignBuffer(ctx context.Context, account, message string, keyType authority.KeyType) (string, error)
}

// TxBroadcaster is the requestBroadcast capability.
type TxBroadcaster interface {
	RequestBroadcast(ctx context.Context, account string, tx json.RawMessage, keyType authority.KeyType) (json.RawMessage, error)
}

// SignedCaller is the requestSignedCall capability.
type SignedCaller interface {
	RequestSignedCall(ctx context.Context, account string, tx json.RawMessage, keyType authority.KeyType) (json.RawMessage, error)
}

// KeychainSigner delegates signing and broadcasting to the extension bridge.
type KeychainSigner struct {
	account string
	keyType authority.KeyType

	signer      BufferSigner
	broadcaster TxBroadcaster
	caller      SignedCaller
}

// NewKeychainSigner feature-detects the bridge. A bridge missing any of the
// three capabilities fails with common.ErrKeychainUnavailable, exactly as a
// missing or outdated extension would in the browser.
func NewKeychainSigner(account string, keyType authority.KeyType, bridge any) (*KeychainSigner, error) {
	if bridge == nil {
		return nil, common.ErrKeychainUnavailable
	}
	bs, ok := bridge.(BufferSigner)
	if !ok {
		return nil, fmt.Errorf("%w: sign buffer not supported", common.ErrKeychainUnavailable)
	}
	tb, ok := bridge.(TxBroadcaster)
	if !ok {
		return nil, fmt.Errorf("%w: broadcast not supported", common.ErrKeychainUnavailable)
	}
	sc, ok := bridge.(SignedCaller)
	if !ok {
		return nil, fmt.Errorf("%w: signed call not supported", common.ErrKeychainUnavailable)
	}
	return &KeychainSigner{
		account:     account,
		keyType:     keyType,
		signer:      bs,
		broadcaster: tb,
		caller:      sc,
	}, nil
}

func (s *KeychainSigner) SignChallenge(ctx context.Context, message string, _ []byte) (keys.Signature, error) {
	hexSig, err := s.signer.RequestSignBuffer(ctx, s.account, message, s.keyType)
	if err != nil {
		return nil, fmt.Errorf("keychain sign: %w", err)
	}
	return keys.SignatureFromHex(hexSig)
}

// SignTransaction goes through requestSignedCall; the extension signs and
// returns the completed transaction without exposing the key.
func (s *KeychainSigner) SignTransaction(ctx context.Context, tx json.RawMessage) (*SignedTransaction, error) {
	signed, err := s.caller.RequestSignedCall(ctx, s.account, tx, s.keyType)
	if err != nil {
		return nil, fmt.Errorf("keychain signed call: %w", err)
	}
	var out SignedTransaction
	if err := json.Unmarshal(signed, &out); err != nil {
		return nil, fmt.Errorf("keychain signed call: decode: %w", err)
	}
	return &out, nil
}

func (s *KeychainSigner) BroadcastTransaction(ctx context.Context, tx json.RawMessage) (*BroadcastResult, error) {
	result, err := s.broadcaster.RequestBroadcast(ctx, s.account, tx, s.keyType)
	if err != nil {
		return &BroadcastResult{Success: false, Error: err.Error()}, nil
	}
	return &BroadcastResult{Success: true, Result: result}, nil
}

// Destroy is a no-op: the extension owns all key material.
func (s *KeychainSigner) Destroy() error {
	return nil
}
