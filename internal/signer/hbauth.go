package signer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
)

// KeyProvider is the slice of the keystore the hbauth signer needs.
type KeyProvider interface {
	Unlock(account string, keyType authority.KeyType, password []byte) error
	Key(account string, keyType authority.KeyType) (*keys.PrivateKey, error)
	Lock(account string, keyType authority.KeyType)
}

// HbauthSigner signs with a key held in the local encrypted key store.
// Signing unlocks on demand when a password is supplied.
type HbauthSigner struct {
	account string
	keyType authority.KeyType
	store   KeyProvider
	chain   Broadcaster
}

func NewHbauthSigner(account string, keyType authority.KeyType, store KeyProvider, chain Broadcaster) (*HbauthSigner, error) {
	if store == nil {
		return nil, errors.New("hbauth signer requires a key store")
	}
	return &HbauthSigner{account: account, keyType: keyType, store: store, chain: chain}, nil
}

// key fetches the unlocked key, attempting an unlock first when a password
// was provided.
func (s *HbauthSigner) key(password []byte) (*keys.PrivateKey, error) {
	if len(password) > 0 {
		if err := s.store.Unlock(s.account, s.keyType, password); err != nil {
			return nil, err
		}
	}
	key, err := s.store.Key(s.account, s.keyType)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (s *HbauthSigner) SignChallenge(_ context.Context, message string, password []byte) (keys.Signature, error) {
	key, err := s.key(password)
	if err != nil {
		return nil, err
	}
	return keys.SignDigest(key, keys.Digest(message))
}

func (s *HbauthSigner) SignTransaction(_ context.Context, tx json.RawMessage) (*SignedTransaction, error) {
	key, err := s.store.Key(s.account, s.keyType)
	if err != nil {
		return nil, err
	}
	sig, err := keys.SignDigest(key, keys.Digest(string(tx)))
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{Transaction: tx, Signatures: []string{sig.String()}}, nil
}

func (s *HbauthSigner) BroadcastTransaction(ctx context.Context, tx json.RawMessage) (*BroadcastResult, error) {
	signed, err := s.SignTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	return broadcast(ctx, s.chain, signed)
}

// Destroy locks the store entry again, wiping the cached key.
func (s *HbauthSigner) Destroy() error {
	s.store.Lock(s.account, s.keyType)
	return nil
}
