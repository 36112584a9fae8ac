package signer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hivegate/hivegate/internal/hive/keys"
)

// WIFSigner signs with a caller-supplied raw private key.
type WIFSigner struct {
	key   *keys.PrivateKey
	chain Broadcaster
}

func NewWIFSigner(wif string, chain Broadcaster) (*WIFSigner, error) {
	key, err := keys.PrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return &WIFSigner{key: key, chain: chain}, nil
}

func (s *WIFSigner) SignChallenge(_ context.Context, message string, _ []byte) (keys.Signature, error) {
	if s.key == nil {
		return nil, errors.New("signer destroyed")
	}
	return keys.SignDigest(s.key, keys.Digest(message))
}

// SignTransaction signs the sha256 digest of the serialized transaction.
// Canonical serialization is the caller's concern; the transaction bytes are
// opaque here.
func (s *WIFSigner) SignTransaction(_ context.Context, tx json.RawMessage) (*SignedTransaction, error) {
	if s.key == nil {
		return nil, errors.New("signer destroyed")
	}
	digest := keys.Digest(string(tx))
	sig, err := keys.SignDigest(s.key, digest)
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{Transaction: tx, Signatures: []string{sig.String()}}, nil
}

func (s *WIFSigner) BroadcastTransaction(ctx context.Context, tx json.RawMessage) (*BroadcastResult, error) {
	signed, err := s.SignTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	return broadcast(ctx, s.chain, signed)
}

// Destroy wipes the held private key.
func (s *WIFSigner) Destroy() error {
	if s.key != nil {
		s.key.Wipe()
		s.key = nil
	}
	return nil
}

// broadcast submits a signed transaction and folds the chain error into the
// result instead of losing it.
func broadcast(ctx context.Context, chain Broadcaster, signed *SignedTransaction) (*BroadcastResult, error) {
	if chain == nil {
		return nil, errors.New("no chain client configured")
	}
	payload, err := json.Marshal(signed)
	if err != nil {
		return nil, fmt.Errorf("marshal signed transaction: %w", err)
	}
	result, err := chain.BroadcastTransaction(ctx, payload)
	if err != nil {
		return &BroadcastResult{Success: false, Error: err.Error()}, nil
	}
	return &BroadcastResult{Success: true, Result: result}, nil
}
