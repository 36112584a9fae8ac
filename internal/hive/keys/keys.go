// Package keys implements Hive key and signature primitives: WIF-encoded
// private keys, STM-prefixed public keys (base58 with a ripemd160 checksum),
// and compact recoverable ECDSA signatures over secp256k1.
package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // graphene key checksums are ripemd160 by definition
)

// AddressPrefix is the human-readable prefix of Hive public keys.
const AddressPrefix = "STM"

// wifVersion is the version byte of WIF-encoded private keys.
const wifVersion = 0x80

var (
	ErrInvalidWIF       = errors.New("invalid WIF private key")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidSignature = errors.New("invalid signature")
)

// PublicKey wraps a secp256k1 public key in its Hive string form.
type PublicKey struct {
	raw *secp256k1.PublicKey
}

// PublicKeyFromString parses an STM-prefixed base58 public key and verifies
// its 4-byte ripemd160 checksum.
func PublicKeyFromString(s string) (*PublicKey, error) {
	if !strings.HasPrefix(s, AddressPrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrInvalidPublicKey, AddressPrefix)
	}
	data, err := base58.Decode(strings.TrimPrefix(s, AddressPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(data) != 33+4 {
		return nil, fmt.Errorf("%w: bad length %d", ErrInvalidPublicKey, len(data))
	}
	payload, checksum := data[:33], data[33:]
	if keyChecksum(payload) != [4]byte(checksum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidPublicKey)
	}
	raw, err := secp256k1.ParsePubKey(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return &PublicKey{raw: raw}, nil
}

// String returns the STM-prefixed base58 form.
func (p *PublicKey) String() string {
	payload := p.raw.SerializeCompressed()
	checksum := keyChecksum(payload)
	return AddressPrefix + base58.Encode(append(payload, checksum[:]...))
}

// Equals reports exact byte equality of the compressed key material. No
// prefix or fuzzy matching.
func (p *PublicKey) Equals(other *PublicKey) bool {
	if p == nil || other == nil {
		return false
	}
	return p.raw.IsEqual(other.raw)
}

// keyChecksum is the first 4 bytes of ripemd160 over the serialized key.
// Graphene chains use ripemd160 here, not the bitcoin double-sha256.
func keyChecksum(b []byte) [4]byte {
	h := ripemd160.New()
	h.Write(b)
	var out [4]byte
	copy(out[:], h.Sum(nil))
	return out
}

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	raw *secp256k1.PrivateKey
}

// GeneratePrivateKey returns a fresh random private key.
func GeneratePrivateKey() (*PrivateKey, error) {
	raw, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{raw: raw}, nil
}

// PrivateKeyFromWIF decodes a Wallet Import Format key: base58 over
// 0x80 || key || first 4 bytes of sha256(sha256(0x80 || key)).
func PrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	data, err := base58.Decode(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWIF, err)
	}
	if len(data) != 1+32+4 {
		return nil, fmt.Errorf("%w: bad length %d", ErrInvalidWIF, len(data))
	}
	if data[0] != wifVersion {
		return nil, fmt.Errorf("%w: bad version byte 0x%02x", ErrInvalidWIF, data[0])
	}
	payload, checksum := data[:33], data[33:]
	if wifChecksum(payload) != [4]byte(checksum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidWIF)
	}
	return &PrivateKey{raw: secp256k1.PrivKeyFromBytes(payload[1:])}, nil
}

// ToWIF encodes the key in Wallet Import Format.
func (k *PrivateKey) ToWIF() string {
	payload := make([]byte, 0, 1+32+4)
	payload = append(payload, wifVersion)
	payload = append(payload, k.raw.Serialize()...)
	checksum := wifChecksum(payload)
	return base58.Encode(append(payload, checksum[:]...))
}

// PublicKey derives the corresponding public key.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{raw: k.raw.PubKey()}
}

// Wipe zeroes the underlying key material.
func (k *PrivateKey) Wipe() {
	k.raw.Zero()
}

func wifChecksum(b []byte) [4]byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	var out [4]byte
	copy(out[:], second[:])
	return out
}

// Signature is a 65-byte compact recoverable signature: one header byte
// (27 + recovery id + 4 for a compressed key) followed by r and s.
type Signature []byte

// SignatureFromHex parses the hex encoding used on the wire.
func SignatureFromHex(s string) (Signature, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(b) != 65 {
		return nil, fmt.Errorf("%w: bad length %d", ErrInvalidSignature, len(b))
	}
	return Signature(b), nil
}

func (s Signature) String() string {
	return hex.EncodeToString(s)
}

// Digest returns the sha256 digest signed for a challenge message.
func Digest(message string) []byte {
	h := sha256.Sum256([]byte(message))
	return h[:]
}
