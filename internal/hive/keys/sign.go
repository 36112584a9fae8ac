package keys

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SignDigest produces a compact recoverable signature over a 32-byte digest.
// The compressed-key header form is what Hive nodes expect.
func SignDigest(key *PrivateKey, digest []byte) (Signature, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("%w: digest must be 32 bytes, got %d", ErrInvalidSignature, len(digest))
	}
	return Signature(ecdsa.SignCompact(key.raw, digest, true)), nil
}

// RecoverDigest derives the public key that produced sig over digest.
func RecoverDigest(sig Signature, digest []byte) (*PublicKey, error) {
	if len(sig) != 65 {
		return nil, fmt.Errorf("%w: bad length %d", ErrInvalidSignature, len(sig))
	}
	pub, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return &PublicKey{raw: pub}, nil
}
