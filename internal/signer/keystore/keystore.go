// Package keystore is the local encrypted key store behind the hbauth
// signer. Each key is sealed with AES-GCM under an argon2id-derived key and
// persisted through the storage capability; signing requires unlocking with
// the password first.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
	"github.com/hivegate/hivegate/internal/storage"
)

// ErrWrongPassword is returned when a sealed key fails to decrypt.
var ErrWrongPassword = errors.New("wrong password")

// sealedKey is the persisted form of one encrypted private key.
type sealedKey struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Store holds sealed keys in a Storage backend and unlocked keys in memory.
type Store struct {
	storage storage.Storage

	mu       sync.Mutex
	unlocked map[string]*keys.PrivateKey
}

func NewStore(s storage.Storage) *Store {
	return &Store{
		storage:  s,
		unlocked: make(map[string]*keys.PrivateKey),
	}
}

func storageKey(account string, keyType authority.KeyType) string {
	return account + "/" + string(keyType)
}

// ImportKey seals a WIF under the password and persists it.
func (s *Store) ImportKey(account string, keyType authority.KeyType, wif string, password []byte) error {
	if _, err := keys.PrivateKeyFromWIF(wif); err != nil {
		return err
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("salt: %w", err)
	}
	nonce := make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("nonce: %w", err)
	}

	aead, err := newAEAD(deriveKey(password, salt))
	if err != nil {
		return err
	}

	blob, err := json.Marshal(sealedKey{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, []byte(wif), nil),
	})
	if err != nil {
		return err
	}
	return s.storage.Set(storageKey(account, keyType), blob)
}

// Unlock decrypts the sealed key and caches it for signing. Repeated unlocks
// with the right password are idempotent.
func (s *Store) Unlock(account string, keyType authority.KeyType, password []byte) error {
	blob, err := s.storage.Get(storageKey(account, keyType))
	if err != nil {
		return err
	}

	var sealed sealedKey
	if err := json.Unmarshal(blob, &sealed); err != nil {
		return fmt.Errorf("corrupt sealed key: %w", err)
	}

	aead, err := newAEAD(deriveKey(password, sealed.Salt))
	if err != nil {
		return err
	}
	wif, err := aead.Open(nil, sealed.Nonce, sealed.Ciphertext, nil)
	if err != nil {
		return ErrWrongPassword
	}
	defer common.WipeByteArray(wif)

	key, err := keys.PrivateKeyFromWIF(string(wif))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked[storageKey(account, keyType)] = key
	return nil
}

// Key returns the unlocked private key, or common.ErrStoreLocked when the
// account's key has not been unlocked in this process.
func (s *Store) Key(account string, keyType authority.KeyType) (*keys.PrivateKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.unlocked[storageKey(account, keyType)]
	if !ok {
		return nil, common.ErrStoreLocked
	}
	return key, nil
}

// Lock wipes the cached key material for one account/key type.
func (s *Store) Lock(account string, keyType authority.KeyType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := storageKey(account, keyType)
	if key, ok := s.unlocked[k]; ok {
		key.Wipe()
		delete(s.unlocked, k)
	}
}

// LockAll wipes every cached key.
func (s *Store) LockAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, key := range s.unlocked {
		key.Wipe()
		delete(s.unlocked, k)
	}
}

// RemoveKey deletes the sealed key and any unlocked copy.
func (s *Store) RemoveKey(account string, keyType authority.KeyType) error {
	s.Lock(account, keyType)
	return s.storage.Remove(storageKey(account, keyType))
}

// HasKey reports whether a sealed key exists for account/keyType.
func (s *Store) HasKey(account string, keyType authority.KeyType) bool {
	_, err := s.storage.Get(storageKey(account, keyType))
	return err == nil
}

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
