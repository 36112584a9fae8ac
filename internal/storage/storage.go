// Package storage defines the small key-value capability the signer layer
// persists key material through, with in-memory, file-backed, and expiring
// implementations selected by configuration.
package storage

import (
	"fmt"
	"time"

	"github.com/hivegate/hivegate/internal/common"
)

// Storage is a minimal key-value capability. Implementations must be safe
// for concurrent use.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Clear() error
}

// Kind selects a Storage implementation.
type Kind string

const (
	KindMemory  Kind = "memory"
	KindFile    Kind = "file"
	KindSession Kind = "session"
)

// New builds the Storage selected by kind. The file backend keeps one file
// per key under dir; the session backend is memory that forgets entries
// after the given TTL.
func New(kind Kind, opts Options) (Storage, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile:
		return NewFile(opts.Dir)
	case KindSession:
		return NewExpiring(opts.TTL), nil
	default:
		return nil, fmt.Errorf("unknown storage kind %q", kind)
	}
}

// Options carries backend-specific settings; unused fields are ignored.
type Options struct {
	Dir string
	TTL time.Duration
}

var errNotFound = common.ErrKeyNotFound
