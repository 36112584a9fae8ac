package keystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
	"github.com/hivegate/hivegate/internal/storage"
)

func newStoreWithKey(t *testing.T) (*Store, *keys.PrivateKey) {
	t.Helper()
	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	s := NewStore(storage.NewMemory())
	require.NoError(t, s.ImportKey("alice", authority.KeyTypePosting, key.ToWIF(), []byte("hunter2")))
	return s, key
}

func TestStore_ImportUnlockSign(t *testing.T) {
	t.Parallel()

	s, key := newStoreWithKey(t)

	// Locked until unlocked.
	_, err := s.Key("alice", authority.KeyTypePosting)
	assert.ErrorIs(t, err, common.ErrStoreLocked)

	require.NoError(t, s.Unlock("alice", authority.KeyTypePosting, []byte("hunter2")))

	unlocked, err := s.Key("alice", authority.KeyTypePosting)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().String(), unlocked.PublicKey().String())
}

func TestStore_WrongPassword(t *testing.T) {
	t.Parallel()

	s, _ := newStoreWithKey(t)
	err := s.Unlock("alice", authority.KeyTypePosting, []byte("wrong"))
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestStore_UnlockMissingKey(t *testing.T) {
	t.Parallel()

	s := NewStore(storage.NewMemory())
	err := s.Unlock("bob", authority.KeyTypeActive, []byte("pw"))
	assert.ErrorIs(t, err, common.ErrKeyNotFound)
}

func TestStore_ImportRejectsBadWIF(t *testing.T) {
	t.Parallel()

	s := NewStore(storage.NewMemory())
	err := s.ImportKey("alice", authority.KeyTypePosting, "not-a-wif", []byte("pw"))
	assert.ErrorIs(t, err, keys.ErrInvalidWIF)
}

func TestStore_LockForgetsKey(t *testing.T) {
	t.Parallel()

	s, _ := newStoreWithKey(t)
	require.NoError(t, s.Unlock("alice", authority.KeyTypePosting, []byte("hunter2")))

	s.Lock("alice", authority.KeyTypePosting)
	_, err := s.Key("alice", authority.KeyTypePosting)
	assert.ErrorIs(t, err, common.ErrStoreLocked)

	// Sealed copy survives; unlocking again works.
	require.NoError(t, s.Unlock("alice", authority.KeyTypePosting, []byte("hunter2")))
}

func TestStore_RemoveKey(t *testing.T) {
	t.Parallel()

	s, _ := newStoreWithKey(t)
	assert.True(t, s.HasKey("alice", authority.KeyTypePosting))

	require.NoError(t, s.RemoveKey("alice", authority.KeyTypePosting))
	assert.False(t, s.HasKey("alice", authority.KeyTypePosting))
	assert.ErrorIs(t, s.Unlock("alice", authority.KeyTypePosting, []byte("hunter2")), common.ErrKeyNotFound)
}
