package signer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
	"github.com/hivegate/hivegate/internal/signer/keystore"
	"github.com/hivegate/hivegate/internal/storage"
)

type fakeChain struct {
	lastTx json.RawMessage
	err    error
}

func (f *fakeChain) BroadcastTransaction(_ context.Context, tx json.RawMessage) (json.RawMessage, error) {
	f.lastTx = tx
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"id":"tx1"}`), nil
}

func TestParseLoginType(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"wif", "hbauth", "keychain", "hiveauth"} {
		lt, err := ParseLoginType(s)
		require.NoError(t, err)
		assert.Equal(t, LoginType(s), lt)
	}

	for _, s := range []string{"", "WIF", "password", "steemlogin"} {
		_, err := ParseLoginType(s)
		assert.ErrorIs(t, err, common.ErrInvalidLoginType, "loginType %q", s)
	}
}

func TestNew_UnknownLoginType(t *testing.T) {
	t.Parallel()

	_, err := New(LoginType("bogus"), Deps{})
	assert.ErrorIs(t, err, common.ErrInvalidLoginType)
}

func TestWIFSigner_SignChallenge(t *testing.T) {
	t.Parallel()

	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	s, err := NewWIFSigner(key.ToWIF(), nil)
	require.NoError(t, err)

	sig, err := s.SignChallenge(context.Background(), "challenge-uuid", nil)
	require.NoError(t, err)

	recovered, err := keys.RecoverDigest(sig, keys.Digest("challenge-uuid"))
	require.NoError(t, err)
	assert.True(t, key.PublicKey().Equals(recovered))
}

func TestWIFSigner_RejectsBadWIF(t *testing.T) {
	t.Parallel()

	_, err := NewWIFSigner("garbage", nil)
	assert.ErrorIs(t, err, keys.ErrInvalidWIF)
}

func TestWIFSigner_DestroyForbidsReuse(t *testing.T) {
	t.Parallel()

	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	s, err := NewWIFSigner(key.ToWIF(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Destroy())

	_, err = s.SignChallenge(context.Background(), "msg", nil)
	assert.Error(t, err)
}

func TestWIFSigner_BroadcastTransaction(t *testing.T) {
	t.Parallel()

	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	chain := &fakeChain{}
	s, err := NewWIFSigner(key.ToWIF(), chain)
	require.NoError(t, err)

	result, err := s.BroadcastTransaction(context.Background(), json.RawMessage(`{"operations":[]}`))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotNil(t, chain.lastTx)

	var signed SignedTransaction
	require.NoError(t, json.Unmarshal(chain.lastTx, &signed))
	assert.Len(t, signed.Signatures, 1)
}

func TestWIFSigner_BroadcastFailureIsReported(t *testing.T) {
	t.Parallel()

	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	s, err := NewWIFSigner(key.ToWIF(), &fakeChain{err: errors.New("node down")})
	require.NoError(t, err)

	result, err := s.BroadcastTransaction(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "node down")
}

func TestHbauthSigner_SignsAfterUnlock(t *testing.T) {
	t.Parallel()

	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	store := keystore.NewStore(storage.NewMemory())
	require.NoError(t, store.ImportKey("alice", authority.KeyTypePosting, key.ToWIF(), []byte("pw")))

	s, err := New(LoginTypeHbauth, Deps{
		Account:  "alice",
		KeyType:  authority.KeyTypePosting,
		Keystore: store,
	})
	require.NoError(t, err)

	// Locked, no password: signing fails.
	_, err = s.SignChallenge(context.Background(), "msg", nil)
	assert.ErrorIs(t, err, common.ErrStoreLocked)

	// Password supplied: unlock and sign.
	sig, err := s.SignChallenge(context.Background(), "msg", []byte("pw"))
	require.NoError(t, err)

	recovered, err := keys.RecoverDigest(sig, keys.Digest("msg"))
	require.NoError(t, err)
	assert.True(t, key.PublicKey().Equals(recovered))

	// Destroy locks the store again.
	require.NoError(t, s.Destroy())
	_, err = s.SignChallenge(context.Background(), "msg", nil)
	assert.ErrorIs(t, err, common.ErrStoreLocked)
}

func TestHbauthSigner_WrongPassword(t *testing.T) {
	t.Parallel()

	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	store := keystore.NewStore(storage.NewMemory())
	require.NoError(t, store.ImportKey("alice", authority.KeyTypePosting, key.ToWIF(), []byte("pw")))

	s, err := NewHbauthSigner("alice", authority.KeyTypePosting, store, nil)
	require.NoError(t, err)

	_, err = s.SignChallenge(context.Background(), "msg", []byte("nope"))
	assert.ErrorIs(t, err, keystore.ErrWrongPassword)
}
