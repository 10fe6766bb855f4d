package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptedStore(t *testing.T) *EncryptedFileStore {
	t.Helper()
	t.Setenv("CAMSET_PASSPHRASE", "test-passphrase")

	store, err := NewEncryptedFileStore(filepath.Join(t.TempDir(), "token.enc"))
	require.NoError(t, err)
	return store
}

func TestEncryptedStoreRoundTrip(t *testing.T) {
	store := newTestEncryptedStore(t)

	token := validToken("87729121@N00")
	require.NoError(t, store.Store(token))

	got, err := store.Retrieve("87729121@N00")
	require.NoError(t, err)
	assert.Equal(t, token.OAuthToken, got.OAuthToken)
	assert.Equal(t, token.OAuthSecret, got.OAuthSecret)
	assert.Equal(t, "write", got.Perms)
}

func TestEncryptedStoreFileIsOpaque(t *testing.T) {
	store := newTestEncryptedStore(t)
	require.NoError(t, store.Store(validToken("87729121@N00")))

	content, err := os.ReadFile(store.filepath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "87729121@N00")
	assert.NotContains(t, string(content), "eeeeffffgggghhhh")
}

func TestEncryptedStoreWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.enc")

	t.Setenv("CAMSET_PASSPHRASE", "first")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(validToken("87729121@N00")))

	t.Setenv("CAMSET_PASSPHRASE", "second")
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	_, err = reopened.Retrieve("87729121@N00")
	assert.Error(t, err)
}

func TestEncryptedStoreDeleteRemovesEmptyFile(t *testing.T) {
	store := newTestEncryptedStore(t)
	require.NoError(t, store.Store(validToken("87729121@N00")))
	require.NoError(t, store.Delete("87729121@N00"))

	_, err := os.Stat(store.filepath)
	assert.True(t, os.IsNotExist(err))

	assert.False(t, store.Exists("87729121@N00"))
}

func TestEncryptedStoreList(t *testing.T) {
	store := newTestEncryptedStore(t)

	tokens, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, tokens)

	require.NoError(t, store.Store(validToken("11111111@N00")))
	require.NoError(t, store.Store(validToken("22222222@N00")))

	tokens, err = store.List()
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
}
