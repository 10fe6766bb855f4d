package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validToken(nsid string) *Token {
	return &Token{
		OAuthToken:  "72157600000000000-aaaabbbbccccdddd",
		OAuthSecret: "eeeeffffgggghhhh",
		UserNSID:    nsid,
		Username:    "testuser",
		Perms:       "write",
	}
}

func TestTokenSatisfies(t *testing.T) {
	tests := []struct {
		granted   string
		requested string
		expected  bool
	}{
		{"read", "read", true},
		{"write", "read", true},
		{"write", "write", true},
		{"delete", "write", true},
		{"delete", "delete", true},
		{"read", "write", false},
		{"write", "delete", false},
		{"", "read", false},
		{"bogus", "read", false},
		{"WRITE", "write", true},
	}

	for _, tt := range tests {
		t.Run(tt.granted+"/"+tt.requested, func(t *testing.T) {
			token := &Token{Perms: tt.granted}
			assert.Equal(t, tt.expected, token.Satisfies(tt.requested))
		})
	}
}

func TestTokenValid(t *testing.T) {
	assert.True(t, validToken("87729121@N00").Valid())
	assert.False(t, (&Token{OAuthSecret: "s"}).Valid())
	assert.False(t, (&Token{OAuthToken: "t"}).Valid())

	var nilToken *Token
	assert.False(t, nilToken.Valid())
}

func TestManagerStoreAndRetrieve(t *testing.T) {
	manager, store := NewMockManager()

	token := validToken("87729121@N00")
	require.NoError(t, manager.Store(token))
	assert.Equal(t, 1, store.Count())

	got, err := manager.Retrieve("87729121@N00")
	require.NoError(t, err)
	assert.Equal(t, token.OAuthToken, got.OAuthToken)
	assert.False(t, got.LastModified.IsZero())
}

func TestManagerStoreRejectsInvalid(t *testing.T) {
	manager, _ := NewMockManager()

	err := manager.Store(&Token{UserNSID: "87729121@N00"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	err = manager.Store(&Token{OAuthToken: "t", OAuthSecret: "s"})
	assert.Error(t, err)
}

func TestManagerRetrieveNotFound(t *testing.T) {
	manager, _ := NewMockManager()

	_, err := manager.Retrieve("87729121@N00")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keyring locked")
	broken.RetrieveError = errors.New("keyring locked")
	working := NewMockStore()

	manager := NewManagerWithStores(broken, working)

	token := validToken("87729121@N00")
	require.NoError(t, manager.Store(token))
	assert.Zero(t, broken.Count())
	assert.Equal(t, 1, working.Count())

	got, err := manager.Retrieve("87729121@N00")
	require.NoError(t, err)
	assert.Equal(t, token.OAuthToken, got.OAuthToken)
}

func TestManagerRetrieveDefaultPrefersEnvironment(t *testing.T) {
	t.Setenv("CAMSET_OAUTH_TOKEN", "env-token")
	t.Setenv("CAMSET_OAUTH_TOKEN_SECRET", "env-secret")
	t.Setenv("CAMSET_USER_NSID", "99999999@N00")

	fileStore := NewMockStore()
	require.NoError(t, fileStore.Store(validToken("87729121@N00")))

	manager := NewManagerWithStores(fileStore, NewEnvironmentStore())

	got, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "env-token", got.OAuthToken)
	assert.Equal(t, "99999999@N00", got.UserNSID)
}

func TestManagerRetrieveDefaultPicksNewest(t *testing.T) {
	store := NewMockStore()

	older := validToken("11111111@N00")
	older.LastModified = time.Now().Add(-time.Hour)
	newer := validToken("22222222@N00")
	newer.LastModified = time.Now()

	store.tokens[older.UserNSID] = older
	store.tokens[newer.UserNSID] = newer

	manager := NewManagerWithStores(store)

	got, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "22222222@N00", got.UserNSID)
}

func TestManagerDelete(t *testing.T) {
	manager, store := NewMockManager()
	require.NoError(t, manager.Store(validToken("87729121@N00")))

	require.NoError(t, manager.Delete("87729121@N00"))
	assert.Zero(t, store.Count())

	err := manager.Delete("87729121@N00")
	assert.Error(t, err)
}

func TestSanitizeMasksSecrets(t *testing.T) {
	token := validToken("87729121@N00")
	clean := Sanitize(token)

	assert.Equal(t, "********", clean.OAuthSecret)
	assert.NotEqual(t, token.OAuthToken, clean.OAuthToken)
	assert.Contains(t, clean.OAuthToken, "...")
	assert.Equal(t, token.UserNSID, clean.UserNSID)
	assert.Equal(t, token.Username, clean.Username)

	// original untouched
	assert.Equal(t, "eeeeffffgggghhhh", token.OAuthSecret)

	assert.Nil(t, Sanitize(nil))
}

func TestMaskStringShortValues(t *testing.T) {
	assert.Equal(t, "********", maskString("short"))
	assert.Equal(t, "1234...cdef", maskString("123456789abcdef"))
}
