package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Token is a persisted Flickr OAuth access token. It is the capability
// handle every API call is signed with; Perms records the permission
// level the user granted when authorizing.
type Token struct {
	OAuthToken   string    `json:"oauth_token"`
	OAuthSecret  string    `json:"oauth_token_secret"`
	UserNSID     string    `json:"user_nsid"`
	Username     string    `json:"username"`
	Perms        string    `json:"perms"`
	LastModified time.Time `json:"last_modified"`
}

// permRank orders Flickr permission levels. Higher grants include lower ones.
func permRank(perms string) int {
	switch strings.ToLower(perms) {
	case "read":
		return 1
	case "write":
		return 2
	case "delete":
		return 3
	default:
		return 0
	}
}

// Satisfies reports whether the token's granted permission level covers
// the requested one.
func (t *Token) Satisfies(perms string) bool {
	granted := permRank(t.Perms)
	return granted > 0 && granted >= permRank(perms)
}

// Valid reports whether the token carries the fields needed to sign a call.
func (t *Token) Valid() bool {
	return t != nil && t.OAuthToken != "" && t.OAuthSecret != ""
}

// TokenStore is the interface for persisting authorization tokens
type TokenStore interface {
	// Store saves a token keyed by the owning user's NSID
	Store(token *Token) error

	// Retrieve gets the token for a specific user NSID
	Retrieve(nsid string) (*Token, error)

	// List returns all stored tokens
	List() ([]*Token, error)

	// Delete removes the token for a specific user NSID
	Delete(nsid string) error

	// Exists checks if a token exists for a user NSID
	Exists(nsid string) bool
}

// Manager handles token storage with fallback mechanisms
type Manager struct {
	stores []TokenStore
}

// NewManager creates a token manager with the available storage backends:
// system keyring when present, encrypted file always, environment
// variables as a read-only last resort.
func NewManager() (*Manager, error) {
	var stores []TokenStore

	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "token.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager backed by the given stores.
// Used by tests and by callers that need a custom backend order.
func NewManagerWithStores(stores ...TokenStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the token using the first store that accepts it
func (m *Manager) Store(token *Token) error {
	if !token.Valid() {
		return ErrInvalidToken
	}
	if token.UserNSID == "" {
		return errors.New("user NSID is required")
	}

	token.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(token); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store token: %w", lastErr)
	}
	return errors.New("no available token stores")
}

// Retrieve gets the token for a user from the first store that has it
func (m *Manager) Retrieve(nsid string) (*Token, error) {
	for _, store := range m.stores {
		if token, err := store.Retrieve(nsid); err == nil && token != nil {
			return token, nil
		}
	}
	return nil, fmt.Errorf("%w for user %s", ErrTokenNotFound, nsid)
}

// RetrieveDefault gets the first available token: environment first for
// non-interactive use, then the most recently stored token.
func (m *Manager) RetrieveDefault() (*Token, error) {
	if len(m.stores) > 0 {
		if envStore, ok := m.stores[len(m.stores)-1].(*EnvironmentStore); ok {
			if token, err := envStore.Retrieve(""); err == nil && token != nil {
				return token, nil
			}
		}
	}

	tokens, err := m.List()
	if err == nil && len(tokens) > 0 {
		newest := tokens[0]
		for _, t := range tokens[1:] {
			if t.LastModified.After(newest.LastModified) {
				newest = t
			}
		}
		return newest, nil
	}

	return nil, ErrTokenNotFound
}

// List returns all stored tokens across all stores, newest version of
// each user winning.
func (m *Manager) List() ([]*Token, error) {
	tokenMap := make(map[string]*Token)

	for _, store := range m.stores {
		tokens, err := store.List()
		if err != nil {
			continue
		}
		for _, token := range tokens {
			if existing, ok := tokenMap[token.UserNSID]; !ok || token.LastModified.After(existing.LastModified) {
				tokenMap[token.UserNSID] = token
			}
		}
	}

	var result []*Token
	for _, token := range tokenMap {
		result = append(result, token)
	}

	return result, nil
}

// Delete removes the token for a user from all stores
func (m *Manager) Delete(nsid string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(nsid); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete token: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("%w for user %s", ErrTokenNotFound, nsid)
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "camset")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "camset")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "camset")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "camset")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Sanitize returns a copy of the token with secret material masked,
// suitable for display.
func Sanitize(token *Token) *Token {
	if token == nil {
		return nil
	}

	return &Token{
		OAuthToken:   maskString(token.OAuthToken),
		OAuthSecret:  "********",
		UserNSID:     token.UserNSID,
		Username:     token.Username,
		Perms:        token.Perms,
		LastModified: token.LastModified,
	}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrStoreUnavailable = errors.New("token store unavailable")
)
