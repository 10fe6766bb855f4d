package auth

import "os"

// EnvironmentStore implements TokenStore backed by environment variables.
// It is read-only and exists for non-interactive use (CI, cron): set
// CAMSET_OAUTH_TOKEN and CAMSET_OAUTH_TOKEN_SECRET, optionally
// CAMSET_USER_NSID and CAMSET_TOKEN_PERMS.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-backed token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (s *EnvironmentStore) Store(token *Token) error {
	return ErrStoreUnavailable
}

// Retrieve builds a token from environment variables. The nsid argument
// is ignored; the environment holds at most one token.
func (s *EnvironmentStore) Retrieve(nsid string) (*Token, error) {
	token := &Token{
		OAuthToken:  os.Getenv("CAMSET_OAUTH_TOKEN"),
		OAuthSecret: os.Getenv("CAMSET_OAUTH_TOKEN_SECRET"),
		UserNSID:    os.Getenv("CAMSET_USER_NSID"),
		Perms:       os.Getenv("CAMSET_TOKEN_PERMS"),
	}

	if !token.Valid() {
		return nil, ErrTokenNotFound
	}

	// Without an explicit perms hint, assume the broadest use the tool
	// itself needs; the service rejects under-privileged calls anyway.
	if token.Perms == "" {
		token.Perms = "write"
	}

	return token, nil
}

// List returns the environment token if present
func (s *EnvironmentStore) List() ([]*Token, error) {
	token, err := s.Retrieve("")
	if err != nil {
		return []*Token{}, nil
	}
	return []*Token{token}, nil
}

// Delete is not supported for environment variables
func (s *EnvironmentStore) Delete(nsid string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment holds a usable token
func (s *EnvironmentStore) Exists(nsid string) bool {
	token, err := s.Retrieve(nsid)
	return err == nil && token != nil
}
