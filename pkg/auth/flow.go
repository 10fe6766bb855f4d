package auth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dghubble/oauth1"
	"github.com/pkg/browser"

	apierrors "camset/pkg/errors"
	"camset/pkg/logger"
)

// Flickr OAuth 1.0a handshake endpoints.
const (
	requestTokenURL = "https://www.flickr.com/services/oauth/request_token"
	authorizeURL    = "https://www.flickr.com/services/oauth/authorize"
	accessTokenURL  = "https://www.flickr.com/services/oauth/access_token"
)

// VerifyFunc checks a freshly granted token against the service and
// returns the owning user's NSID and username. Injected so this package
// does not depend on the API client.
type VerifyFunc func(token *Token) (nsid, username string, err error)

// Authorizer obtains an authorized session token. A stored token that
// satisfies the requested permission level is reused without any
// interaction; otherwise the OAuth out-of-band flow runs: request token,
// browser authorization, verifier exchange, persist.
type Authorizer struct {
	config  oauth1.Config
	manager *Manager
	perms   string
	verify  VerifyFunc
	logger  logger.Logger

	// Overridable for tests
	in          io.Reader
	out         io.Writer
	openBrowser func(url string) error
}

// NewAuthorizer creates an Authorizer for the given application
// credentials and requested permission level.
func NewAuthorizer(apiKey, apiSecret, perms string, manager *Manager, verify VerifyFunc) *Authorizer {
	return &Authorizer{
		config: oauth1.Config{
			ConsumerKey:    apiKey,
			ConsumerSecret: apiSecret,
			CallbackURL:    "oob",
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: requestTokenURL,
				AuthorizeURL:    authorizeURL,
				AccessTokenURL:  accessTokenURL,
			},
		},
		manager:     manager,
		perms:       perms,
		verify:      verify,
		logger:      logger.GetLogger(),
		in:          os.Stdin,
		out:         os.Stdout,
		openBrowser: browser.OpenURL,
	}
}

// Token returns an authorized session token, reusing a stored one when it
// satisfies the requested permission level and running the interactive
// flow otherwise. Fails before any network call when the application
// credentials are missing.
func (a *Authorizer) Token() (*Token, error) {
	if a.config.ConsumerKey == "" || a.config.ConsumerSecret == "" {
		return nil, apierrors.ErrMissingCredentials
	}

	if stored, err := a.manager.RetrieveDefault(); err == nil && stored.Valid() {
		if stored.Satisfies(a.perms) {
			a.logger.DebugWithFields("reusing stored token", map[string]interface{}{
				"user_nsid": stored.UserNSID,
				"perms":     stored.Perms,
			})
			return stored, nil
		}
		a.logger.InfoWithFields("stored token has insufficient permissions, re-authorizing", map[string]interface{}{
			"granted":   stored.Perms,
			"requested": a.perms,
		})
	}

	return a.Authorize()
}

// Authorize runs the interactive OAuth flow unconditionally and persists
// the resulting token.
func (a *Authorizer) Authorize() (*Token, error) {
	if a.config.ConsumerKey == "" || a.config.ConsumerSecret == "" {
		return nil, apierrors.ErrMissingCredentials
	}

	requestToken, requestSecret, err := a.config.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain request token: %w", err)
	}

	authURL, err := a.config.AuthorizationURL(requestToken)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization URL: %w", err)
	}

	// Flickr encodes the requested permission level as a query parameter
	// on the authorization page.
	query := authURL.Query()
	query.Set("perms", a.perms)
	authURL.RawQuery = query.Encode()

	fmt.Fprintln(a.out, "Opening your browser to authorize camset with Flickr...")
	fmt.Fprintf(a.out, "If the browser does not open, visit:\n\n  %s\n\n", authURL.String())
	if err := a.openBrowser(authURL.String()); err != nil {
		a.logger.WithError(err).Warn("failed to open browser, continuing with manual URL")
	}

	verifier, err := a.promptVerifier()
	if err != nil {
		return nil, err
	}

	accessToken, accessSecret, err := a.config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}

	token := &Token{
		OAuthToken:  accessToken,
		OAuthSecret: accessSecret,
		Perms:       a.perms,
	}

	if a.verify != nil {
		nsid, username, err := a.verify(token)
		if err != nil {
			return nil, fmt.Errorf("token verification failed: %w", err)
		}
		token.UserNSID = nsid
		token.Username = username
	}

	if token.UserNSID != "" {
		if err := a.manager.Store(token); err != nil {
			// A token that works but could not be persisted is still usable
			// for this run.
			a.logger.WithError(err).Warn("failed to persist token; authorization will repeat next run")
		} else {
			a.logger.InfoWithFields("token stored", map[string]interface{}{
				"user_nsid": token.UserNSID,
				"perms":     token.Perms,
			})
		}
	}

	return token, nil
}

// promptVerifier reads the 9-digit verification code Flickr shows after
// the user grants access.
func (a *Authorizer) promptVerifier() (string, error) {
	fmt.Fprint(a.out, "Enter the verification code shown by Flickr: ")

	reader := bufio.NewReader(a.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read verification code: %w", err)
	}

	verifier := strings.TrimSpace(line)
	if verifier == "" {
		return "", fmt.Errorf("empty verification code")
	}

	return verifier, nil
}
