package flickr

import "strings"

const (
	// RestEndpoint is the Flickr REST API endpoint all methods are invoked against
	RestEndpoint = "https://api.flickr.com/services/rest/"

	// OAuth 1.0a handshake endpoints
	RequestTokenURL = "https://www.flickr.com/services/oauth/request_token"
	AuthorizeURL    = "https://www.flickr.com/services/oauth/authorize"
	AccessTokenURL  = "https://www.flickr.com/services/oauth/access_token"

	// API method names
	MethodSearch    = "flickr.photos.search"
	MethodGetExif   = "flickr.photos.getExif"
	MethodCreateSet = "flickr.photosets.create"
	MethodAddToSet  = "flickr.photosets.addPhoto"
	MethodTestLogin = "flickr.test.login"

	// UserMe is the sentinel user ID meaning "the authenticated user"
	UserMe = "me"

	// MaxPerPage is the largest page size flickr.photos.search accepts
	MaxPerPage = 500

	// MaxSearchResults is the hard cap the service places on any search.
	// Photostreams larger than this are silently truncated.
	MaxSearchResults = 4000
)

// ClampPerPage bounds a requested page size to what the service accepts.
func ClampPerPage(perPage int) int {
	if perPage <= 0 || perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// IsValidUserID reports whether id is the "me" sentinel or has the NSID
// form Flickr assigns to accounts, e.g. "87729121@N00".
func IsValidUserID(id string) bool {
	if id == UserMe {
		return true
	}

	at := strings.IndexByte(id, '@')
	if at <= 0 || at == len(id)-1 {
		return false
	}

	for _, r := range id[:at] {
		if r < '0' || r > '9' {
			return false
		}
	}

	suffix := id[at+1:]
	if len(suffix) < 2 || suffix[0] != 'N' {
		return false
	}
	for _, r := range suffix[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
