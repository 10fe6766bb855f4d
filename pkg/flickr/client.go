package flickr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"camset/pkg/errors"
	"camset/pkg/logger"
)

// Credentials carries the application key/secret pair and, once the
// authorization handshake has completed, the user's access token.
type Credentials struct {
	APIKey      string
	APISecret   string
	OAuthToken  string
	OAuthSecret string
}

// Client is a Flickr REST API client. All requests are signed with
// OAuth 1.0a; write methods additionally require a token granted at
// least "write" permission.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	extras     string
	logger     logger.Logger
}

// NewClient creates a new Flickr API client
func NewClient(creds Credentials, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	oauthConfig := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.OAuthToken, creds.OAuthSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		endpoint:   RestEndpoint,
		apiKey:     creds.APIKey,
		extras:     "machine_tags",
		logger:     log,
	}
}

// SetEndpoint overrides the REST endpoint. Used by tests to point the
// client at a local server.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// SetExtras overrides the extras requested on photo searches.
func (c *Client) SetExtras(extras string) {
	if extras != "" {
		c.extras = extras
	}
}

// statused is implemented by every response type via the embedded Envelope.
type statused interface {
	envelope() *Envelope
}

func (e *Envelope) envelope() *Envelope { return e }

// call invokes a Flickr API method and decodes the JSON response into
// target, mapping stat:"fail" envelopes to typed errors.
func (c *Client) call(method string, params url.Values, write bool, target statused) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("method", method)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	params.Set("nojsoncallback", "1")

	var req *http.Request
	var err error
	if write {
		req, err = http.NewRequest(http.MethodPost, c.endpoint, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequest(http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	}
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Method:  method,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	start := time.Now()
	c.logger.DebugWithFields("calling Flickr API", map[string]interface{}{
		"method": method,
		"http":   req.Method,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("Flickr API request failed", map[string]interface{}{
			"method": method,
			"error":  err.Error(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Method:  method,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.ErrorWithFields("Flickr API returned non-OK status", map[string]interface{}{
			"method": method,
			"status": resp.StatusCode,
		})
		return errors.FromHTTPStatus(method, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Method:  method,
			Message: fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse Flickr response", map[string]interface{}{
			"method":       method,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Method:  method,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
		}
	}

	env := target.envelope()
	if env.Stat != "ok" {
		c.logger.WarnWithFields("Flickr API call failed", map[string]interface{}{
			"method":  method,
			"code":    env.Code,
			"message": env.Message,
		})
		return errors.FromFlickrCode(method, env.Code, env.Message)
	}

	c.logger.DebugWithFields("Flickr API call completed", map[string]interface{}{
		"method":   method,
		"duration": time.Since(start),
	})

	return nil
}

// SearchPhotos fetches one page of a user's photostream, with machine tags
// included. userID may be the "me" sentinel. perPage is clamped to the
// service maximum.
func (c *Client) SearchPhotos(userID string, page, perPage int) (*PhotoPage, error) {
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("extras", c.extras)
	params.Set("per_page", strconv.Itoa(ClampPerPage(perPage)))
	params.Set("page", strconv.Itoa(page))

	var result SearchResponse
	if err := c.call(MethodSearch, params, false, &result); err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("photo page fetched", map[string]interface{}{
		"user_id": userID,
		"page":    result.Photos.Page,
		"pages":   result.Photos.Pages,
		"count":   len(result.Photos.Photos),
	})

	return &result.Photos, nil
}

// GetExif fetches the EXIF tag list for a single photo. Fails with a
// permission-typed error when the owner has disabled EXIF sharing;
// callers check errors.IsMetadataUnavailable for that condition.
func (c *Client) GetExif(photoID string) ([]ExifTag, error) {
	params := url.Values{}
	params.Set("photo_id", photoID)

	var result ExifResponse
	if err := c.call(MethodGetExif, params, false, &result); err != nil {
		return nil, err
	}

	return result.Photo.Exif, nil
}

// CreatePhotoset creates a new photoset with the given primary photo and
// returns the new photoset's ID. The primary photo becomes the cover and
// is implicitly a member of the set.
func (c *Client) CreatePhotoset(title, description, primaryPhotoID string) (string, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("primary_photo_id", primaryPhotoID)
	if description != "" {
		params.Set("description", description)
	}

	var result PhotosetResponse
	if err := c.call(MethodCreateSet, params, true, &result); err != nil {
		return "", err
	}

	c.logger.InfoWithFields("photoset created", map[string]interface{}{
		"photoset_id": result.Photoset.ID,
		"title":       title,
	})

	return result.Photoset.ID, nil
}

// AddPhoto adds a photo to an existing photoset. Adding a photo that is
// already a member fails with a duplicate-typed error.
func (c *Client) AddPhoto(photosetID, photoID string) error {
	params := url.Values{}
	params.Set("photoset_id", photosetID)
	params.Set("photo_id", photoID)

	var result struct{ Envelope }
	return c.call(MethodAddToSet, params, true, &result)
}

// TestLoginResponse is the flickr.test.login payload.
type TestLoginResponse struct {
	Envelope
	User struct {
		ID       string  `json:"id"`
		Username Content `json:"username"`
	} `json:"user"`
}

// TestLogin verifies the signed session against the service and returns
// the authenticated user's NSID and username.
func (c *Client) TestLogin() (userID, username string, err error) {
	var result TestLoginResponse
	if err := c.call(MethodTestLogin, nil, false, &result); err != nil {
		return "", "", err
	}
	return result.User.ID, result.User.Username.Content, nil
}
