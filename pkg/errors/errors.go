package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures of Flickr API operations
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypePermission  ErrorType = "permission"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeDuplicate   ErrorType = "duplicate"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a Flickr API error with type information.
// Code carries the Flickr error code from a stat:"fail" envelope,
// or the HTTP status code for transport-level failures.
type Error struct {
	Type    ErrorType
	Method  string
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("%s: %s error (code %d): %s", e.Method, e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// Flickr API error codes shared across methods.
const (
	codeInvalidSignature = 96
	codeMissingSignature = 97
	codeInvalidToken     = 98
	codeInsufficientPerm = 99
	codeInvalidAPIKey    = 100
	codeServiceUnavail   = 105
	codeWriteFailed      = 106
)

// Method-specific Flickr error codes.
const (
	codeExifNotFound   = 1 // flickr.photos.getExif: photo not found
	codeExifPermission = 2 // flickr.photos.getExif: owner disabled EXIF sharing
	codeAddNotFound    = 1 // flickr.photosets.addPhoto: photoset not found
	codeAddPhotoGone   = 2 // flickr.photosets.addPhoto: photo not found
	codeAddDuplicate   = 3 // flickr.photosets.addPhoto: photo already in set
)

// FromFlickrCode maps a stat:"fail" response to a typed error. The method
// name matters: Flickr reuses small code numbers with per-method meanings.
func FromFlickrCode(method string, code int, message string) *Error {
	e := &Error{
		Type:    ErrorTypeUnknown,
		Method:  method,
		Message: message,
		Code:    code,
	}

	switch code {
	case codeInvalidSignature, codeMissingSignature, codeInvalidToken, codeInvalidAPIKey:
		e.Type = ErrorTypeAuth
		return e
	case codeInsufficientPerm:
		e.Type = ErrorTypePermission
		return e
	case codeServiceUnavail, codeWriteFailed:
		e.Type = ErrorTypeServerError
		return e
	}

	switch method {
	case "flickr.photos.getExif":
		switch code {
		case codeExifNotFound:
			e.Type = ErrorTypeNotFound
		case codeExifPermission:
			e.Type = ErrorTypePermission
		}
	case "flickr.photosets.addPhoto":
		switch code {
		case codeAddNotFound, codeAddPhotoGone:
			e.Type = ErrorTypeNotFound
		case codeAddDuplicate:
			e.Type = ErrorTypeDuplicate
		}
	case "flickr.photosets.create":
		if code == 2 {
			e.Type = ErrorTypeNotFound // primary photo not found
		}
	}

	return e
}

// FromHTTPStatus maps a non-200 HTTP response to a typed error.
func FromHTTPStatus(method string, status int) *Error {
	e := &Error{
		Method: method,
		Code:   status,
	}

	switch {
	case status == 401 || status == 403:
		e.Type = ErrorTypeAuth
		e.Message = "authentication rejected"
	case status == 404:
		e.Type = ErrorTypeNotFound
		e.Message = "resource not found"
	case status == 429:
		e.Type = ErrorTypeRateLimit
		e.Message = "rate limit exceeded"
	case status >= 500:
		e.Type = ErrorTypeServerError
		e.Message = "server error"
	default:
		e.Type = ErrorTypeUnknown
		e.Message = fmt.Sprintf("unexpected status code: %d", status)
	}

	return e
}

// IsMetadataUnavailable reports whether err means the photo's owner has
// disabled EXIF sharing. Callers treat this as "no match", not a failure.
func IsMetadataUnavailable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypePermission && apiErr.Method == "flickr.photos.getExif"
	}
	return false
}

// IsDuplicate reports whether err means the photo is already in the photoset.
func IsDuplicate(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeDuplicate
	}
	return false
}

// ErrMissingCredentials is surfaced before any network call is made when
// the API key/secret pair is absent or empty.
var ErrMissingCredentials = errors.New("missing API key or secret")
