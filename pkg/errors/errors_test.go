package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFlickrCode(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		code     int
		expected ErrorType
	}{
		{"invalid signature", "flickr.photos.search", 96, ErrorTypeAuth},
		{"invalid token", "flickr.photosets.create", 98, ErrorTypeAuth},
		{"insufficient permissions", "flickr.photosets.create", 99, ErrorTypePermission},
		{"invalid api key", "flickr.photos.search", 100, ErrorTypeAuth},
		{"service unavailable", "flickr.photos.search", 105, ErrorTypeServerError},
		{"write failed", "flickr.photosets.addPhoto", 106, ErrorTypeServerError},
		{"exif photo not found", "flickr.photos.getExif", 1, ErrorTypeNotFound},
		{"exif permission denied", "flickr.photos.getExif", 2, ErrorTypePermission},
		{"photoset not found", "flickr.photosets.addPhoto", 1, ErrorTypeNotFound},
		{"photo already in set", "flickr.photosets.addPhoto", 3, ErrorTypeDuplicate},
		{"create primary not found", "flickr.photosets.create", 2, ErrorTypeNotFound},
		{"unrecognized code", "flickr.photos.search", 42, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromFlickrCode(tt.method, tt.code, "message")
			assert.Equal(t, tt.expected, err.Type)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.method, err.Method)
		})
	}
}

func TestFromHTTPStatus(t *testing.T) {
	assert.Equal(t, ErrorTypeAuth, FromHTTPStatus("flickr.photos.search", 401).Type)
	assert.Equal(t, ErrorTypeNotFound, FromHTTPStatus("flickr.photos.search", 404).Type)
	assert.Equal(t, ErrorTypeRateLimit, FromHTTPStatus("flickr.photos.search", 429).Type)
	assert.Equal(t, ErrorTypeServerError, FromHTTPStatus("flickr.photos.search", 503).Type)
	assert.Equal(t, ErrorTypeUnknown, FromHTTPStatus("flickr.photos.search", 418).Type)
}

func TestIsMetadataUnavailable(t *testing.T) {
	exifDenied := FromFlickrCode("flickr.photos.getExif", 2, "Permission denied")
	assert.True(t, IsMetadataUnavailable(exifDenied))

	// Permission error on a different method is not a metadata condition.
	permsDenied := FromFlickrCode("flickr.photosets.create", 99, "Insufficient permissions")
	assert.False(t, IsMetadataUnavailable(permsDenied))

	assert.False(t, IsMetadataUnavailable(fmt.Errorf("plain error")))
	assert.False(t, IsMetadataUnavailable(nil))
}

func TestIsDuplicate(t *testing.T) {
	dup := FromFlickrCode("flickr.photosets.addPhoto", 3, "Photo already in set")
	assert.True(t, IsDuplicate(dup))

	wrapped := fmt.Errorf("adding photo: %w", dup)
	assert.True(t, IsDuplicate(wrapped))

	assert.False(t, IsDuplicate(FromFlickrCode("flickr.photosets.addPhoto", 2, "Photo not found")))
}

func TestErrorString(t *testing.T) {
	err := FromFlickrCode("flickr.photos.getExif", 2, "Permission denied")
	assert.Contains(t, err.Error(), "flickr.photos.getExif")
	assert.Contains(t, err.Error(), "permission")
	assert.Contains(t, err.Error(), "Permission denied")
}
