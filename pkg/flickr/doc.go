// Package flickr implements the Flickr REST API surface camset consumes:
// photostream search, per-photo EXIF lookup, photoset creation and
// membership, and a login probe. Requests are OAuth 1.0a signed; stat:"fail"
// envelopes are mapped to the typed errors of camset/pkg/errors.
package flickr
