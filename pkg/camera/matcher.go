package camera

import (
	"strings"

	"camset/pkg/errors"
	"camset/pkg/flickr"
	"camset/pkg/logger"
)

// ExifSource is the per-photo metadata lookup the fallback path uses.
// *flickr.Client satisfies it.
type ExifSource interface {
	GetExif(photoID string) ([]flickr.ExifTag, error)
}

// Matcher decides whether photos were taken with a target camera model.
//
// Two tiers: a machine-tag fast path that costs no network call, and a
// per-photo EXIF lookup for everything the fast path misses. The
// comparisons are deliberately asymmetric — normalized substring for
// machine tags, exact case-insensitive equality for EXIF model strings —
// because machine tags are curated and EXIF values are free text.
type Matcher struct {
	exif   ExifSource
	model  string
	logger logger.Logger
}

// NewMatcher creates a Matcher for the given target camera model.
func NewMatcher(exif ExifSource, model string, log logger.Logger) *Matcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Matcher{
		exif:   exif,
		model:  model,
		logger: log,
	}
}

// Normalize lower-cases s and strips spaces, hyphens and underscores, so
// "Canon EOS 7D Mark II", "canon-eos-7d-mark-ii" and "canon_eos_7d_mark_ii"
// all collapse to the same string.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '-', '_':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchesMachineTags reports whether the normalized target model occurs
// as a substring of the normalized machine-tag string.
func MatchesMachineTags(machineTags, model string) bool {
	if machineTags == "" {
		return false
	}
	return strings.Contains(Normalize(machineTags), Normalize(model))
}

// matchesExif scans an EXIF tag list for a Model entry and compares its
// value to the target, exact and case-insensitive.
func matchesExif(tags []flickr.ExifTag, model string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag.Label, "Model") || strings.EqualFold(tag.Tag, "Model") {
			if strings.EqualFold(tag.Raw.Content, model) {
				return true
			}
		}
	}
	return false
}

// Match decides whether a single photo was taken with the target model.
// The machine-tag fast path costs nothing; otherwise exactly one EXIF
// lookup is issued. A photo whose owner has disabled EXIF sharing is an
// expected no-match, not an error.
func (m *Matcher) Match(photo flickr.Photo) (bool, error) {
	if MatchesMachineTags(photo.MachineTags, m.model) {
		m.logger.DebugWithFields("matched by machine tags", map[string]interface{}{
			"photo_id": photo.ID,
		})
		return true, nil
	}

	tags, err := m.exif.GetExif(photo.ID)
	if err != nil {
		if errors.IsMetadataUnavailable(err) {
			m.logger.DebugWithFields("EXIF unavailable, treating as no match", map[string]interface{}{
				"photo_id": photo.ID,
			})
			return false, nil
		}
		return false, err
	}

	if matchesExif(tags, m.model) {
		m.logger.DebugWithFields("matched by EXIF model", map[string]interface{}{
			"photo_id": photo.ID,
		})
		return true, nil
	}

	return false, nil
}

// FilterPhotos returns the IDs of all photos taken with the target model,
// in the input order, with duplicates removed.
func (m *Matcher) FilterPhotos(photos []flickr.Photo) ([]string, error) {
	var matched []string
	seen := make(map[string]bool, len(photos))

	for _, photo := range photos {
		if seen[photo.ID] {
			continue
		}
		seen[photo.ID] = true

		ok, err := m.Match(photo)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, photo.ID)
		}
	}

	return matched, nil
}
