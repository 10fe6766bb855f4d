package photoset

import (
	"errors"
	"fmt"

	"camset/pkg/logger"
	"camset/pkg/ratelimit"
)

// SetWriter covers the two mutating photoset operations. *flickr.Client
// satisfies it.
type SetWriter interface {
	CreatePhotoset(title, description, primaryPhotoID string) (string, error)
	AddPhoto(photosetID, photoID string) error
}

// Assembler groups matched photos into a photoset, one mutating call per
// photo with a courtesy delay between calls. An add failure (including
// "photo already in set") halts the remaining additions; no partial
// progress is tracked.
type Assembler struct {
	client  SetWriter
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// New creates an Assembler. limiter paces the mutating calls; pass a
// zero-interval FixedDelay to disable pacing in tests.
func New(client SetWriter, limiter ratelimit.Limiter, log logger.Logger) *Assembler {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Assembler{
		client:  client,
		limiter: limiter,
		logger:  log,
	}
}

// ErrNoPhotos is returned by Create when the matched-photo list is empty.
// Callers short-circuit before reaching the Assembler, so seeing this
// error means a caller bug.
var ErrNoPhotos = errors.New("no photos to assemble")

// Create makes a new photoset titled title, with the first photo ID as
// the primary/cover photo, then appends the remaining IDs in order. The
// primary is a member by creation and is never passed to an add call.
// Returns the new photoset's ID.
func (a *Assembler) Create(title, description string, photoIDs []string) (string, error) {
	if len(photoIDs) == 0 {
		return "", ErrNoPhotos
	}

	primary, rest := photoIDs[0], photoIDs[1:]

	a.logger.InfoWithFields("creating photoset", map[string]interface{}{
		"title":      title,
		"primary_id": primary,
		"photos":     len(photoIDs),
	})

	setID, err := a.client.CreatePhotoset(title, description, primary)
	if err != nil {
		return "", fmt.Errorf("creating photoset: %w", err)
	}

	if err := a.Append(setID, rest); err != nil {
		return "", err
	}

	return setID, nil
}

// Append adds every photo ID to the photoset in input order, waiting out
// the courtesy delay between calls. None of the IDs is treated as primary.
func (a *Assembler) Append(photosetID string, photoIDs []string) error {
	for _, id := range photoIDs {
		a.limiter.Wait()

		if err := a.client.AddPhoto(photosetID, id); err != nil {
			a.logger.ErrorWithFields("failed to add photo to photoset", map[string]interface{}{
				"photoset_id": photosetID,
				"photo_id":    id,
			})
			return fmt.Errorf("adding photo %s to photoset %s: %w", id, photosetID, err)
		}

		a.logger.DebugWithFields("photo added to photoset", map[string]interface{}{
			"photoset_id": photosetID,
			"photo_id":    id,
		})
	}

	return nil
}
