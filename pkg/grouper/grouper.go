package grouper

import (
	"fmt"
	"strings"
	"time"

	"camset/pkg/camera"
	"camset/pkg/config"
	"camset/pkg/flickr"
	"camset/pkg/logger"
	"camset/pkg/photoset"
	"camset/pkg/ratelimit"
	"camset/pkg/ui"
)

// FlickrAPI covers the remote operations a grouping run needs.
// *flickr.Client satisfies it; tests substitute a mock.
type FlickrAPI interface {
	SearchPhotos(userID string, page, perPage int) (*flickr.PhotoPage, error)
	GetExif(photoID string) ([]flickr.ExifTag, error)
	CreatePhotoset(title, description, primaryPhotoID string) (string, error)
	AddPhoto(photosetID, photoID string) error
}

// Options describe one grouping run.
type Options struct {
	// UserID is a Flickr NSID or the "me" sentinel.
	UserID string

	// CameraModel is the target model string, e.g. "Canon EOS 7D Mark II".
	CameraModel string

	// PhotosetID selects append mode when non-empty; create mode otherwise.
	PhotosetID string

	// AlbumTitle names the photoset in create mode. Defaults to the
	// camera model when empty.
	AlbumTitle string

	// AlbumDescription is the photoset description in create mode.
	AlbumDescription string
}

// Result summarizes a completed run.
type Result struct {
	Scanned    int
	Matched    int
	PhotosetID string
	Created    bool
}

// Grouper orchestrates a run: enumerate the photostream, filter by
// camera model, then create or extend a photoset with the matches.
type Grouper struct {
	client        FlickrAPI
	config        *config.Config
	logger        logger.Logger
	searchLimiter ratelimit.Limiter
	addLimiter    ratelimit.Limiter
}

// New creates a new Grouper instance
func New(client FlickrAPI, cfg *config.Config) *Grouper {
	log := logger.GetLogger()

	return &Grouper{
		client:        client,
		config:        cfg,
		logger:        log,
		searchLimiter: newLimiter(cfg, cfg.RateLimit.SearchDelay),
		addLimiter:    newLimiter(cfg, cfg.RateLimit.AddDelay),
	}
}

// newLimiter builds a limiter from the configured strategy. The fixed
// strategy gets its own delay per call site; token_bucket shares the
// per-minute budget shape.
func newLimiter(cfg *config.Config, delay time.Duration) ratelimit.Limiter {
	if strings.EqualFold(cfg.RateLimit.Strategy, "token_bucket") {
		rpm := cfg.RateLimit.RequestsPerMinute
		if rpm <= 0 {
			rpm = 60
		}
		return ratelimit.NewTokenBucket(rpm, time.Minute)
	}
	return ratelimit.NewFixedDelay(delay)
}

// Run executes a grouping run end to end.
func (g *Grouper) Run(opts Options) (*Result, error) {
	if opts.UserID == "" {
		opts.UserID = flickr.UserMe
	}
	if !flickr.IsValidUserID(opts.UserID) {
		return nil, fmt.Errorf("invalid user ID %q", opts.UserID)
	}
	if opts.CameraModel == "" {
		return nil, fmt.Errorf("camera model is required")
	}

	g.logger.InfoWithFields("starting grouping run", map[string]interface{}{
		"user_id":      opts.UserID,
		"camera_model": opts.CameraModel,
		"photoset_id":  opts.PhotosetID,
	})

	photos, err := g.enumerate(opts.UserID)
	if err != nil {
		return nil, err
	}

	matcher := camera.NewMatcher(g.client, opts.CameraModel, g.logger)
	matched, err := matcher.FilterPhotos(photos)
	if err != nil {
		return nil, fmt.Errorf("filtering photos: %w", err)
	}

	result := &Result{
		Scanned: len(photos),
		Matched: len(matched),
	}

	g.logger.InfoWithFields("photostream filtered", map[string]interface{}{
		"scanned": result.Scanned,
		"matched": result.Matched,
	})

	if len(matched) == 0 {
		ui.PrintWarning(fmt.Sprintf("No photos found for camera model %q", opts.CameraModel))
		return result, nil
	}

	assembler := photoset.New(g.client, g.addLimiter, g.logger)

	if opts.PhotosetID != "" {
		ui.PrintInfo("Adding photos to photoset", opts.PhotosetID)
		if err := assembler.Append(opts.PhotosetID, matched); err != nil {
			return nil, err
		}
		result.PhotosetID = opts.PhotosetID
		return result, nil
	}

	title := opts.AlbumTitle
	if title == "" {
		title = opts.CameraModel
	}
	ui.PrintInfo("Creating photoset", title)

	setID, err := assembler.Create(title, opts.AlbumDescription, matched)
	if err != nil {
		return nil, err
	}
	result.PhotosetID = setID
	result.Created = true

	return result, nil
}

// enumerate pages through the user's photostream and returns every photo,
// in stream order. Pages after the first wait out the search delay.
func (g *Grouper) enumerate(userID string) ([]flickr.Photo, error) {
	perPage := flickr.ClampPerPage(g.config.Search.PerPage)

	var photos []flickr.Photo
	page := 1
	for {
		g.searchLimiter.Wait()

		pg, err := g.client.SearchPhotos(userID, page, perPage)
		if err != nil {
			return nil, fmt.Errorf("fetching photostream page %d: %w", page, err)
		}

		photos = append(photos, pg.Photos...)
		ui.PrintStep("fetched page %d/%d (%d photos)", pg.Page, pg.Pages, len(photos))

		if pg.Page >= pg.Pages || len(pg.Photos) == 0 {
			break
		}
		if len(photos) >= flickr.MaxSearchResults {
			g.logger.WarnWithFields("photostream truncated at service result cap", map[string]interface{}{
				"cap": flickr.MaxSearchResults,
			})
			break
		}
		page++
	}

	return photos, nil
}
