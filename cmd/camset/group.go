package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"camset/pkg/auth"
	"camset/pkg/config"
	"camset/pkg/flickr"
	"camset/pkg/grouper"
	"camset/pkg/logger"
	"camset/pkg/ui"
)

const apiTimeout = 30 * time.Second

var (
	// Group command flags
	cameraModel string
	photosetID  string
	albumTitle  string
	albumDesc   string
	apiKey      string
	apiSecret   string
	perPage     int
	searchDelay time.Duration
	addDelay    time.Duration
)

// groupCmd represents the group command
var groupCmd = &cobra.Command{
	Use:   "group [user-id]",
	Short: "Collect photos taken with a camera model into a photoset",
	Long: `Scan a user's photostream and group every photo taken with the given
camera model into a photoset.

The user ID is a Flickr NSID like 87729121@N00, or "me" for the
authenticated user (the default). Without --photoset-id a new photoset is
created and the first matching photo becomes its cover; with it, matches
are appended to the existing photoset.

Creating or modifying photosets needs write permission, so the first run
opens your browser for Flickr's authorization page. The granted token is
stored and reused on later runs.`,
	Example: `  # Group the authenticated user's D750 shots into a new album
  camset group --camera-model "Nikon D750"

  # Custom album title and description
  camset group --camera-model "Nikon D750" --album-title "D750" --album-desc "Shot on the D750"

  # Append matches to an existing photoset
  camset group --camera-model "Nikon D750" --photoset-id 72157600000000001

  # Scan another user's public photostream
  camset group 87729121@N00 --camera-model "Canon EOS 7D Mark II"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runGroup(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)

	// Local flags for group command
	groupCmd.Flags().StringVarP(&cameraModel, "camera-model", "m", "", "camera model to match, e.g. \"Nikon D750\" (required)")
	groupCmd.Flags().StringVarP(&photosetID, "photoset-id", "s", "", "append matches to this existing photoset")
	groupCmd.Flags().StringVarP(&albumTitle, "album-title", "t", "", "title for the new photoset (default: the camera model)")
	groupCmd.Flags().StringVarP(&albumDesc, "album-desc", "d", "", "description for the new photoset")
	groupCmd.Flags().StringVar(&apiKey, "api-key", "", "Flickr API key (overrides config and FLICKR_API_KEY)")
	groupCmd.Flags().StringVar(&apiSecret, "api-secret", "", "Flickr API secret (overrides config and FLICKR_API_SECRET)")
	groupCmd.Flags().IntVar(&perPage, "per-page", 0, "photos per search page, up to 500")
	groupCmd.Flags().DurationVar(&searchDelay, "search-delay", -1, "delay between search pages")
	groupCmd.Flags().DurationVar(&addDelay, "add-delay", -1, "delay between photoset additions")

	groupCmd.MarkFlagRequired("camera-model")
}

func runGroup(cmd *cobra.Command, args []string) {
	userID := flickr.UserMe
	if len(args) > 0 {
		userID = strings.TrimSpace(args[0])
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if apiKey != "" {
		flags["api-key"] = apiKey
	}
	if apiSecret != "" {
		flags["api-secret"] = apiSecret
	}
	if perPage > 0 {
		flags["per-page"] = perPage
	}
	if searchDelay >= 0 {
		flags["search-delay"] = searchDelay
	}
	if addDelay >= 0 {
		flags["add-delay"] = addDelay
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("camset starting")

	if !cfg.HasCredentials() {
		logger.Error("Missing Flickr API credentials")
		ui.PrintError("Missing Flickr API credentials", "provide --api-key/--api-secret or set FLICKR_API_KEY and FLICKR_API_SECRET")
		os.Exit(1)
	}

	ui.PrintInfo("User", userID)
	ui.PrintInfo("Camera model", cameraModel)

	token, err := obtainToken(cfg)
	if err != nil {
		logger.WithError(err).Error("Authorization failed")
		ui.PrintError("Authorization failed", err.Error())
		os.Exit(1)
	}

	client := flickr.NewClient(flickr.Credentials{
		APIKey:      cfg.Flickr.APIKey,
		APISecret:   cfg.Flickr.APISecret,
		OAuthToken:  token.OAuthToken,
		OAuthSecret: token.OAuthSecret,
	}, apiTimeout, logger.GetLogger())
	client.SetExtras(cfg.Search.Extras)

	g := grouper.New(client, cfg)
	result, err := g.Run(grouper.Options{
		UserID:           userID,
		CameraModel:      cameraModel,
		PhotosetID:       photosetID,
		AlbumTitle:       albumTitle,
		AlbumDescription: albumDesc,
	})
	if err != nil {
		logger.WithError(err).Error("Grouping failed")
		ui.PrintError("Grouping failed", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Photos scanned", fmt.Sprintf("%d", result.Scanned))
	ui.PrintInfo("Photos matched", fmt.Sprintf("%d", result.Matched))

	switch {
	case result.Matched == 0:
		// Nothing to do; the warning already printed.
	case result.Created:
		ui.PrintSuccess(fmt.Sprintf("Created photoset %s with %d photos", result.PhotosetID, result.Matched))
	default:
		ui.PrintSuccess(fmt.Sprintf("Added %d photos to photoset %s", result.Matched, result.PhotosetID))
	}
}

// obtainToken returns an authorized token, reusing a stored one when it
// covers the configured permission level.
func obtainToken(cfg *config.Config) (*auth.Token, error) {
	manager, err := auth.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	authorizer := auth.NewAuthorizer(
		cfg.Flickr.APIKey,
		cfg.Flickr.APISecret,
		cfg.Flickr.Perms,
		manager,
		verifyWithLoginProbe(cfg),
	)

	return authorizer.Token()
}

// verifyWithLoginProbe checks a fresh token with flickr.test.login and
// resolves the owning user's NSID and username.
func verifyWithLoginProbe(cfg *config.Config) auth.VerifyFunc {
	return func(token *auth.Token) (string, string, error) {
		client := flickr.NewClient(flickr.Credentials{
			APIKey:      cfg.Flickr.APIKey,
			APISecret:   cfg.Flickr.APISecret,
			OAuthToken:  token.OAuthToken,
			OAuthSecret: token.OAuthSecret,
		}, apiTimeout, logger.GetLogger())
		return client.TestLogin()
	}
}
