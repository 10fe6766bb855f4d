package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"camset/pkg/auth"
	"camset/pkg/config"
	"camset/pkg/logger"
	"camset/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Flickr authorization",
	Long: `Manage the Flickr OAuth tokens camset signs its API calls with.

Tokens are stored in the system keychain when available, otherwise in an
encrypted file under the camset config directory. For non-interactive use
a token can be supplied through CAMSET_OAUTH_TOKEN and
CAMSET_OAUTH_TOKEN_SECRET.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize camset with your Flickr account",
	Long: `Run the Flickr OAuth authorization flow and store the granted token.

Your browser opens on Flickr's authorization page; after you grant access,
enter the verification code Flickr shows. Re-running login replaces the
stored token, which is how you upgrade to a higher permission level.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runLogin(cmd, args)
		return nil
	},
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored authorization",
	RunE: func(cmd *cobra.Command, args []string) error {
		runStatus(cmd, args)
		return nil
	},
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [user-nsid]",
	Short: "Remove a stored token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runLogout(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	logger.Initialize(&cfg.Logging)

	if !cfg.HasCredentials() {
		ui.PrintError("Missing Flickr API credentials", "set FLICKR_API_KEY and FLICKR_API_SECRET")
		os.Exit(1)
	}

	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token storage", err.Error())
		os.Exit(1)
	}

	authorizer := auth.NewAuthorizer(
		cfg.Flickr.APIKey,
		cfg.Flickr.APISecret,
		cfg.Flickr.Perms,
		manager,
		verifyWithLoginProbe(cfg),
	)

	token, err := authorizer.Authorize()
	if err != nil {
		ui.PrintError("Authorization failed", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Authorized as %s (%s) with %s permission", token.Username, token.UserNSID, token.Perms))
}

func runStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token storage", err.Error())
		os.Exit(1)
	}

	token, err := manager.RetrieveDefault()
	if err != nil {
		ui.PrintWarning("No stored authorization. Run 'camset auth login' first.")
		return
	}

	clean := auth.Sanitize(token)
	ui.PrintInfo("User", fmt.Sprintf("%s (%s)", clean.Username, clean.UserNSID))
	ui.PrintInfo("Permission", clean.Perms)
	ui.PrintInfo("Token", clean.OAuthToken)
	if !clean.LastModified.IsZero() {
		ui.PrintInfo("Stored", clean.LastModified.Format("2006-01-02 15:04:05"))
	}
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token storage", err.Error())
		os.Exit(1)
	}

	nsid := ""
	if len(args) > 0 {
		nsid = args[0]
	} else {
		token, err := manager.RetrieveDefault()
		if err != nil {
			ui.PrintWarning("No stored authorization to remove.")
			return
		}
		nsid = token.UserNSID
	}

	if nsid == "" {
		ui.PrintError("Cannot determine which token to remove", "pass the user NSID explicitly")
		os.Exit(1)
	}

	if err := manager.Delete(nsid); err != nil {
		ui.PrintError("Failed to remove token", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Removed authorization for %s", nsid))
}
