package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"camset/pkg/config"
	"camset/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage camset configuration files.

camset looks for configuration in the following order:
  1. Command line flags
  2. Environment variables (FLICKR_API_KEY, FLICKR_API_SECRET, CAMSET_*)
  3. .env file values
  4. Configuration file (.camset.yaml or ~/.config/camset/config.yaml)
  5. Default values`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		runConfigInit(cmd, args)
		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		runConfigShow(cmd, args)
		return nil
	},
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		runConfigValidate(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".camset.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# camset Configuration File
#
# You can also use environment variables:
# FLICKR_API_KEY, FLICKR_API_SECRET, and CAMSET_* overrides.

# Flickr application credentials
flickr:
  # API key and secret from https://www.flickr.com/services/apps/create/
  api_key: "YOUR_API_KEY"
  api_secret: "YOUR_API_SECRET"

  # Permission level to request when authorizing.
  # Creating and modifying photosets needs "write".
  perms: "write"

# Photostream search settings
search:
  # Photos per search page. Flickr caps this at 500.
  per_page: 500

  # Extra fields requested per photo. machine_tags powers the
  # no-extra-API-call camera match.
  extras: "machine_tags"

# Courtesy pacing between API calls
rate_limit:
  # "fixed" sleeps a constant interval between calls;
  # "token_bucket" allows bursts up to requests_per_minute.
  strategy: "fixed"

  # Delay between photostream search pages
  search_delay: 1s

  # Delay between photoset additions
  add_delay: 500ms

  # Budget for the token_bucket strategy
  requests_per_minute: 60

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (empty logs to stderr only)
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		ui.PrintError("Failed to write configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Created configuration file: %s", configPath))
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the file and add your Flickr API key and secret")
	fmt.Println("2. Authorize with 'camset auth login'")
	fmt.Println("3. Group photos with 'camset group --camera-model \"...\"'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Mask the secret half of the credentials for display
	displayCfg := *cfg
	if displayCfg.Flickr.APISecret != "" {
		displayCfg.Flickr.APISecret = "***"
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (FLICKR_*, CAMSET_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			".camset.yaml",
			".camset.yml",
			filepath.Join(os.Getenv("HOME"), ".camset.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "camset", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "specify a file with --config")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		ui.PrintError("Configuration file is not readable", err.Error())
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration is invalid", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid")
	if !cfg.HasCredentials() {
		ui.PrintWarning("API credentials are not set in this file; camset will look for FLICKR_API_KEY and FLICKR_API_SECRET")
	}
}
