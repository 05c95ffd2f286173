package cmd

import (
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/bucketeer/config"
)

const releaseRepository = "s0up4200/bucketeer"

var updateCheckOnly bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update bucketeer to the latest release",
	Long:  `Download the latest bucketeer release from GitHub and replace the running binary.`,
	Args:  cobra.NoArgs,
	// Updating needs no Bitbucket configuration
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if level == "" {
			level = "info"
		}
		if err := config.ValidateLogLevel(level); err != nil {
			return err
		}
		logger = setupLogger(config.LoggingConfig{Level: level, Format: "console", Color: true})
		return nil
	},
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "only check for a newer release")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if appVersion == "dev" {
		return fmt.Errorf("development builds cannot be updated, install a release instead")
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for this platform")
	}

	if latest.LessOrEqual(appVersion) {
		fmt.Fprintf(out, "✓ bucketeer %s is up to date\n", appVersion)
		return nil
	}

	if updateCheckOnly {
		fmt.Fprintf(out, "bucketeer %s is available (current %s)\n", latest.Version(), appVersion)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	logger.Info().Str("version", latest.Version()).Str("asset", latest.AssetName).Msg("Downloading release")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated bucketeer %s → %s\n", appVersion, latest.Version())
	return nil
}
