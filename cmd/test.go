package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/bucketeer/bitbucket"
)

// minServerVersion is the oldest Bitbucket Server release the client is tested against
var minServerVersion = semver.MustParse("5.0.0")

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Bitbucket",
	Long: `Test the connection to your Bitbucket server, verify the configured
credentials and display server version information.`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Testing connection to Bitbucket at %s...\n", client.BaseURL())

	var (
		user  string
		props *bitbucket.ApplicationProperties
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = client.TestConnection(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		props, err = client.GetApplicationProperties(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "\nBitbucket Server:\n")
	fmt.Fprintf(out, "- Product: %s\n", props.DisplayName)
	fmt.Fprintf(out, "- Version: %s (build %s)\n", props.Version, props.BuildNumber)
	if user != "" {
		fmt.Fprintf(out, "- Authenticated as: %s (%s)\n", user, cfg.Bitbucket.AuthMode())
	} else {
		fmt.Fprintln(out, "- Authenticated as: anonymous")
	}

	if warning := checkServerVersion(props); warning != "" {
		logger.Warn().Str("version", props.Version).Msg(warning)
	}

	return nil
}

// checkServerVersion returns a warning for servers older than minServerVersion
// or with a version string that does not parse
func checkServerVersion(props *bitbucket.ApplicationProperties) string {
	v, err := props.SemVer()
	if err != nil {
		return fmt.Sprintf("Could not parse server version: %v", err)
	}
	if v.LT(minServerVersion) {
		return fmt.Sprintf("Bitbucket Server %s is older than the oldest supported release %s", v, minServerVersion)
	}
	return ""
}
