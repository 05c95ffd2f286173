package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sizeJSON bool

// sizeCmd represents the size command
var sizeCmd = &cobra.Command{
	Use:   "size PROJECT REPO",
	Short: "Show the disk usage of a repository",
	Args:  cobra.ExactArgs(2),
	RunE:  runSize,
}

func init() {
	sizeCmd.Flags().BoolVar(&sizeJSON, "json", false, "print JSON")
}

func runSize(cmd *cobra.Command, args []string) error {
	projectKey, slug := args[0], args[1]

	size, err := client.GetRepositorySize(cmd.Context(), projectKey, slug)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if useJSON(sizeJSON) {
		return printJSON(out, size)
	}

	fmt.Fprintf(out, "%s/%s:\n", projectKey, slug)
	fmt.Fprintf(out, "- Repository:  %s\n", formatBytes(size.SizeBytes))
	fmt.Fprintf(out, "- Attachments: %s\n", formatBytes(size.Attachments))
	fmt.Fprintf(out, "- Total:       %s\n", formatBytes(size.Total()))
	return nil
}
