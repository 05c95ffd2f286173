package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/bucketeer/bitbucket"
)

var (
	prsState    string
	prsRole     string
	prsMaxPages int
	prsJSON     bool
)

// prsCmd represents the prs command
var prsCmd = &cobra.Command{
	Use:   "prs PROJECT REPO",
	Short: "List pull requests of a repository",
	Long: `List the pull requests of a repository.

--state selects OPEN (default), MERGED, DECLINED or ALL. --role limits the
list to pull requests where the configured user is the AUTHOR, a REVIEWER
or a PARTICIPANT.`,
	Args: cobra.ExactArgs(2),
	RunE: runPullRequests,
}

func init() {
	prsCmd.Flags().StringVar(&prsState, "state", "OPEN", "pull request state (OPEN, MERGED, DECLINED, ALL)")
	prsCmd.Flags().StringVar(&prsRole, "role", "", "role of the current user (AUTHOR, REVIEWER, PARTICIPANT)")
	prsCmd.Flags().IntVar(&prsMaxPages, "max-pages", 0, "maximum number of pages to fetch (0 for all)")
	prsCmd.Flags().BoolVar(&prsJSON, "json", false, "print JSON")
}

func parseState(s string) (bitbucket.PullRequestState, error) {
	state := bitbucket.PullRequestState(strings.ToUpper(s))
	switch state {
	case "", bitbucket.PullRequestStateOpen, bitbucket.PullRequestStateMerged,
		bitbucket.PullRequestStateDeclined, bitbucket.PullRequestStateAll:
		return state, nil
	default:
		return "", fmt.Errorf("invalid pull request state: %s", s)
	}
}

func runPullRequests(cmd *cobra.Command, args []string) error {
	projectKey, slug := args[0], args[1]

	state, err := parseState(prsState)
	if err != nil {
		return err
	}
	role, err := bitbucket.ParseRole(prsRole)
	if err != nil {
		return err
	}

	prs, err := client.GetPullRequests(cmd.Context(), projectKey, slug, bitbucket.PullRequestListOptions{
		PageOptions: pageOptions(prsMaxPages, cmd.Flags().Changed("max-pages")),
		State:       state,
		Role:        role,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if useJSON(prsJSON) {
		return printJSON(out, prs)
	}
	printPullRequests(out, projectKey+"/"+slug, prs)
	return nil
}

func printPullRequests(w io.Writer, repo string, prs []bitbucket.PullRequest) {
	if len(prs) == 0 {
		fmt.Fprintf(w, "No pull requests found in %s.\n", repo)
		return
	}

	fmt.Fprintf(w, "Found %d pull %s in %s:\n\n", len(prs), plural(len(prs), "request", "requests"), repo)
	printRule(w)
	fmt.Fprintf(w, "%-6s %-40s %-9s %-16s %s\n", "#", "TITLE", "STATE", "AUTHOR", "APPROVALS")
	printRule(w)

	for _, pr := range prs {
		author := pr.Author.User.DisplayName
		if author == "" {
			author = pr.Author.User.Name
		}
		fmt.Fprintf(w, "%-6d %-40s %-9s %-16s %d/%d\n",
			pr.ID, truncate(pr.Title, 40), pr.State, truncate(author, 16),
			pr.ApprovalCount(), len(pr.Reviewers))
		fmt.Fprintf(w, "       %s → %s, updated %s\n",
			pr.FromRef.DisplayID, pr.ToRef.DisplayID, pr.Updated().Format("2006-01-02"))
	}
}
