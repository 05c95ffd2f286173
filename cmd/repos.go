package cmd

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/bucketeer/bitbucket"
)

var (
	reposProjects   []string
	reposName       string
	reposPermission string
	reposPublic     bool
	reposMaxPages   int
	reposFilter     string
	reposPreset     string
	reposJSON       bool
)

// reposCmd represents the repos command
var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List repositories",
	Long: `List the repositories visible to the configured user.

With --project the repositories of the given projects are listed
concurrently. Results can be narrowed with a filter expression, e.g.

  bucketeer repos --filter 'not Archived and inProject("PLAT", "OPS")'
  bucketeer repos --preset active`,
	Args: cobra.NoArgs,
	RunE: runRepos,
}

func init() {
	reposCmd.Flags().StringSliceVarP(&reposProjects, "project", "P", nil, "list repositories of these project keys")
	reposCmd.Flags().StringVar(&reposName, "name", "", "only repositories whose name contains this text")
	reposCmd.Flags().StringVar(&reposPermission, "permission", "", "minimum permission, e.g. REPO_WRITE")
	reposCmd.Flags().BoolVar(&reposPublic, "public", false, "only public repositories")
	reposCmd.Flags().IntVar(&reposMaxPages, "max-pages", 0, "maximum number of pages to fetch (0 for all)")
	reposCmd.Flags().StringVarP(&reposFilter, "filter", "f", "", "filter expression")
	reposCmd.Flags().StringVarP(&reposPreset, "preset", "p", "", "use a preset filter from config")
	reposCmd.Flags().BoolVar(&reposJSON, "json", false, "print JSON")
}

func runRepos(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repoFilter, err := filters.Resolve(reposPreset, reposFilter)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	pages := pageOptions(reposMaxPages, cmd.Flags().Changed("max-pages"))

	repos, err := fetchRepositories(ctx, pages)
	if err != nil {
		return err
	}

	if repoFilter != nil {
		logger.Info().Str("filter", repoFilter.Expression()).Int("candidates", len(repos)).Msg("Filtering repositories")
	}
	repos, err = filters.Apply(ctx, repoFilter, repos)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if useJSON(reposJSON) {
		return printJSON(out, repos)
	}
	printRepositories(out, repos)
	return nil
}

// fetchRepositories lists either the given projects' repositories or runs a
// repository search
func fetchRepositories(ctx context.Context, pages bitbucket.PageOptions) ([]bitbucket.Repository, error) {
	if len(reposProjects) > 0 {
		keys := uniqueKeys(reposProjects)
		byProject, err := client.GetRepositoriesForProjects(ctx, keys, pages)
		if err != nil {
			return nil, err
		}

		var repos []bitbucket.Repository
		for _, key := range keys {
			repos = append(repos, byProject[key]...)
		}
		return repos, nil
	}

	permission, err := bitbucket.ParsePermission(reposPermission)
	if err != nil {
		return nil, err
	}

	opts := bitbucket.RepositoryListOptions{
		PageOptions: pages,
		Name:        reposName,
		Permission:  permission,
	}
	if reposPublic {
		opts.Visibility = bitbucket.VisibilityPublic
	}

	return client.GetRepositories(ctx, opts)
}

// uniqueKeys drops repeated project keys, keeping the first occurrence
func uniqueKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	unique := make([]string, 0, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			unique = append(unique, key)
		}
	}
	return unique
}

func printRepositories(w io.Writer, repos []bitbucket.Repository) {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return
	}

	slices.SortStableFunc(repos, func(a, b bitbucket.Repository) int {
		return cmp.Or(
			strings.Compare(a.Project.Key, b.Project.Key),
			strings.Compare(a.Slug, b.Slug),
		)
	})

	fmt.Fprintf(w, "Found %d %s:\n\n", len(repos), plural(len(repos), "repository", "repositories"))
	printRule(w)
	fmt.Fprintf(w, "%-40s %-10s %-8s %s\n", "REPOSITORY", "STATE", "PUBLIC", "CLONE URL")
	printRule(w)

	for _, repo := range repos {
		name := repo.FullName()
		if repo.Archived {
			name += " [ARCHIVED]"
		}
		public := "no"
		if repo.Public {
			public = "yes"
		}
		fmt.Fprintf(w, "%-40s %-10s %-8s %s\n", truncate(name, 40), repo.State, public, repo.Links.CloneURL("http"))
	}
}
