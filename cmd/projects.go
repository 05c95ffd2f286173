package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/s0up4200/bucketeer/bitbucket"
)

var (
	projectsName     string
	projectsMaxPages int
	projectsJSON     bool
)

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Long:  `List the projects visible to the configured user.`,
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().StringVar(&projectsName, "name", "", "only projects whose name contains this text")
	projectsCmd.Flags().IntVar(&projectsMaxPages, "max-pages", 0, "maximum number of pages to fetch (0 for all)")
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "print JSON")
}

func runProjects(cmd *cobra.Command, args []string) error {
	projects, err := client.GetProjects(cmd.Context(), bitbucket.ProjectListOptions{
		PageOptions: pageOptions(projectsMaxPages, cmd.Flags().Changed("max-pages")),
		Name:        projectsName,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if useJSON(projectsJSON) {
		return printJSON(out, projects)
	}
	printProjects(out, projects)
	return nil
}

func printProjects(w io.Writer, projects []bitbucket.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}

	fmt.Fprintf(w, "Found %d %s:\n\n", len(projects), plural(len(projects), "project", "projects"))
	printRule(w)
	fmt.Fprintf(w, "%-12s %-32s %-10s %s\n", "KEY", "NAME", "TYPE", "DESCRIPTION")
	printRule(w)

	for _, p := range projects {
		fmt.Fprintf(w, "%-12s %-32s %-10s %s\n", truncate(p.Key, 12), truncate(p.Name, 32), p.Type, truncate(p.Description, 28))
	}
}
