package bitbucket

import (
	"context"
	"fmt"
	"net/http"
)

// RepositoryListOptions filters GetRepositories
type RepositoryListOptions struct {
	PageOptions
	Name        string
	ProjectName string
	Permission  Permission
	Visibility  Visibility
}

// GetRepositories searches the repositories visible to the caller
func (c *Client) GetRepositories(ctx context.Context, opts RepositoryListOptions) ([]Repository, error) {
	params := opts.params()
	params["name"] = optional(opts.Name)
	params["projectname"] = optional(opts.ProjectName)
	params["permission"] = opts.Permission.param()
	params["visibility"] = optional(string(opts.Visibility))

	repos, err := getPaged[Repository](ctx, c, APIEndpoint("repos"), params, opts.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to get repositories: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d repositories from Bitbucket", len(repos))
	return repos, nil
}

// GetProjectRepositories retrieves the repositories of one project
func (c *Client) GetProjectRepositories(ctx context.Context, projectKey string, opts PageOptions) ([]Repository, error) {
	repos, err := getPaged[Repository](ctx, c, projectsEndpoint(projectKey, "repos"), opts.params(), opts.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to get repositories of project %s: %w", projectKey, err)
	}

	c.logger.Debug().Str("project", projectKey).Msgf("Retrieved %d repositories from Bitbucket", len(repos))
	return repos, nil
}

// GetRepository retrieves a repository by project key and slug
func (c *Client) GetRepository(ctx context.Context, projectKey, slug string) (*Repository, error) {
	repo, err := requestJSON[Repository](ctx, c, http.MethodGet, projectsEndpoint(projectKey, "repos", slug), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", projectKey, slug, err)
	}
	return &repo, nil
}

// GetRepositorySize retrieves the disk usage of a repository. The sizes
// resource lives outside the REST tree.
func (c *Client) GetRepositorySize(ctx context.Context, projectKey, slug string) (*RepositorySize, error) {
	size, err := requestJSON[RepositorySize](ctx, c, http.MethodGet, RawEndpoint("projects", projectKey, "repos", slug, "sizes"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get size of repository %s/%s: %w", projectKey, slug, err)
	}
	return &size, nil
}
