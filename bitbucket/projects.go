package bitbucket

import (
	"context"
	"fmt"
	"net/http"
)

// ProjectListOptions filters GetProjects
type ProjectListOptions struct {
	PageOptions
	Name       string
	Permission Permission
}

func projectsEndpoint(segments ...string) Endpoint {
	return APIEndpoint(append([]string{"projects"}, segments...)...)
}

// GetProjects retrieves the projects visible to the caller
func (c *Client) GetProjects(ctx context.Context, opts ProjectListOptions) ([]Project, error) {
	params := opts.params()
	params["name"] = optional(opts.Name)
	params["permission"] = opts.Permission.param()

	projects, err := getPaged[Project](ctx, c, projectsEndpoint(), params, opts.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d projects from Bitbucket", len(projects))
	return projects, nil
}

// GetProject retrieves a project by key
func (c *Client) GetProject(ctx context.Context, projectKey string) (*Project, error) {
	project, err := requestJSON[Project](ctx, c, http.MethodGet, projectsEndpoint(projectKey), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", projectKey, err)
	}
	return &project, nil
}

// CreateProject creates a project
func (c *Client) CreateProject(ctx context.Context, def ProjectDefinition) (*Project, error) {
	if def.Key == "" || def.Name == "" {
		return nil, fmt.Errorf("project key and name are required")
	}

	project, err := requestJSON[Project](ctx, c, http.MethodPost, projectsEndpoint(), nil, def)
	if err != nil {
		return nil, fmt.Errorf("failed to create project %s: %w", def.Key, err)
	}

	c.logger.Info().Str("project", project.Key).Msg("Created project")
	return &project, nil
}

// DeleteProject deletes an empty project. It reports true when the server
// answered with an empty success response.
func (c *Client) DeleteProject(ctx context.Context, projectKey string) (bool, error) {
	ok, err := c.requestEmpty(ctx, http.MethodDelete, projectsEndpoint(projectKey), nil, nil)
	if err != nil {
		return false, fmt.Errorf("failed to delete project %s: %w", projectKey, err)
	}

	c.logger.Info().Str("project", projectKey).Msg("Deleted project")
	return ok, nil
}
