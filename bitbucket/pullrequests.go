package bitbucket

import (
	"context"
	"fmt"
)

// PullRequestListOptions filters GetPullRequests
type PullRequestListOptions struct {
	PageOptions
	// State defaults to OPEN on the server
	State PullRequestState
	// Role restricts results to pull requests where the current user has this role
	Role Roles
	// Direction is INCOMING (default) or OUTGOING
	Direction string
	// Order is OLDEST or NEWEST (default)
	Order string
	// At filters by target ref, e.g. "refs/heads/main"
	At string
}

// GetPullRequests retrieves the pull requests of a repository
func (c *Client) GetPullRequests(ctx context.Context, projectKey, slug string, opts PullRequestListOptions) ([]PullRequest, error) {
	params := opts.params()
	params["state"] = optional(string(opts.State))
	params["role"] = opts.Role.param()
	params["direction"] = optional(opts.Direction)
	params["order"] = optional(opts.Order)
	params["at"] = optional(opts.At)

	endpoint := projectsEndpoint(projectKey, "repos", slug, "pull-requests")
	prs, err := getPaged[PullRequest](ctx, c, endpoint, params, opts.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull requests of %s/%s: %w", projectKey, slug, err)
	}

	c.logger.Debug().
		Str("repository", projectKey+"/"+slug).
		Msgf("Retrieved %d pull requests from Bitbucket", len(prs))
	return prs, nil
}
