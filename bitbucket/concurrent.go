package bitbucket

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of listings run at once
const DefaultConcurrency = 5

// GetRepositoriesForProjects lists the repositories of several projects
// concurrently. Each project is paginated independently and sequentially.
// The first failure cancels the remaining listings and is returned.
func (c *Client) GetRepositoriesForProjects(ctx context.Context, projectKeys []string, opts PageOptions) (map[string][]Repository, error) {
	results := make(map[string][]Repository, len(projectKeys))
	if len(projectKeys) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	var mu sync.Mutex

	for _, key := range projectKeys {
		g.Go(func() error {
			repos, err := c.GetProjectRepositories(ctx, key, opts)
			if err != nil {
				return err
			}

			mu.Lock()
			results[key] = repos
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
