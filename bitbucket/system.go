package bitbucket

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// WhoAmI returns the username the credentials authenticate as. The servlet
// answers with plain text and an empty body for anonymous requests.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	endpoint := RawEndpoint("plugins", "servlet", "applinks", "whoami")
	name, err := requestDecoded[string](ctx, c, http.MethodGet, endpoint, nil, func(content string) (string, error) {
		return strings.TrimSpace(content), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return name, nil
}

// GetApplicationProperties retrieves version information about the server
func (c *Client) GetApplicationProperties(ctx context.Context) (*ApplicationProperties, error) {
	props, err := requestJSON[ApplicationProperties](ctx, c, http.MethodGet, APIEndpoint("application-properties"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get application properties: %w", err)
	}
	return &props, nil
}

// TestConnection verifies the server is reachable and the credentials are
// accepted, returning the authenticated username. Anonymous clients only
// check reachability and get an empty name.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	name, err := c.WhoAmI(ctx)
	if err != nil {
		return "", err
	}
	if name == "" && c.creds.kind != credentialNone {
		return "", &RequestError{
			StatusCode: http.StatusUnauthorized,
			Status:     http.StatusText(http.StatusUnauthorized),
			Messages:   []string{"credentials were not accepted"},
		}
	}

	c.logger.Debug().Str("user", name).Msg("Successfully connected to Bitbucket")
	return name, nil
}
