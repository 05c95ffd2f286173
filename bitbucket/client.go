package bitbucket

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Client represents a Bitbucket Server API client. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	creds      Credentials
	httpClient *http.Client
	codec      Codec
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates a new Bitbucket client for the server at baseURL
func NewClient(baseURL string, creds Credentials, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: bitbucket URL is required", ErrInvalidConfig)
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bitbucket URL: %v", ErrInvalidConfig, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: bitbucket URL must use http or https, got %q", ErrInvalidConfig, parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: bitbucket URL has no host", ErrInvalidConfig)
	}

	if err := creds.validate(); err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(&options)
	}

	return &Client{
		baseURL:    parsed,
		creds:      creds,
		httpClient: httpClient,
		codec:      options.codec,
		userAgent:  options.userAgent,
		logger:     logger,
	}, nil
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}
