package bitbucket

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
)

const (
	// DefaultAPIRoot is the REST root used by most resources
	DefaultAPIRoot = "/api"
	// DefaultAPIVersion is the REST API version
	DefaultAPIVersion = "1.0"
)

// Endpoint addresses a resource. REST endpoints resolve to
// {base}/rest{Root}/{Version}/{Path}; raw endpoints to {base}/{Path}.
type Endpoint struct {
	Root    string
	Version string
	Path    string
	raw     bool
}

// APIEndpoint returns a REST endpoint under the default root and version
func APIEndpoint(segments ...string) Endpoint {
	return Endpoint{Root: DefaultAPIRoot, Version: DefaultAPIVersion, Path: joinSegments(segments...)}
}

// RawEndpoint returns an endpoint outside the /rest tree
func RawEndpoint(segments ...string) Endpoint {
	return Endpoint{Path: joinSegments(segments...), raw: true}
}

// WithRoot returns a copy of e under another REST root such as "/branch-utils"
func (e Endpoint) WithRoot(root string) Endpoint {
	e.Root = root
	return e
}

func joinSegments(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Params is a set of query parameters. Nil values, including nil pointers,
// are omitted. Slices become repeated keys.
type Params map[string]any

// Values converts p to url.Values
func (p Params) Values() url.Values {
	values := url.Values{}
	for key, value := range p {
		for _, s := range paramStrings(value) {
			values.Add(key, s)
		}
	}
	return values
}

// Encode returns the URL encoded query string, sorted by key
func (p Params) Encode() string {
	return p.Values().Encode()
}

func paramStrings(value any) []string {
	if value == nil {
		return nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return []string{s.String()}
	}

	switch rv.Kind() {
	case reflect.String:
		return []string{rv.String()}
	case reflect.Slice, reflect.Array:
		var out []string
		for i := 0; i < rv.Len(); i++ {
			out = append(out, paramStrings(rv.Index(i).Interface())...)
		}
		return out
	default:
		return []string{fmt.Sprint(rv.Interface())}
	}
}

// resolve builds the absolute URL of e
func (c *Client) resolve(e Endpoint) *url.URL {
	segments := []string{c.baseURL.Path}
	if !e.raw {
		segments = append(segments, "rest"+e.Root, e.Version)
	}
	segments = append(segments, e.Path)

	u := *c.baseURL
	u.Path = "/" + joinSegments(segments...)
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return &u
}

// newRequest builds an authenticated request for e
func (c *Client) newRequest(ctx context.Context, method string, e Endpoint, params Params, body any) (*http.Request, error) {
	u := c.resolve(e)
	u.RawQuery = params.Encode()

	var reader io.Reader
	if body != nil {
		data, err := c.codec.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if err := c.creds.apply(req); err != nil {
		return nil, err
	}

	return req, nil
}

// response is a fully read HTTP response
type response struct {
	StatusCode int
	Body       []byte
}

// send builds and performs a request, reading the whole body
func (c *Client) send(ctx context.Context, method string, e Endpoint, params Params, body any) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	req, err := c.newRequest(ctx, method, e, params, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(req, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(req, fmt.Errorf("failed to read response body: %w", err))
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Msg("Bitbucket API request")

	return &response{StatusCode: resp.StatusCode, Body: data}, nil
}

func (c *Client) transportError(req *http.Request, err error) error {
	if ctxErr := req.Context().Err(); ctxErr != nil {
		return canceled(ctxErr)
	}
	return &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
}
