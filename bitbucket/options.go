package bitbucket

import (
	"net/http"
	"net/url"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient      *http.Client
	timeout         time.Duration
	trustSSL        bool
	proxy           *url.URL
	followRedirects bool
	codec           Codec
	userAgent       string
}

func defaultOptions() clientOptions {
	return clientOptions{
		followRedirects: true,
		codec:           NewJSONCodec(),
		userAgent:       "bucketeer",
	}
}

// WithHTTPClient replaces the HTTP client entirely. Timeout, TLS, proxy and
// redirect options are ignored when it is set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithTrustSSL disables certificate verification.
// Use with caution, typically for servers with self-signed certificates.
func WithTrustSSL(trust bool) Option {
	return func(o *clientOptions) {
		o.trustSSL = trust
	}
}

// WithProxy routes requests through the given proxy instead of the
// environment's proxy settings.
func WithProxy(proxy *url.URL) Option {
	return func(o *clientOptions) {
		o.proxy = proxy
	}
}

// WithRedirects controls whether redirects are followed. Followed redirects
// keep the Authorization header, even across hosts.
func WithRedirects(follow bool) Option {
	return func(o *clientOptions) {
		o.followRedirects = follow
	}
}

// WithCodec sets the codec used for request and response bodies.
func WithCodec(codec Codec) Option {
	return func(o *clientOptions) {
		if codec != nil {
			o.codec = codec
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}
