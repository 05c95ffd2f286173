package bitbucket

import (
	"crypto/tls"
	"fmt"
	"net/http"
)

const maxRedirects = 10

// newHTTPClient builds the HTTP client from an independent clone of
// http.DefaultTransport so TLS and proxy settings never leak into other users
// of the default transport.
func newHTTPClient(o *clientOptions) *http.Client {
	var transport *http.Transport
	if t, ok := http.DefaultTransport.(*http.Transport); ok && t != nil {
		transport = t.Clone()
	} else {
		transport = &http.Transport{Proxy: http.ProxyFromEnvironment}
	}

	if o.proxy != nil {
		transport.Proxy = http.ProxyURL(o.proxy)
	}

	if o.trustSSL {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // opt-in for self-signed servers
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       o.timeout,
		CheckRedirect: redirectPolicy(o.followRedirects),
	}
}

// redirectPolicy returns a CheckRedirect func. net/http drops the
// Authorization header when a redirect leaves the original host; Bitbucket
// instances behind a proxy rely on it being forwarded.
func redirectPolicy(follow bool) func(*http.Request, []*http.Request) error {
	if !follow {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if auth := via[0].Header.Get("Authorization"); auth != "" && req.Header.Get("Authorization") == "" {
			req.Header.Set("Authorization", auth)
		}
		return nil
	}
}
