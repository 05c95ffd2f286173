package bitbucket

import (
	"fmt"
	"net/http"
)

// TokenFunc returns the bearer token to send with a request. It is invoked
// for every request, so implementations may refresh an expired token.
type TokenFunc func() (string, error)

type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialBasic
	credentialToken
)

// Credentials selects how requests are authenticated. A value holds exactly
// one strategy; build it with BasicAuth, TokenAuth or NoAuth.
type Credentials struct {
	kind     credentialKind
	username string
	password string
	token    TokenFunc
}

// BasicAuth authenticates with a static username and password
func BasicAuth(username, password string) Credentials {
	return Credentials{kind: credentialBasic, username: username, password: password}
}

// TokenAuth authenticates with a bearer token obtained from fn on every request
func TokenAuth(fn TokenFunc) Credentials {
	return Credentials{kind: credentialToken, token: fn}
}

// StaticToken authenticates with a fixed bearer token such as a personal access token
func StaticToken(token string) Credentials {
	return TokenAuth(func() (string, error) { return token, nil })
}

// NoAuth sends requests unauthenticated
func NoAuth() Credentials {
	return Credentials{}
}

// String names the strategy without revealing secrets
func (c Credentials) String() string {
	switch c.kind {
	case credentialBasic:
		return "basic"
	case credentialToken:
		return "token"
	default:
		return "none"
	}
}

func (c Credentials) validate() error {
	switch c.kind {
	case credentialBasic:
		if c.username == "" {
			return fmt.Errorf("%w: username is required for basic auth", ErrInvalidConfig)
		}
	case credentialToken:
		if c.token == nil {
			return fmt.Errorf("%w: token function is required for token auth", ErrInvalidConfig)
		}
	}
	return nil
}

// apply attaches the credential to req
func (c Credentials) apply(req *http.Request) error {
	switch c.kind {
	case credentialToken:
		token, err := c.token()
		if err != nil {
			return fmt.Errorf("failed to obtain token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case credentialBasic:
		req.SetBasicAuth(c.username, c.password)
	}
	return nil
}
