package cmd

import (
	"bytes"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/bucketeer/bitbucket"
	"github.com/s0up4200/bucketeer/config"
)

// newClient builds a Bitbucket client from the connection settings
func newClient(bb config.BitbucketConfig, logger zerolog.Logger) (*bitbucket.Client, error) {
	opts := []bitbucket.Option{
		bitbucket.WithTimeout(bb.Timeout),
		bitbucket.WithTrustSSL(bb.TrustSSL),
		bitbucket.WithRedirects(bb.FollowRedirects),
		bitbucket.WithUserAgent("bucketeer/" + appVersion),
	}

	if bb.Proxy != "" {
		proxy, err := url.Parse(bb.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		opts = append(opts, bitbucket.WithProxy(proxy))
	}

	if bb.TrustSSL {
		logger.Warn().Msg("TLS certificate verification is disabled")
	}

	return bitbucket.NewClient(bb.URL, credentials(bb, logger), logger, opts...)
}

// credentials selects the authentication strategy. Config validation
// guarantees at most one of them is configured.
func credentials(bb config.BitbucketConfig, logger zerolog.Logger) bitbucket.Credentials {
	switch {
	case bb.TokenCommand != "":
		return bitbucket.TokenAuth(tokenCommand(bb.TokenCommand, logger))
	case bb.Token != "":
		return bitbucket.StaticToken(bb.Token)
	case bb.Username != "":
		return bitbucket.BasicAuth(bb.Username, bb.Password)
	default:
		return bitbucket.NoAuth()
	}
}

// tokenCommand returns a TokenFunc running command through the shell for
// every request and using its trimmed stdout as the token.
func tokenCommand(command string, logger zerolog.Logger) bitbucket.TokenFunc {
	return func() (string, error) {
		var c *exec.Cmd
		if runtime.GOOS == "windows" {
			c = exec.Command("cmd", "/C", command)
		} else {
			c = exec.Command("sh", "-c", command)
		}

		var stdout, stderr bytes.Buffer
		c.Stdout = &stdout
		c.Stderr = &stderr

		if err := c.Run(); err != nil {
			return "", fmt.Errorf("token command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
		}

		token := strings.TrimSpace(stdout.String())
		if token == "" {
			return "", fmt.Errorf("token command returned an empty token")
		}

		logger.Debug().Msg("Obtained token from token command")
		return token, nil
	}
}
