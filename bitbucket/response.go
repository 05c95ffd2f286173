package bitbucket

import (
	"context"
	"fmt"
	"net/http"
)

// ContentDecoder turns a raw response body into a result. It replaces JSON
// decoding for endpoints that return plain text or need post-processing.
type ContentDecoder[T any] func(content string) (T, error)

const maxBodySnippet = 512

func snippet(body []byte) string {
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet]) + "..."
	}
	return string(body)
}

// checkResponse turns a status of 300 or above into a *RequestError built
// from the server's error payload. Bitbucket always sends a structured
// payload with failures, so a body that does not decode is a *DecodeError.
func (c *Client) checkResponse(resp *response) error {
	if resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var payload ErrorResponse
	if err := c.codec.Unmarshal(resp.Body, &payload); err != nil {
		return &DecodeError{StatusCode: resp.StatusCode, Body: snippet(resp.Body), Err: err}
	}

	return &RequestError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Messages:   payload.Messages(),
	}
}

// handleResponse checks resp for failures and decodes the body into T, with
// decode when given and the client's codec otherwise.
func handleResponse[T any](c *Client, resp *response, decode ContentDecoder[T]) (T, error) {
	var result T
	if err := c.checkResponse(resp); err != nil {
		return result, err
	}

	if decode != nil {
		decoded, err := decode(string(resp.Body))
		if err != nil {
			return result, &DecodeError{StatusCode: resp.StatusCode, Body: snippet(resp.Body), Err: err}
		}
		return decoded, nil
	}

	if err := c.codec.Unmarshal(resp.Body, &result); err != nil {
		return result, &DecodeError{StatusCode: resp.StatusCode, Body: snippet(resp.Body), Err: err}
	}
	return result, nil
}

// handleEmptyResponse is used by operations without a result. Success
// requires an exactly empty body.
func (c *Client) handleEmptyResponse(resp *response) (bool, error) {
	if err := c.checkResponse(resp); err != nil {
		return false, err
	}
	if len(resp.Body) != 0 {
		return false, fmt.Errorf("%w (status %d): %s", ErrUnexpectedContent, resp.StatusCode, snippet(resp.Body))
	}
	return true, nil
}

// requestJSON performs a request and decodes the JSON result into T
func requestJSON[T any](ctx context.Context, c *Client, method string, e Endpoint, params Params, body any) (T, error) {
	resp, err := c.send(ctx, method, e, params, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return handleResponse[T](c, resp, nil)
}

// requestDecoded performs a request and hands the raw body to decode
func requestDecoded[T any](ctx context.Context, c *Client, method string, e Endpoint, params Params, decode ContentDecoder[T]) (T, error) {
	resp, err := c.send(ctx, method, e, params, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return handleResponse(c, resp, decode)
}

// requestEmpty performs a request whose success response carries no body
func (c *Client) requestEmpty(ctx context.Context, method string, e Endpoint, params Params, body any) (bool, error) {
	resp, err := c.send(ctx, method, e, params, body)
	if err != nil {
		return false, err
	}
	return c.handleEmptyResponse(resp)
}
