// Package bitbucket provides a client for the Bitbucket Server and Data
// Center REST API.
//
// # Architecture
//
//   - Client: immutable connection state (base URL, credentials, HTTP client, codec)
//   - Credentials: basic auth, a bearer token function invoked per request, or none
//   - Codec: JSON policy applied to every body (camelCase names, nulls omitted)
//   - Endpoint / Params: request addressing under {base}/rest{root}/{version}
//   - Paginate: turns a start/limit paginated collection into one slice
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := bitbucket.NewClient(
//		"https://bitbucket.example.com",
//		bitbucket.StaticToken("personal-access-token"),
//		logger,
//		bitbucket.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	repos, err := client.GetRepositories(ctx, bitbucket.RepositoryListOptions{
//		PageOptions: bitbucket.PageOptions{MaxPages: bitbucket.Ptr(5)},
//		ProjectName: "platform",
//	})
//
// # Pagination
//
// List calls fetch pages one after another, feeding the server's
// nextPageStart back as the start parameter, until isLastPage is reported or
// PageOptions.MaxPages pages were read. Always set MaxPages when talking to a
// server you do not trust to report the last page.
//
// # Error Handling
//
//   - RequestError: status 300 or above, carries the server's error messages
//   - DecodeError: a body that is not the expected JSON
//   - TransportError: network failure from net/http
//   - ErrCanceled: the context was canceled or timed out
//
// RequestError includes helper methods for classification:
//
//	var reqErr *bitbucket.RequestError
//	if errors.As(err, &reqErr) && reqErr.IsUnauthorized() {
//		// Handle auth failure
//	}
package bitbucket
