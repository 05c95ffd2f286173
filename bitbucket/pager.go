package bitbucket

import (
	"context"
	"errors"
	"net/http"
)

// errNilPage is returned when a PageFetcher reports success without a page
var errNilPage = errors.New("page fetcher returned no page")

// PagedResults is one page of a paginated Bitbucket collection
type PagedResults[T any] struct {
	Size          int  `json:"size"`
	Limit         int  `json:"limit"`
	Start         int  `json:"start"`
	IsLastPage    bool `json:"isLastPage"`
	NextPageStart int  `json:"nextPageStart,omitempty"`
	Values        []T  `json:"values"`
}

// PageFetcher fetches one page of a collection for the given query parameters
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, params Params) (*PagedResults[T], error)
}

// PageFetcherFunc adapts a function to PageFetcher
type PageFetcherFunc[T any] func(ctx context.Context, params Params) (*PagedResults[T], error)

// FetchPage calls f(ctx, params)
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, params Params) (*PagedResults[T], error) {
	return f(ctx, params)
}

// Paginate fetches pages one at a time until the server reports the last page
// or maxPages pages have been fetched. A nil maxPages means no cap. After each
// non-final page the "start" parameter in params is set to the server's
// nextPageStart. Any error, including cancellation, discards the pages
// gathered so far.
//
// Without a cap, a server that never reports the last page keeps Paginate
// looping until ctx is canceled.
func Paginate[T any](ctx context.Context, maxPages *int, params Params, fetcher PageFetcher[T]) ([]T, error) {
	if params == nil {
		params = Params{}
	}

	results := make([]T, 0)
	isLastPage := false
	numPages := 0

	for !isLastPage && (maxPages == nil || numPages < *maxPages) {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}

		page, err := fetcher.FetchPage(ctx, params)
		if err != nil {
			return nil, err
		}
		if page == nil {
			return nil, errNilPage
		}

		results = append(results, page.Values...)

		isLastPage = page.IsLastPage
		if !isLastPage {
			params["start"] = page.NextPageStart
		}

		numPages++
	}

	return results, nil
}

// endpointPager fetches pages of a REST collection
type endpointPager[T any] struct {
	client   *Client
	endpoint Endpoint
	pages    int
	total    int
}

func (p *endpointPager[T]) FetchPage(ctx context.Context, params Params) (*PagedResults[T], error) {
	page, err := requestJSON[PagedResults[T]](ctx, p.client, http.MethodGet, p.endpoint, params, nil)
	if err != nil {
		return nil, err
	}

	p.pages++
	p.total += len(page.Values)

	p.client.logger.Debug().
		Str("path", p.endpoint.Path).
		Int("page", p.pages).
		Int("count", len(page.Values)).
		Int("total", p.total).
		Bool("last_page", page.IsLastPage).
		Msg("Retrieved page from Bitbucket")

	return &page, nil
}

// getPaged materializes every page of a REST collection
func getPaged[T any](ctx context.Context, c *Client, e Endpoint, params Params, maxPages *int) ([]T, error) {
	return Paginate[T](ctx, maxPages, params, &endpointPager[T]{client: c, endpoint: e})
}
