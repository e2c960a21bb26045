package interfaces

import (
	"context"
	"io"
)

// HTTPClient defines the outbound HTTP operations the engine needs.
// Discovery probes candidates with HEAD before falling back to GET,
// so both verbs are part of the contract.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL, following redirects.
	Get(ctx context.Context, url string) (Response, error)

	// Head performs an HTTP HEAD request to the specified URL, following redirects.
	Head(ctx context.Context, url string) (Response, error)
}

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Header names are case-insensitive.
	Header(key string) string

	// URL returns the final URL after redirects.
	URL() string
}
