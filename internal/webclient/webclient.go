package webclient

import "context"

// WebClient is the minimal contract for issuing HTTP requests during an
// analysis. Implementations must be safe for concurrent use.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Head issues the metadata-only probe used for header analysis.
	Head(ctx context.Context, url string) (*Response, error)

	// Get fetches a page body for static capture.
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}
