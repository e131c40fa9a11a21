package ports

import "net/http"

// HTTPClient abstracts HTTP operations for dependency injection.
// The standard *http.Client and the OAuth-signing client returned by
// adapters/http.NewOAuthClient both satisfy this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
