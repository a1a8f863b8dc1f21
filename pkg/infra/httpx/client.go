package httpx

import "net/http"

// Client abstracts the outbound HTTP transport so callers can be tested
// against a mock and the implementation can stay fasthttp-backed.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
