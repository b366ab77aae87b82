package httpclient

import "context"

// Request describes a single outbound call. Body, when set, is sent as JSON.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Implementations classify failures as *TransportError.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
