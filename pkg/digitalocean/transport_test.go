package digitalocean

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/samvad-hq/oceanic/pkg/httpclient"
)

type stubResponse struct {
	status int
	body   []byte
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.status }

// recordingTransport records every request and answers via respond.
type recordingTransport struct {
	mu       sync.Mutex
	requests []httpclient.Request
	respond  func(req httpclient.Request) (httpclient.Response, error)
}

func (r *recordingTransport) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	if r.respond == nil {
		return stubResponse{status: http.StatusOK}, nil
	}
	return r.respond(req)
}

func (r *recordingTransport) calls() []httpclient.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]httpclient.Request, len(r.requests))
	copy(out, r.requests)
	return out
}

func replyJSON(status int, body string) func(httpclient.Request) (httpclient.Response, error) {
	return func(httpclient.Request) (httpclient.Response, error) {
		return stubResponse{status: status, body: []byte(body)}, nil
	}
}

var errNetwork = &httpclient.TransportError{
	Kind:   httpclient.KindNetwork,
	Method: http.MethodGet,
	URL:    BaseURL,
	Err:    errors.New("dial tcp: connection refused"),
}

func failWith(err error) func(httpclient.Request) (httpclient.Response, error) {
	return func(httpclient.Request) (httpclient.Response, error) { return nil, err }
}
