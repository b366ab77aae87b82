// Package digitalocean is a thin binding for the DigitalOcean v2 management API.
// Every operation is a single REST call whose decoded body is returned as is.
package digitalocean

import (
	"context"
	"net/http"
	"time"

	"github.com/samvad-hq/oceanic/pkg/httpclient"
)

const (
	// BaseURL is the root of the v2 API.
	BaseURL = "https://api.digitalocean.com/v2/"

	// AccountURL serves the authenticated user's profile.
	AccountURL = BaseURL + "account"
	// DropletsURL is the droplet collection; single droplets live below it.
	DropletsURL = BaseURL + "droplets/"
	// DropletUpgradesURL lists droplets scheduled for a host upgrade.
	DropletUpgradesURL = BaseURL + "droplet_upgrades"

	defaultTimeout = 30 * time.Second
)

// Result is a decoded JSON response body. Objects are map[string]any, arrays
// are []any and numbers are json.Number. Empty bodies yield nil.
type Result = any

// requester holds the immutable per-client state shared by every call.
type requester struct {
	token     string
	transport httpclient.Client
	log       Logger
}

func newRequester(token string, opts []Option) requester {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.transport == nil {
		o.transport = httpclient.NewRestyClient(defaultTimeout)
	}
	if o.log == nil {
		o.log = discardLogger{}
	}
	return requester{
		token:     token,
		transport: o.transport,
		log:       o.log,
	}
}

func (r requester) headers() map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + r.token,
	}
}

// send issues one request and returns the decoded body. Transport errors are
// returned untouched.
func (r requester) send(ctx context.Context, method, uri string, body any) (Result, error) {
	req := httpclient.Request{
		Method:  method,
		URL:     uri,
		Headers: r.headers(),
		Body:    body,
	}
	r.log.DebugObj("digitalocean request", "request", map[string]any{
		"method": method,
		"url":    uri,
	})

	resp, err := r.transport.Do(ctx, req)
	if err != nil {
		r.log.DebugObj("digitalocean request failed", "request_error", map[string]any{
			"method": method,
			"url":    uri,
			"error":  err.Error(),
		})
		return nil, err
	}
	return httpclient.DecodeJSON(req, resp)
}

func (r requester) get(ctx context.Context, uri string) (Result, error) {
	return r.send(ctx, http.MethodGet, uri, nil)
}
