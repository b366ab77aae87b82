package digitalocean

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// DropletCreateRequest is a typed body for CreateDroplet. Any JSON-encodable
// value is accepted by CreateDroplet; this type only names the known fields.
type DropletCreateRequest struct {
	Name              string `json:"name"`
	Region            string `json:"region"`
	Size              string `json:"size"`
	Image             any    `json:"image"`
	SSHKeys           []any  `json:"ssh_keys,omitempty"`
	Backups           bool   `json:"backups,omitempty"`
	IPv6              bool   `json:"ipv6,omitempty"`
	PrivateNetworking bool   `json:"private_networking,omitempty"`
	UserData          string `json:"user_data,omitempty"`
}

// DropletClient wraps the droplet lifecycle endpoints.
type DropletClient struct {
	baseURI     string
	upgradesURI string
	req         requester
}

// NewDropletClient stores token for later calls. It performs no I/O.
func NewDropletClient(token string, opts ...Option) *DropletClient {
	return &DropletClient{
		baseURI:     DropletsURL,
		upgradesURI: DropletUpgradesURL,
		req:         newRequester(token, opts),
	}
}

// CreateDroplet posts data verbatim as the JSON body. Strings and byte slices
// are encoded as JSON values; pass a json.RawMessage to send pre-encoded JSON.
// Required fields are checked by the API, not here.
func (c *DropletClient) CreateDroplet(ctx context.Context, data any) (Result, error) {
	return c.req.send(ctx, http.MethodPost, c.baseURI, jsonBody(data))
}

// GetDropletByID returns a single droplet.
func (c *DropletClient) GetDropletByID(ctx context.Context, id string) (Result, error) {
	return c.req.get(ctx, c.resourceURL(id, ""))
}

// ListDroplets returns every droplet in the account.
func (c *DropletClient) ListDroplets(ctx context.Context) (Result, error) {
	return c.req.get(ctx, c.baseURI)
}

// DeleteDroplet destroys a droplet. The API answers 204 with no body, so a
// successful call returns a nil Result.
func (c *DropletClient) DeleteDroplet(ctx context.Context, id string) (Result, error) {
	return c.req.send(ctx, http.MethodDelete, c.resourceURL(id, ""), nil)
}

// AvailableKernelsForDroplet lists the kernels a droplet may boot.
func (c *DropletClient) AvailableKernelsForDroplet(ctx context.Context, id string) (Result, error) {
	return c.req.get(ctx, c.resourceURL(id, "kernels"))
}

// GetSnapshotsForDroplet lists snapshots created from a droplet.
func (c *DropletClient) GetSnapshotsForDroplet(ctx context.Context, id string) (Result, error) {
	return c.req.get(ctx, c.resourceURL(id, "snapshots"))
}

// GetBackupsForDroplet lists backups of a droplet.
func (c *DropletClient) GetBackupsForDroplet(ctx context.Context, id string) (Result, error) {
	return c.req.get(ctx, c.resourceURL(id, "backups"))
}

// GetActionsForDroplet lists actions executed on a droplet.
func (c *DropletClient) GetActionsForDroplet(ctx context.Context, id string) (Result, error) {
	return c.req.get(ctx, c.resourceURL(id, "actions"))
}

// ListDropletUpgrades lists droplets scheduled for upgrade.
func (c *DropletClient) ListDropletUpgrades(ctx context.Context) (Result, error) {
	return c.req.get(ctx, c.upgradesURI)
}

// jsonBody encodes the values the transport would otherwise send as raw bytes.
func jsonBody(data any) any {
	switch v := data.(type) {
	case json.RawMessage:
		return v
	case string, []byte:
		// Marshalling a string or byte slice cannot fail.
		b, _ := json.Marshal(v)
		return json.RawMessage(b)
	}
	return data
}

// resourceURL builds base + id, optionally followed by a sub-resource segment.
func (c *DropletClient) resourceURL(id, sub string) string {
	u := c.baseURI + url.PathEscape(id)
	if sub != "" {
		u += "/" + sub
	}
	return u
}
