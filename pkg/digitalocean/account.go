package digitalocean

import "context"

// AccountClient wraps the account endpoint.
type AccountClient struct {
	baseURI string
	req     requester
}

// NewAccountClient stores token for later calls. It performs no I/O and does
// not inspect the token.
func NewAccountClient(token string, opts ...Option) *AccountClient {
	return &AccountClient{
		baseURI: BaseURL,
		req:     newRequester(token, opts),
	}
}

// GetUserInfo returns the standard attributes of the token's account.
func (c *AccountClient) GetUserInfo(ctx context.Context) (Result, error) {
	return c.req.get(ctx, c.baseURI+"account")
}
