package publishers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/oceanic/pkg/httpclient"
)

const (
	headerEvent     = "X-Oceanic-Event"
	headerSignature = "X-Oceanic-Signature"
)

// httpPublisher posts events to a webhook.
type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	secret  []byte
	client  *resty.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	pub := &httpPublisher{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:     ensureLogger(log),
	}
	if cfg.HTTP.Secret != "" {
		pub.secret = []byte(cfg.HTTP.Secret)
	}
	return pub, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(headerEvent, string(evt.Type)).
		SetBody(payload)
	if h.secret != nil {
		req.SetHeader(headerSignature, sign(h.secret, payload))
	}

	resp, err := req.Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), httpclient.BodySnippet(resp.Body()))
	}
	h.log.DebugObj("webhook delivered", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"event_type":   string(evt.Type),
		"status":       resp.StatusCode(),
	})
	return nil
}

// sign returns "sha256=<hex hmac>" of body under secret.
func sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
