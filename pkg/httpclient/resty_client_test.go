package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientDoSendsHeadersAndJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected Authorization header %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("unexpected Content-Type header %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["name"] != "test" {
			t.Fatalf("unexpected body %#v", body)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	req := Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer tok",
		},
		Body: map[string]any{"name": "test"},
	}
	resp, err := client.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusAccepted {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}

	out, err := DecodeJSON(req, resp)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	obj, ok := out.(map[string]any)
	if !ok || obj["id"] != json.Number("42") {
		t.Fatalf("unexpected decoded body %#v", out)
	}
}

func TestRestyClientDoSendsRawMessageUnchanged(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got <- string(raw)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	req := Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    json.RawMessage(`"web-1"`),
	}
	if _, err := NewRestyClient(2*time.Second).Do(context.Background(), req); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if body := <-got; body != `"web-1"` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRestyClientDoClassifiesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"id":"not_found","message":"The resource you were accessing could not be found."}`))
	}))
	defer srv.Close()

	_, err := NewRestyClient(time.Second).Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	te, ok := AsTransportError(err)
	if !ok {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Kind != KindStatus || te.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected error %+v", te)
	}
	if te.Body == "" {
		t.Fatalf("expected body snippet on status error")
	}
}

func TestRestyClientDoClassifiesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRestyClient(time.Second).Do(context.Background(), Request{Method: http.MethodGet, URL: url})
	te, ok := AsTransportError(err)
	if !ok || te.Kind != KindNetwork {
		t.Fatalf("expected network TransportError, got %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("expected underlying cause")
	}
}

type rawResponse struct {
	body   []byte
	status int
}

func (r rawResponse) Body() []byte    { return r.body }
func (r rawResponse) StatusCode() int { return r.status }

func TestDecodeJSON(t *testing.T) {
	req := Request{Method: http.MethodGet, URL: "https://example.com"}

	out, err := DecodeJSON(req, rawResponse{status: http.StatusNoContent})
	if err != nil || out != nil {
		t.Fatalf("empty body: out=%#v err=%v", out, err)
	}

	out, err = DecodeJSON(req, rawResponse{body: []byte(`[{"id":1},{"id":2}]`), status: http.StatusOK})
	if err != nil {
		t.Fatalf("array body: %v", err)
	}
	arr, ok := out.([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("unexpected array %#v", out)
	}

	_, err = DecodeJSON(req, rawResponse{body: []byte(`{"id":`), status: http.StatusOK})
	if te, ok := AsTransportError(err); !ok || te.Kind != KindDecode {
		t.Fatalf("expected decode TransportError, got %v", err)
	}

	_, err = DecodeJSON(req, rawResponse{body: []byte(`{} {}`), status: http.StatusOK})
	if te, ok := AsTransportError(err); !ok || te.Kind != KindDecode {
		t.Fatalf("expected decode TransportError for trailing data, got %v", err)
	}
}
