package httpclient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a transport failure.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindStatus  ErrorKind = "status"
	KindDecode  ErrorKind = "decode"
)

const maxSnippetBytes = 512

// TransportError is the only error type produced by this package. It covers
// connection failures, non-success statuses and undecodable bodies.
type TransportError struct {
	Kind       ErrorKind
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body == "" {
			return fmt.Sprintf("%s %s: http response status %d", e.Method, e.URL, e.StatusCode)
		}
		return fmt.Sprintf("%s %s: http response status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	case KindDecode:
		return fmt.Sprintf("%s %s: decode response: %v", e.Method, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: http request: %v", e.Method, e.URL, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// AsTransportError extracts a *TransportError from err's chain.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// BodySnippet trims body to a loggable prefix.
func BodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxSnippetBytes {
		body = body[:maxSnippetBytes]
	}
	return strings.TrimSpace(string(body))
}
