package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// DecodeJSON decodes resp's body into a generic JSON value (maps, slices,
// strings, bools, json.Number). An empty body decodes to nil.
func DecodeJSON(req Request, resp Response) (any, error) {
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, decodeError(req, resp, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, decodeError(req, resp, errors.New("trailing data after JSON value"))
	}
	return out, nil
}

func decodeError(req Request, resp Response, err error) error {
	return &TransportError{
		Kind:       KindDecode,
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: resp.StatusCode(),
		Body:       BodySnippet(resp.Body()),
		Err:        err,
	}
}
