package digitalocean

import "github.com/samvad-hq/oceanic/pkg/httpclient"

// Logger receives request traces. The bearer token is never passed to it.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type options struct {
	transport httpclient.Client
	log       Logger
}

// Option configures the collaborators of a client. The endpoint and token are
// not configurable through options.
type Option func(*options)

// WithTransport sets the HTTP transport. The default is a resty client with a
// 30 second timeout.
func WithTransport(c httpclient.Client) Option {
	return func(o *options) { o.transport = c }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l Logger) Option {
	return func(o *options) { o.log = l }
}

type discardLogger struct{}

func (discardLogger) InfoObj(string, string, interface{})  {}
func (discardLogger) DebugObj(string, string, interface{}) {}
func (discardLogger) WarnObj(string, string, interface{})  {}
func (discardLogger) ErrorObj(string, string, interface{}) {}
