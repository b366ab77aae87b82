package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps publisher types to builders. It is not safe for concurrent
// Register calls; populate it before building.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry holding builders.
func NewRegistry(builders map[string]Builder) *Registry {
	r := &Registry{builders: make(map[string]Builder, len(builders))}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// DefaultRegistry knows every built-in sink type.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	})
}

// Register binds typ to builder, replacing any earlier binding.
func (r *Registry) Register(typ string, builder Builder) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || builder == nil {
		return
	}
	r.builders[typ] = builder
}

// Build constructs the publisher for cfg and applies its event filter.
func (r *Registry) Build(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	builder, ok := r.builders[strings.ToLower(cfg.Type)]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	pub, err := builder(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if len(cfg.Events) > 0 {
		pub = &filteredPublisher{Publisher: pub, accepts: cfg.Accepts}
	}
	return pub, nil
}

// BuildAll builds every entry in order. On failure the publishers built so
// far are closed.
func BuildAll(ctx context.Context, reg *Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	if reg == nil {
		return nil, fmt.Errorf("publisher registry is nil")
	}

	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.Build(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(pubs).Close()
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

// errNotSubscribed marks an event a filtered publisher skipped. Fanout counts
// it neither as a delivery nor as a failure.
var errNotSubscribed = errors.New("event not subscribed")

// filteredPublisher drops events its config did not subscribe to.
type filteredPublisher struct {
	Publisher
	accepts func(EventType) bool
}

func (f *filteredPublisher) Publish(ctx context.Context, evt Event) error {
	if !f.accepts(evt.Type) {
		return errNotSubscribed
	}
	return f.Publisher.Publish(ctx, evt)
}

func (f *filteredPublisher) Close() error {
	if c, ok := f.Publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
