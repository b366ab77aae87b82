package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("nil publishers should be dropped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every publisher should be called once")
	}
}

func TestFanoutCloseClosesPublishers(t *testing.T) {
	a := &stubPublisher{id: "a", typ: "sqs"}
	b := &stubPublisher{id: "b", typ: "pubsub"}
	if err := NewFanout([]Publisher{a, b}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Fatalf("expected all publishers closed")
	}
}

func TestNilFanoutIsSafe(t *testing.T) {
	var f *Fanout
	if n, err := f.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout publish: n=%d err=%v", n, err)
	}
	if f.Size() != 0 || f.Close() != nil {
		t.Fatalf("nil fanout should be empty")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d", len(pubs))
	}
}

func TestBuildAllRejectsUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "kafka", Type: "kafka"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown publisher type")
	}
}

func TestBuildAllFiltersSubscribedEvents(t *testing.T) {
	stub := &stubPublisher{id: "audit", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return stub, nil },
	})
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "audit", Type: "stub", Events: []EventType{EventDropletDeleted}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	fanout := NewFanout(pubs)

	if _, err := fanout.Publish(context.Background(), Event{Type: EventDropletDiscovered}); err != nil {
		t.Fatalf("Publish discovered: %v", err)
	}
	if _, err := fanout.Publish(context.Background(), Event{Type: EventDropletDeleted}); err != nil {
		t.Fatalf("Publish deleted: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected only the subscribed event to be delivered, got %d calls", stub.calls)
	}
	if err := fanout.Close(); err != nil || !stub.closed {
		t.Fatalf("filtered publisher should close the wrapped one, closed=%v err=%v", stub.closed, err)
	}
}

func TestFanoutSkipsUnsubscribedPublishersWhenCounting(t *testing.T) {
	deletes := &stubPublisher{id: "deletes-only", typ: "stub"}
	discoveries := &stubPublisher{id: "discoveries", typ: "stub", err: errors.New("sink down")}
	stubs := map[string]*stubPublisher{deletes.id: deletes, discoveries.id: discoveries}
	reg := NewRegistry(map[string]Builder{
		"stub": func(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) { return stubs[cfg.ID], nil },
	})
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "deletes-only", Type: "stub", Events: []EventType{EventDropletDeleted}},
		{ID: "discoveries", Type: "stub", Events: []EventType{EventDropletDiscovered}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	fanout := NewFanout(pubs)

	n, err := fanout.Publish(context.Background(), Event{Type: EventDropletDiscovered})
	if n != 0 {
		t.Fatalf("discovery reached no subscribed sink, got delivered=%d", n)
	}
	if err == nil || !strings.Contains(err.Error(), "sink down") {
		t.Fatalf("expected the subscribed failure, got %v", err)
	}
	if strings.Contains(err.Error(), "deletes-only") {
		t.Fatalf("unsubscribed publisher should not be reported: %v", err)
	}
	if deletes.calls != 0 {
		t.Fatalf("deletes-only sink should not see discoveries")
	}

	n, err = fanout.Publish(context.Background(), Event{Type: EventDropletDeleted})
	if n != 1 || err != nil {
		t.Fatalf("deletion: delivered=%d err=%v", n, err)
	}
}

func TestFanoutWithNoSubscribersDeliversNothing(t *testing.T) {
	stub := &stubPublisher{id: "audit", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return stub, nil },
	})
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "audit", Type: "stub", Events: []EventType{EventDropletCreated}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	n, err := NewFanout(pubs).Publish(context.Background(), Event{Type: EventDropletDiscovered})
	if n != 0 || err != nil {
		t.Fatalf("expected no delivery and no error, got n=%d err=%v", n, err)
	}
}
