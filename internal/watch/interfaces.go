package watch

import (
	"context"

	"github.com/samvad-hq/oceanic/pkg/digitalocean"
	"github.com/samvad-hq/oceanic/pkg/publishers"
)

// DropletLister is the slice of the droplet client the watcher needs.
type DropletLister interface {
	ListDroplets(ctx context.Context) (digitalocean.Result, error)
}

// EventPublisher publishes lifecycle events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers droplets that were already reported.
type Deduper interface {
	SeenDroplet(id string) (bool, error)
	MarkDroplet(id string) error
	ForgetDroplet(id string) error
	KnownDroplets() ([]string, error)
}
