package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/oceanic/internal/domain"
)

// EventType names a droplet lifecycle transition.
type EventType string

const (
	EventDropletCreated    EventType = "droplet.created"
	EventDropletDeleted    EventType = "droplet.deleted"
	EventDropletDiscovered EventType = "droplet.discovered"
)

func (t EventType) known() bool {
	switch t {
	case EventDropletCreated, EventDropletDeleted, EventDropletDiscovered:
		return true
	}
	return false
}

// Event represents the payload published downstream.
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Source     string         `json:"source"`
	Droplet    domain.Droplet `json:"droplet"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewEvent constructs an Event with a fresh id for the given droplet.
func NewEvent(typ EventType, source string, droplet domain.Droplet) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Source:     source,
		Droplet:    droplet,
		OccurredAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_type": string(e.Type),
		"droplet_id": e.Droplet.ID,
	}
}
