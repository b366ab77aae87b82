package cli

import (
	"context"

	"github.com/samvad-hq/oceanic/internal/app"
	"github.com/samvad-hq/oceanic/internal/domain"
	"github.com/samvad-hq/oceanic/pkg/publishers"
)

// publish announces a completed mutation when publishers are configured.
// Delivery failures are logged; the remote change has already happened.
func (s *session) publish(ctx context.Context, typ publishers.EventType, droplet domain.Droplet) {
	if s.cfg.PublishersFile == "" {
		return
	}

	fanout, err := app.LoadPublishers(ctx, s.cfg.PublishersFile, s.log)
	if err != nil {
		s.log.WarnObj("publishers unavailable", "error", err)
		return
	}
	defer func() {
		if err := fanout.Close(); err != nil {
			s.log.WarnObj("publishers close failed", "error", err)
		}
	}()

	evt := publishers.NewEvent(typ, eventSource, droplet)
	delivered, err := fanout.Publish(ctx, evt)
	if err != nil {
		s.log.WarnObj("event delivery failed", "event_delivery", map[string]any{
			"event_id":   evt.ID,
			"event_type": string(typ),
			"delivered":  delivered,
			"error":      err.Error(),
		})
		return
	}
	s.log.InfoObj("event published", "event_delivery", map[string]any{
		"event_id":   evt.ID,
		"event_type": string(typ),
		"droplet_id": droplet.ID,
		"delivered":  delivered,
	})
}
