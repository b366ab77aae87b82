package watch

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/oceanic/internal/domain"
	"github.com/samvad-hq/oceanic/internal/logger"
	"github.com/samvad-hq/oceanic/pkg/publishers"
)

// Source identifies events emitted by the watcher.
const Source = "oceanwatch"

// Summary describes one watch pass.
type Summary struct {
	Listed     int
	Discovered int
	Vanished   int
	Published  int
}

// Service lists droplets and reports the ones it has not seen before.
type Service struct {
	lister    DropletLister
	publisher EventPublisher
	log       logger.Logger
	deduper   Deduper
}

// NewService wires a watcher. A nil deduper reports every droplet on every pass.
func NewService(lister DropletLister, publisher EventPublisher, log logger.Logger, deduper Deduper) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		lister:    lister,
		publisher: publisher,
		log:       log,
		deduper:   deduper,
	}
}

// Run executes one pass: list, publish unseen droplets, mark all listed ones,
// then report remembered droplets that are no longer listed.
//
// Only the first page of the droplet list is read (20 droplets by default).
// Droplets beyond it are never discovered or marked.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	if s == nil || s.lister == nil {
		return Summary{}, fmt.Errorf("watch service is not initialized")
	}

	res, err := s.lister.ListDroplets(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list droplets: %w", err)
	}
	droplets, err := domain.DropletsFromResult(res)
	if err != nil {
		return Summary{}, fmt.Errorf("read droplet list: %w", err)
	}

	summary := Summary{Listed: len(droplets)}
	var errs []error
	for _, d := range droplets {
		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return summary, errors.Join(errs...)
		default:
		}

		discovered, published, err := s.processDroplet(ctx, d)
		if discovered {
			summary.Discovered++
		}
		summary.Published += published
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("droplet processing failed", "droplet_error", map[string]any{
				"droplet_id": d.ID,
				"error":      err.Error(),
			})
		}
	}

	if s.deduper != nil {
		vanished, published, err := s.reportVanished(ctx, droplets)
		summary.Vanished = vanished
		summary.Published += published
		if err != nil {
			errs = append(errs, err)
		}
	}

	s.log.InfoObj("watch pass completed", "watch_result", map[string]any{
		"listed":     summary.Listed,
		"discovered": summary.Discovered,
		"vanished":   summary.Vanished,
		"published":  summary.Published,
	})
	return summary, errors.Join(errs...)
}

// processDroplet publishes a discovery event for unseen droplets and refreshes
// the droplet's entry in the deduper. A droplet whose lookup fails is treated
// as unseen.
func (s *Service) processDroplet(ctx context.Context, d domain.Droplet) (bool, int, error) {
	seen := false
	if s.deduper != nil {
		var err error
		seen, err = s.deduper.SeenDroplet(d.ID)
		if err != nil {
			s.log.WarnObj("droplet dedupe lookup failed", "dedupe_error", map[string]any{
				"droplet_id": d.ID,
				"error":      err.Error(),
			})
			seen = false
		}
	}

	published := 0
	if !seen && s.publisher != nil {
		n, err := s.publisher.Publish(ctx, publishers.NewEvent(publishers.EventDropletDiscovered, Source, d))
		published = n
		if err != nil {
			if n == 0 {
				// Leave it unmarked so the next pass retries the discovery.
				return true, 0, fmt.Errorf("publish droplet %s: %w", d.ID, err)
			}
			s.log.WarnObj("droplet discovery partially published", "publish_error", map[string]any{
				"droplet_id": d.ID,
				"published":  n,
				"error":      err.Error(),
			})
		}
	}

	if s.deduper != nil {
		if err := s.deduper.MarkDroplet(d.ID); err != nil {
			return !seen, published, fmt.Errorf("mark droplet %s: %w", d.ID, err)
		}
	}
	return !seen, published, nil
}

// reportVanished publishes a deletion event for every remembered droplet that
// is missing from listed, then forgets it. Droplets whose event could not be
// delivered anywhere stay remembered for the next pass.
func (s *Service) reportVanished(ctx context.Context, listed []domain.Droplet) (int, int, error) {
	known, err := s.deduper.KnownDroplets()
	if err != nil {
		return 0, 0, fmt.Errorf("load known droplets: %w", err)
	}

	present := make(map[string]struct{}, len(listed))
	for _, d := range listed {
		present[d.ID] = struct{}{}
	}

	vanished, published := 0, 0
	var errs []error
	for _, id := range known {
		if _, ok := present[id]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		vanished++

		if s.publisher != nil {
			n, err := s.publisher.Publish(ctx, publishers.NewEvent(publishers.EventDropletDeleted, Source, domain.Droplet{ID: id}))
			published += n
			if err != nil && n == 0 {
				errs = append(errs, fmt.Errorf("publish vanished droplet %s: %w", id, err))
				continue
			}
		}
		if err := s.deduper.ForgetDroplet(id); err != nil {
			errs = append(errs, fmt.Errorf("forget droplet %s: %w", id, err))
		}
	}
	return vanished, published, errors.Join(errs...)
}
