// Package storage remembers which droplets the watcher has already reported.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks observed droplet IDs.
type Store interface {
	Close() error
	// SeenDroplet reports whether id was marked and has not expired.
	SeenDroplet(id string) (bool, error)
	// MarkDroplet records id as seen and pushes its expiry out by the TTL.
	MarkDroplet(id string) error
	ForgetDroplet(id string) error
	// KnownDroplets returns the live ids in key order.
	KnownDroplets() ([]string, error)
}

// Options controls retention for concrete store implementations.
type Options struct {
	DropletTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"

	defaultDropletTTL      = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	if opts.DropletTTL <= 0 {
		opts.DropletTTL = defaultDropletTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}

	switch t := strings.ToLower(strings.TrimSpace(typ)); t {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", t)
	}
}

// noopStore forgets everything, so every droplet is reported on every pass.
type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) SeenDroplet(string) (bool, error) { return false, nil }
func (noopStore) MarkDroplet(string) error         { return nil }
func (noopStore) ForgetDroplet(string) error       { return nil }
func (noopStore) KnownDroplets() ([]string, error) { return nil, nil }
