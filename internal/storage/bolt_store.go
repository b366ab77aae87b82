package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	dropletBucket = []byte("droplets")

	errEmptyID       = errors.New("droplet id is empty")
	errMissingBucket = errors.New("droplet bucket missing")
)

// seenRecord is the value stored per droplet id: two big-endian unix seconds.
type seenRecord struct {
	firstSeen time.Time
	expiresAt time.Time
}

const seenRecordSize = 16

func (r seenRecord) encode() []byte {
	buf := make([]byte, seenRecordSize)
	binary.BigEndian.PutUint64(buf[:8], uint64(r.firstSeen.Unix()))
	binary.BigEndian.PutUint64(buf[8:], uint64(r.expiresAt.Unix()))
	return buf
}

func decodeSeenRecord(raw []byte) (seenRecord, bool) {
	if len(raw) != seenRecordSize {
		return seenRecord{}, false
	}
	first := int64(binary.BigEndian.Uint64(raw[:8]))
	exp := int64(binary.BigEndian.Uint64(raw[8:]))
	if first <= 0 || exp <= 0 {
		return seenRecord{}, false
	}
	return seenRecord{firstSeen: time.Unix(first, 0), expiresAt: time.Unix(exp, 0)}, true
}

func (r seenRecord) liveAt(now time.Time) bool {
	return r.expiresAt.After(now)
}

// boltStore is a Store backed by a single bbolt bucket.
type boltStore struct {
	db              *bolt.DB
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(dropletBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{
		db:              db,
		ttl:             opts.DropletTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
		lastSweep:       time.Now(),
	}, nil
}

func (b *boltStore) Close() error {
	return b.db.Close()
}

func (b *boltStore) SeenDroplet(id string) (bool, error) {
	if id == "" {
		return false, errEmptyID
	}
	now := b.now()
	if err := b.maybeSweep(now); err != nil {
		return false, err
	}

	var seen bool
	err := b.view(func(bucket *bolt.Bucket) error {
		rec, ok := decodeSeenRecord(bucket.Get([]byte(id)))
		seen = ok && rec.liveAt(now)
		return nil
	})
	return seen, err
}

func (b *boltStore) MarkDroplet(id string) error {
	if id == "" {
		return errEmptyID
	}
	now := b.now()
	if err := b.maybeSweep(now); err != nil {
		return err
	}

	return b.update(func(bucket *bolt.Bucket) error {
		rec, ok := decodeSeenRecord(bucket.Get([]byte(id)))
		if !ok || !rec.liveAt(now) {
			rec.firstSeen = now
		}
		rec.expiresAt = now.Add(b.ttl)
		return bucket.Put([]byte(id), rec.encode())
	})
}

func (b *boltStore) ForgetDroplet(id string) error {
	if id == "" {
		return errEmptyID
	}
	return b.update(func(bucket *bolt.Bucket) error {
		return bucket.Delete([]byte(id))
	})
}

func (b *boltStore) KnownDroplets() ([]string, error) {
	now := b.now()
	var ids []string
	err := b.view(func(bucket *bolt.Bucket) error {
		return bucket.ForEach(func(k, v []byte) error {
			if rec, ok := decodeSeenRecord(v); ok && rec.liveAt(now) {
				ids = append(ids, string(k))
			}
			return nil
		})
	})
	return ids, err
}

// maybeSweep deletes expired and unreadable records at most once per cleanup
// interval.
func (b *boltStore) maybeSweep(now time.Time) error {
	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()
	if now.Sub(b.lastSweep) < b.cleanupInterval {
		return nil
	}

	err := b.update(func(bucket *bolt.Bucket) error {
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if rec, ok := decodeSeenRecord(v); !ok || !rec.liveAt(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired droplets: %w", err)
	}
	b.lastSweep = now
	return nil
}

func (b *boltStore) view(fn func(*bolt.Bucket) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(dropletBucket)
		if bucket == nil {
			return errMissingBucket
		}
		return fn(bucket)
	})
}

func (b *boltStore) update(fn func(*bolt.Bucket) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(dropletBucket)
		if bucket == nil {
			return errMissingBucket
		}
		return fn(bucket)
	})
}
