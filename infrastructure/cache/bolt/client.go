// ABOUTME: On-disk cache implementation using bbolt for single-process deployments
// ABOUTME: Each value is stored behind an 8-byte expiry header and expired entries are removed on read

package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"paperfeed-engine/pkg/config"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

var bucketName = []byte("paperfeed_cache")

const headerSize = 8

// BoltCache implements the Cache interface on a bbolt database file
type BoltCache struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltCache opens (or creates) the database file at cfg.Path
func NewBoltCache(cfg config.BoltConfig) (*BoltCache, error) {
	if cfg.Path == "" {
		return nil, errors.New("bolt path cannot be empty")
	}

	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt cache %s: %w", cfg.Path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bolt bucket: %w", err)
	}

	return &BoltCache{db: db, now: time.Now}, nil
}

// Get retrieves a value, deleting it if it has expired
func (c *BoltCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		value   []byte
		expired bool
	)
	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(key))
		if len(raw) < headerSize {
			return ErrCacheMiss
		}
		if exp := int64(binary.BigEndian.Uint64(raw[:headerSize])); exp != 0 && c.now().UnixNano() > exp {
			expired = true
			return ErrCacheMiss
		}
		// raw is only valid inside the transaction
		value = append([]byte(nil), raw[headerSize:]...)
		return nil
	})

	if expired {
		_ = c.Delete(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a value with the given TTL; 0 never expires
func (c *BoltCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var exp int64
	if ttl > 0 {
		exp = c.now().Add(ttl).UnixNano()
	}

	buf := make([]byte, headerSize+len(value))
	binary.BigEndian.PutUint64(buf[:headerSize], uint64(exp))
	copy(buf[headerSize:], value)

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), buf)
	})
}

// Delete removes a key; a missing key is not an error
func (c *BoltCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

// Close releases the database file lock
func (c *BoltCache) Close() error {
	return c.db.Close()
}
