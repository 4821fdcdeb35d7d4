// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

// Package ttlcache provides a diskv-backed cache whose entries expire after
// a fixed TTL.  It is used to bound how long resolved photo metadata is kept
// on disk between site builds.
package ttlcache

import (
	"bytes"
	"encoding/gob"
	"log"
	"time"

	"github.com/gregjones/httpcache/diskcache"
	"github.com/peterbourgon/diskv"
)

// envelope wraps a stored value with its expiry deadline.
type envelope struct {
	Value    []byte
	ExpireAt time.Time
}

// Cache is a disk cache with TTL expiry.  A zero TTL means entries never
// expire.
type Cache struct {
	disk *diskcache.Cache
	ttl  time.Duration

	now func() time.Time // test hook
}

// New creates a Cache rooted at basePath with the given TTL.
func New(basePath string, ttl time.Duration) *Cache {
	d := diskv.New(diskv.Options{
		BasePath: basePath,
		// For file "c0ffee", store file as "c0/ff/c0ffee"
		Transform: func(s string) []string { return []string{s[0:2], s[2:4]} },
	})

	return &Cache{
		disk: diskcache.NewWithDiskv(d),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the value for key if present and not expired.  Expired
// entries are deleted on access.
func (c *Cache) Get(key string) ([]byte, bool) {
	b, ok := c.disk.Get(key)
	if !ok {
		return nil, false
	}

	var e envelope
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&e); err != nil {
		log.Printf("ttlcache: dropping undecodable entry for %q: %v", key, err)
		c.disk.Delete(key)
		return nil, false
	}

	if !e.ExpireAt.IsZero() && c.now().After(e.ExpireAt) {
		c.disk.Delete(key)
		return nil, false
	}
	return e.Value, true
}

// Set stores value for key with the configured TTL.
func (c *Cache) Set(key string, value []byte) {
	e := envelope{Value: value}
	if c.ttl > 0 {
		e.ExpireAt = c.now().Add(c.ttl)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		log.Printf("ttlcache: error encoding entry for %q: %v", key, err)
		return
	}
	c.disk.Set(key, buf.Bytes())
}

// Delete removes the value for key.
func (c *Cache) Delete(key string) {
	c.disk.Delete(key)
}
