// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import (
	"encoding/json"
	"math/rand"
	"time"
)

// Cache provides a lookup cache for resolved photo metadata.  It has the
// same shape as github.com/gregjones/httpcache.Cache, so any backend written
// for that interface (disk, redis, S3, GCS, in-memory LRU, tiered
// combinations) plugs in unchanged.
type Cache interface {
	// Get returns the cached value for a key.
	Get(key string) ([]byte, bool)

	// Set stores a value for a key.
	Set(key string, value []byte)

	// Delete removes the value for a key.
	Delete(key string)
}

// NopCache provides a no-op cache implementation that doesn't actually cache
// anything.
var NopCache = new(nopCache)

type nopCache struct{}

func (c nopCache) Get(string) ([]byte, bool) { return nil, false }
func (c nopCache) Set(string, []byte)        {}
func (c nopCache) Delete(string)             {}

// resolveKey is the cache key for a short URL to photo ID mapping.
func resolveKey(shortURL string) string { return "resolve:" + shortURL }

// photoKey is the cache key for resolved metadata of one photo at one size.
func photoKey(id string, size Size) string { return "photo:" + id + ":" + size.Suffix() }

// Entry is the persisted form of resolved photo metadata.  Entries are
// immutable once written; they are replaced only when their refresh window
// has passed or deleted by explicit cache invalidation.
type Entry struct {
	ImageURL string `json:"image_url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Caption  string `json:"caption,omitempty"`

	// FetchedAt and NextUpdate are Unix timestamps bounding the entry's
	// refresh window.
	FetchedAt  int64 `json:"fetched_at"`
	NextUpdate int64 `json:"next_update"`
}

func encodeEntry(e Entry) []byte {
	b, _ := json.Marshal(e)
	return b
}

func decodeEntry(b []byte) (Entry, error) {
	var e Entry
	err := json.Unmarshal(b, &e)
	return e, err
}

// Refresh windows.  An entry fetched within the session interval is always
// served without a freshness check; past its NextUpdate time it is
// re-fetched.  NextUpdate times are picked at random between the recent and
// refresh intervals so that a bulk import doesn't make every entry expire in
// the same run.
const (
	sessionInterval = time.Hour
	updateIncrement = 24 * time.Hour
	recentInterval  = 3 * 24 * time.Hour
	refreshInterval = 14 * 24 * time.Hour
)

// fresh reports whether the entry can be served at time now without
// re-fetching.
func (e Entry) fresh(now time.Time) bool {
	if e.FetchedAt == 0 {
		return false
	}
	if now.Unix()-e.FetchedAt < int64(sessionInterval.Seconds()) {
		return true
	}
	return now.Unix() < e.NextUpdate
}

// nextUpdateTime picks a randomized refresh deadline for an entry fetched at
// time now.
func nextUpdateTime(now time.Time, intn func(int64) int64) int64 {
	if intn == nil {
		intn = rand.Int63n
	}
	lo := int64((recentInterval + updateIncrement).Seconds())
	hi := int64(refreshInterval.Seconds())
	return now.Unix() + lo + intn(hi-lo)
}
