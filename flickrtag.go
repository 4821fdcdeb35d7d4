// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

// Package flickrtag rewrites inline [flickr:...] tags in document text into
// embeddable image markup.  A static-site generator invokes a Processor once
// per document during its build pass; short URLs are resolved to photo IDs
// and metadata through a LookupService, with results held in a pluggable
// Cache so repeated builds avoid the network.  For typical use of creating
// and using a Processor, see cmd/flickrtag/main.go.
package flickrtag

import (
	"context"
	"html/template"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/die-net/lrucache"
	"github.com/prometheus/client_golang/prometheus"
)

// defaultMemoryCacheSize bounds the in-process cache when no cache is
// supplied, in bytes.  Resolved entries are tiny, so this is generous.
const defaultMemoryCacheSize = 1 << 20

// Processor rewrites tags in document text.  Construct one at build start
// with NewProcessor and call Flush at build end.
type Processor struct {
	Service LookupService // resolves short URLs and fetches metadata
	Cache   Cache         // lookup cache consulted before the Service

	// Template overrides the markup emitted per tag.  If nil,
	// DefaultTemplate is used.
	Template *template.Template

	// DefaultSize is used for tags that don't specify a size.  If empty,
	// the package default (medium 640) applies.
	DefaultSize Size

	Verbose bool

	now  func() time.Time  // test hook
	intn func(int64) int64 // test hook for refresh smearing
}

// NewProcessor constructs a Processor backed by the given lookup service.
// If cache is nil, an in-process LRU is used for the duration of the run.
func NewProcessor(service LookupService, cache Cache) *Processor {
	if cache == nil {
		cache = lrucache.New(defaultMemoryCacheSize, 0)
	}
	return &Processor{
		Service: service,
		Cache:   cache,
		now:     time.Now,
		intn:    rand.Int63n,
	}
}

// Process rewrites every tag in text and returns the transformed text.  A
// tag that is malformed or fails to resolve is logged and left unchanged in
// the output; errors never propagate past this boundary, so one bad tag
// cannot abort a site build.
func (p *Processor) Process(ctx context.Context, text string) string {
	for _, tag := range FindTags(text) {
		if tag.Err != nil {
			tagsFailedCount.Inc()
			log.Printf("flickrtag: leaving tag unchanged: %v", tag.Err)
			continue
		}

		markup, err := p.renderTag(ctx, tag.Params)
		if err != nil {
			tagsFailedCount.Inc()
			log.Printf("flickrtag: leaving tag %q unchanged: %v", tag.Raw, err)
			continue
		}

		text = strings.Replace(text, tag.Raw, markup, 1)
		tagsProcessedCount.Inc()
	}
	return text
}

// Flush writes any buffered cache state to persistent storage.  The provided
// cache backends are write-through, so this is currently a no-op; it is part
// of the Processor lifecycle so callers can pair it with construction at
// build start.
func (p *Processor) Flush() error { return nil }

// clock guards the test hook so a zero-value Processor still works.
func (p *Processor) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

// renderTag resolves one parsed tag to markup.
func (p *Processor) renderTag(ctx context.Context, params Params) (string, error) {
	size := params.Size
	if size == "" {
		size = p.DefaultSize
	}

	id, err := p.resolveID(ctx, params.URL)
	if err != nil {
		return "", err
	}

	entry, err := p.lookup(ctx, id, size)
	if err != nil {
		return "", err
	}

	img := ResolvedImage{
		ImageURL:    entry.ImageURL,
		PageURL:     params.URL,
		Width:       entry.Width,
		Height:      entry.Height,
		Caption:     entry.Caption,
		Float:       params.Float,
		ShowCaption: params.ShowCaption(),
	}
	return Render(p.Template, img)
}

// resolveID returns the photo ID for a short URL, consulting the cache
// before the lookup service.
func (p *Processor) resolveID(ctx context.Context, shortURL string) (string, error) {
	key := resolveKey(shortURL)
	if b, ok := p.Cache.Get(key); ok {
		cacheHitCount.Inc()
		return string(b), nil
	}

	id, err := p.Service.ResolveID(ctx, shortURL)
	if err != nil {
		return "", err
	}

	p.Cache.Set(key, []byte(id))
	return id, nil
}

// lookup returns the resolved metadata entry for (id, size), consulting the
// cache before the lookup service.  A cached entry past its refresh window
// is re-fetched; if the re-fetch fails, the stale entry is served rather
// than dropping the tag for this run.
func (p *Processor) lookup(ctx context.Context, id string, size Size) (Entry, error) {
	key := photoKey(id, size)

	var stale *Entry
	if b, ok := p.Cache.Get(key); ok {
		if entry, err := decodeEntry(b); err == nil {
			if entry.fresh(p.clock()) {
				cacheHitCount.Inc()
				return entry, nil
			}
			stale = &entry
		}
	}

	timer := prometheus.NewTimer(lookupDurationSummary)
	photo, err := p.Service.FetchMetadata(ctx, id, size)
	timer.ObserveDuration()
	if err != nil {
		if stale != nil {
			if p.Verbose {
				log.Printf("flickrtag: refresh of photo %v failed, serving stale entry: %v", id, err)
			}
			return *stale, nil
		}
		lookupErrorCount.Inc()
		return Entry{}, err
	}

	now := p.clock()
	entry := Entry{
		ImageURL:   photo.ImageURL,
		Width:      photo.Width,
		Height:     photo.Height,
		Caption:    photo.Title,
		FetchedAt:  now.Unix(),
		NextUpdate: nextUpdateTime(now, p.intn),
	}
	p.Cache.Set(key, encodeEntry(entry))
	return entry, nil
}
