// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

// flickrtag rewrites [flickr:...] tags in documents into embeddable image
// markup, resolving photo short URLs through Flickr's public endpoints.
//
// Documents are named as arguments (or piped on stdin) and the transformed
// text is written to stdout, or back to the source files with -w.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PaulARoy/azurestoragecache"
	"github.com/die-net/lrucache"
	"github.com/die-net/lrucache/twotier"
	"github.com/gomodule/redigo/redis"
	rediscache "github.com/gregjones/httpcache/redis"

	"github.com/flickrtag/flickrtag"
	"github.com/flickrtag/flickrtag/internal/gcscache"
	"github.com/flickrtag/flickrtag/internal/s3cache"
	"github.com/flickrtag/flickrtag/internal/ttlcache"
)

const defaultMemorySize = 100

var apiKey = flag.String("apiKey", os.Getenv("FLICKRTAG_API_KEY"), "Flickr API key used for metadata lookups")
var defaultSize = flag.String("size", os.Getenv("FLICKRTAG_SIZE"), "default image size for tags that don't specify one")
var write = flag.Bool("w", false, "write results back to source files instead of stdout")
var timeout = flag.Duration("timeout", 0, "time limit for provider lookups")
var cacheTTL = flag.Duration("cacheTTL", 0, "expiry for disk cache entries (0 means never expire)")
var verbose = flag.Bool("verbose", false, "print verbose logging messages")
var cache tieredCache

func init() {
	flag.Var(&cache, "cache", "location of lookup cache (memory, directory path, redis://, s3://, gcs://, azure://; multiple values create a tiered cache)")
}

func main() {
	flag.Parse()

	client := flickrtag.NewClient(nil, *apiKey, nil)
	client.Verbose = *verbose
	if *timeout > 0 {
		client.Client.Timeout = *timeout
	}

	p := flickrtag.NewProcessor(client, cache.Cache)
	p.Verbose = *verbose
	if *defaultSize != "" {
		s, ok := flickrtag.LookupSize(*defaultSize)
		if !ok {
			log.Fatalf("unknown size: %v", *defaultSize)
		}
		p.DefaultSize = s
	}

	ctx := context.Background()

	if flag.NArg() == 0 {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("error reading stdin: %v", err)
		}
		fmt.Print(p.Process(ctx, string(text)))
	}

	for _, name := range flag.Args() {
		if err := processFile(ctx, p, name); err != nil {
			log.Fatalf("%v: %v", name, err)
		}
	}

	if err := p.Flush(); err != nil {
		log.Fatalf("error flushing cache: %v", err)
	}
}

func processFile(ctx context.Context, p *flickrtag.Processor, name string) error {
	text, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	out := p.Process(ctx, string(text))
	if *write {
		info, err := os.Stat(name)
		if err != nil {
			return err
		}
		return os.WriteFile(name, []byte(out), info.Mode().Perm())
	}

	_, err = io.WriteString(os.Stdout, out)
	return err
}

// tieredCache allows specifying multiple caches via flags, which will create
// tiered caches using the twotier package.
type tieredCache struct {
	flickrtag.Cache
}

func (tc *tieredCache) String() string {
	return fmt.Sprint(*tc)
}

func (tc *tieredCache) Set(value string) error {
	for _, v := range strings.Fields(value) {
		c, err := parseCache(v)
		if err != nil {
			return err
		}

		if tc.Cache == nil {
			tc.Cache = c
		} else {
			tc.Cache = twotier.New(tc.Cache, c)
		}
	}
	return nil
}

// parseCache parses c and returns the specified Cache implementation.
func parseCache(c string) (flickrtag.Cache, error) {
	if c == "" {
		return nil, nil
	}

	if c == "memory" {
		c = fmt.Sprintf("memory:%d", defaultMemorySize)
	}

	u, err := url.Parse(c)
	if err != nil {
		return nil, fmt.Errorf("error parsing cache flag: %w", err)
	}

	switch u.Scheme {
	case "azure":
		return azurestoragecache.New("", "", u.Host)
	case "gcs":
		return gcscache.New(u.Host, strings.TrimPrefix(u.Path, "/"))
	case "memory":
		return lruCache(u.Opaque)
	case "redis":
		conn, err := redis.DialURL(u.String(), redis.DialPassword(os.Getenv("REDIS_PASSWORD")))
		if err != nil {
			return nil, err
		}
		return rediscache.NewWithClient(conn), nil
	case "s3":
		return s3cache.New(u.String())
	case "file":
		return diskCache(u.Path), nil
	default:
		return diskCache(c), nil
	}
}

// lruCache creates an LRU Cache with the specified options of the form
// "maxSize:maxAge".  maxSize is specified in megabytes, maxAge is a duration.
func lruCache(options string) (*lrucache.LruCache, error) {
	parts := strings.SplitN(options, ":", 2)
	size, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, err
	}

	var age time.Duration
	if len(parts) > 1 {
		age, err = time.ParseDuration(parts[1])
		if err != nil {
			return nil, err
		}
	}

	return lrucache.New(size*1e6, int64(age.Seconds())), nil
}

func diskCache(path string) *ttlcache.Cache {
	return ttlcache.New(path, *cacheTTL)
}
