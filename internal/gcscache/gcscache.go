// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

// Package gcscache stores resolved photo metadata on Google Cloud Storage,
// for sharing a lookup cache across build machines.
package gcscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log"
	"path"

	"cloud.google.com/go/storage"
)

// objects is the seam between the cache and the GCS client, so tests can
// substitute an in-memory implementation.
type objects interface {
	NewReader(ctx context.Context, name string) (io.ReadCloser, error)
	NewWriter(ctx context.Context, name string) io.WriteCloser
	Delete(ctx context.Context, name string) error
}

// bucketObjects adapts a storage.BucketHandle to the objects interface.
type bucketObjects struct {
	bucket *storage.BucketHandle
}

func (b bucketObjects) NewReader(ctx context.Context, name string) (io.ReadCloser, error) {
	return b.bucket.Object(name).NewReader(ctx)
}

func (b bucketObjects) NewWriter(ctx context.Context, name string) io.WriteCloser {
	return b.bucket.Object(name).NewWriter(ctx)
}

func (b bucketObjects) Delete(ctx context.Context, name string) error {
	return b.bucket.Object(name).Delete(ctx)
}

// Cache stores values as GCS objects under a key prefix.
type Cache struct {
	objects objects
	prefix  string
}

func (c *Cache) Get(key string) ([]byte, bool) {
	r, err := c.objects.NewReader(context.Background(), c.objectName(key))
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotExist) {
			log.Printf("gcscache: error reading %q: %v", key, err)
		}
		return nil, false
	}
	defer r.Close()

	value, err := io.ReadAll(r)
	if err != nil {
		log.Printf("gcscache: error reading %q: %v", key, err)
		return nil, false
	}
	return value, true
}

func (c *Cache) Set(key string, value []byte) {
	w := c.objects.NewWriter(context.Background(), c.objectName(key))
	if _, err := w.Write(value); err != nil {
		log.Printf("gcscache: error writing %q: %v", key, err)
	}
	if err := w.Close(); err != nil {
		log.Printf("gcscache: error closing writer for %q: %v", key, err)
	}
}

func (c *Cache) Delete(key string) {
	err := c.objects.Delete(context.Background(), c.objectName(key))
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		log.Printf("gcscache: error deleting %q: %v", key, err)
	}
}

// objectName maps a cache key to a GCS object name.  Keys contain URLs, so
// they are hashed rather than escaped.
func (c *Cache) objectName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return path.Join(c.prefix, hex.EncodeToString(sum[:]))
}

// New constructs a Cache storing objects in the specified GCS bucket.  If
// prefix is not empty, objects are stored under that path.  Credentials are
// resolved via Application Default Credentials.
func New(bucket, prefix string) (*Cache, error) {
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, err
	}

	return &Cache{
		objects: bucketObjects{bucket: client.Bucket(bucket)},
		prefix:  prefix,
	}, nil
}
