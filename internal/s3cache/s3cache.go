// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

// Package s3cache stores resolved photo metadata on Amazon S3, for sharing a
// lookup cache across build machines.
package s3cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Cache stores values as S3 objects under a key prefix.
type Cache struct {
	s3iface.S3API
	bucket, prefix string
}

func (c *Cache) Get(key string) ([]byte, bool) {
	name := c.objectName(key)
	resp, err := c.GetObject(&s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &name,
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() != "NoSuchKey" {
			log.Printf("s3cache: error fetching %q: %v", key, aerr)
		}
		return nil, false
	}
	defer resp.Body.Close()

	value, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("s3cache: error reading %q: %v", key, err)
		return nil, false
	}
	return value, true
}

func (c *Cache) Set(key string, value []byte) {
	name := c.objectName(key)
	_, err := c.PutObject(&s3.PutObjectInput{
		Body:   aws.ReadSeekCloser(bytes.NewReader(value)),
		Bucket: &c.bucket,
		Key:    &name,
	})
	if err != nil {
		log.Printf("s3cache: error writing %q: %v", key, err)
	}
}

func (c *Cache) Delete(key string) {
	name := c.objectName(key)
	_, err := c.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &c.bucket,
		Key:    &name,
	})
	if err != nil {
		log.Printf("s3cache: error deleting %q: %v", key, err)
	}
}

// objectName maps a cache key to an S3 object name.  Keys contain URLs, so
// they are hashed rather than escaped.
func (c *Cache) objectName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return path.Join(c.prefix, hex.EncodeToString(sum[:]))
}

// New constructs a Cache from a URL of the form
// "s3://region/bucket/optional-path-prefix".  Credentials are resolved by
// the SDK's usual mechanisms.
func New(s string) (*Cache, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	region := u.Host
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	bucket := parts[0]
	if bucket == "" {
		return nil, fmt.Errorf("s3cache: no bucket in %q", s)
	}
	var prefix string
	if len(parts) > 1 {
		prefix = parts[1]
	}

	sess, err := session.NewSession(&aws.Config{Region: &region})
	if err != nil {
		return nil, err
	}

	return &Cache{
		S3API:  s3.New(sess),
		bucket: bucket,
		prefix: prefix,
	}, nil
}
