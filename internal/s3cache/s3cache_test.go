// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package s3cache

import (
	"bytes"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// mockS3 implements the subset of the S3 API the cache uses, backed by a map.
type mockS3 struct {
	s3iface.S3API
	objects map[string][]byte
}

func (m *mockS3) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	if data, ok := m.objects[*input.Key]; ok {
		return &s3.GetObjectOutput{
			Body: aws.ReadSeekCloser(bytes.NewReader(data)),
		}, nil
	}
	return nil, awserr.New("NoSuchKey", "The specified key does not exist.", nil)
}

func (m *mockS3) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestCache(t *testing.T) {
	c := &Cache{
		S3API:  &mockS3{objects: make(map[string][]byte)},
		bucket: "test-bucket",
		prefix: "flickrtag",
	}

	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}

	c.Set("photo:123:m", []byte(`{"image_url":"https://example.com/123_m.jpg"}`))
	got, ok := c.Get("photo:123:m")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if want := `{"image_url":"https://example.com/123_m.jpg"}`; string(got) != want {
		t.Errorf("Get returned %q, want %q", got, want)
	}

	c.Delete("photo:123:m")
	if _, ok := c.Get("photo:123:m"); ok {
		t.Error("expected miss after Delete")
	}
}

func TestNew_URLForms(t *testing.T) {
	tests := []struct {
		url            string
		bucket, prefix string
		expectError    bool
	}{
		{"s3://us-east-1/my-bucket", "my-bucket", "", false},
		{"s3://us-east-1/my-bucket/some/prefix", "my-bucket", "some/prefix", false},
		{"s3://us-east-1/", "", "", true},
	}

	for _, tt := range tests {
		c, err := New(tt.url)
		if tt.expectError {
			if err == nil {
				t.Errorf("New(%q) expected error", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q) returned error: %v", tt.url, err)
			continue
		}
		if got, want := c.bucket, tt.bucket; got != want {
			t.Errorf("New(%q) bucket = %q, want %q", tt.url, got, want)
		}
		if got, want := c.prefix, tt.prefix; got != want {
			t.Errorf("New(%q) prefix = %q, want %q", tt.url, got, want)
		}
	}
}
