// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package publish writes report files to a local directory or to a
// Google Cloud Storage bucket.
package publish

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// A Sink creates named files under a destination.
type Sink interface {
	// Create returns a writer for the named file. Names are
	// slash-separated and relative to the destination. The file
	// is committed when the writer is closed.
	Create(name string) (io.WriteCloser, error)

	// Close releases the sink's resources.
	Close() error
}

// Open returns a sink for dest, which is either a directory or a
// "gs://bucket/prefix" URL. For buckets, opts configure the storage
// client; without opts the application default credentials are used.
func Open(ctx context.Context, dest string, opts ...option.ClientOption) (Sink, error) {
	bucket, prefix, ok := ParseGS(dest)
	if !ok {
		if err := os.MkdirAll(dest, 0777); err != nil {
			return nil, err
		}
		return &Dir{Path: dest}, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("%s: missing bucket name", dest)
	}
	if len(opts) == 0 {
		ts, err := google.DefaultTokenSource(ctx, storage.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("finding credentials: %w", err)
		}
		opts = []option.ClientOption{option.WithTokenSource(ts)}
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &Bucket{ctx: ctx, client: client, bucket: bucket, prefix: prefix}, nil
}

// ParseGS splits a "gs://bucket/prefix" URL. It reports false if dest
// is not a gs URL.
func ParseGS(dest string) (bucket, prefix string, ok bool) {
	rest := strings.TrimPrefix(dest, "gs://")
	if rest == dest {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.Trim(prefix, "/"), true
}

// checkName rejects names that would escape the destination.
func checkName(name string) error {
	clean := path.Clean(name)
	if name == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(name, `\`) {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

// Dir is a sink writing under a local directory.
type Dir struct {
	Path string
}

func (d *Dir) Create(name string) (io.WriteCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	p := filepath.Join(d.Path, filepath.FromSlash(path.Clean(name)))
	if err := os.MkdirAll(filepath.Dir(p), 0777); err != nil {
		return nil, err
	}
	return os.Create(p)
}

func (d *Dir) Close() error { return nil }

// Bucket is a sink writing objects under a prefix of a Cloud Storage
// bucket.
type Bucket struct {
	ctx    context.Context
	client *storage.Client
	bucket string
	prefix string
}

// Object returns the object name for file name.
func (b *Bucket) Object(name string) string {
	return path.Join(b.prefix, path.Clean(name))
}

func (b *Bucket) Create(name string) (io.WriteCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	w := b.client.Bucket(b.bucket).Object(b.Object(name)).NewWriter(b.ctx)
	w.ContentType = mime.TypeByExtension(path.Ext(name))
	return w, nil
}

func (b *Bucket) Close() error { return b.client.Close() }
