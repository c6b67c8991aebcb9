// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const remotePrefix = "s3://"

type Downloader interface {
	Download(bucket string, key string, fn string) error
	Log(v ...interface{})
}

type Uploader interface {
	Upload(bucket string, key string, path string) error
	Log(v ...interface{})
}

// SplitRemote splits a location like s3://bucket/path/to/key into
// its bucket and key. ok is false if loc is not a remote location.
func SplitRemote(loc string) (bucket string, key string, ok bool) {
	if !strings.HasPrefix(loc, remotePrefix) {
		return "", "", false
	}
	s := strings.SplitN(strings.TrimPrefix(loc, remotePrefix), "/", 2)
	if len(s) != 2 || s[0] == "" || s[1] == "" {
		return "", "", false
	}
	return s[0], s[1], true
}

// LoadRemote downloads bucket/key and reads all wavelets of format f
// from it
func LoadRemote(conn Downloader, bucket string, key string, f Format) ([]*Wavelet, error) {
	dir, err := os.MkdirTemp("", "haar")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOUnavailable, err)
	}
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, filepath.Base(key))
	conn.Log("Downloading", key)
	err = conn.Download(bucket, key, fn)
	if err != nil {
		return nil, fmt.Errorf("%w: downloading %s: %w", ErrIOUnavailable, key, err)
	}
	return LoadFile(fn, f)
}

// StoreRemote writes wavelets to bucket/key, replacing anything
// already there
func StoreRemote(conn Uploader, bucket string, key string, wavelets []*Wavelet) error {
	dir, err := os.MkdirTemp("", "haar")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIOUnavailable, err)
	}
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, filepath.Base(key))
	err = StoreFile(fn, wavelets)
	if err != nil {
		return err
	}
	conn.Log("Uploading", key)
	err = conn.Upload(bucket, key, fn)
	if err != nil {
		return fmt.Errorf("%w: uploading %s: %w", ErrIOUnavailable, key, err)
	}
	return nil
}
