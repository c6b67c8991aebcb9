// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const storageId = "storage"

// LocalConn is a simple implementation of the storage methods of
// AwsConn that doesn't rely on any "cloud" services, instead keeping
// everything in a directory on the local machine. This is
// particularly useful for testing.
type LocalConn struct {
	// these should be set before running Init(), or left to defaults
	TempDir string
	Logger  *log.Logger
}

// Init creates the storage directory
func (a *LocalConn) Init() error {
	var err error
	if a.TempDir == "" {
		a.TempDir = filepath.Join(os.TempDir(), "haar")
	}
	err = os.MkdirAll(filepath.Join(a.TempDir, storageId), 0700)
	if err != nil {
		return fmt.Errorf("Error creating storage directory: %w", err)
	}

	if a.Logger == nil {
		a.Logger = log.New(os.Stdout, "", 0)
	}

	return nil
}

func (a *LocalConn) StorageId() string {
	return storageId
}

func prefixwalker(dirpath string, prefix string, list *[]string) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		n := filepath.ToSlash(strings.TrimPrefix(path, dirpath+string(filepath.Separator)))
		if strings.HasPrefix(n, prefix) {
			*list = append(*list, n)
		}
		return nil
	}
}

func (a *LocalConn) ListObjects(bucket string, prefix string) ([]string, error) {
	var list []string
	dir := filepath.Join(a.TempDir, bucket)
	err := filepath.Walk(dir, prefixwalker(dir, prefix, &list))
	return list, err
}

// DeleteObjects removes the files for a list of keys
func (a *LocalConn) DeleteObjects(bucket string, keys []string) error {
	for _, k := range keys {
		err := os.Remove(filepath.Join(a.TempDir, bucket, k))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// CreateBucket creates a directory for a bucket
func (a *LocalConn) CreateBucket(name string) error {
	err := os.MkdirAll(filepath.Join(a.TempDir, name), 0700)
	if err != nil {
		return fmt.Errorf("Error creating bucket %s: %w", name, err)
	}
	return nil
}

// Download just copies the file from TempDir/bucket/key to path
func (a *LocalConn) Download(bucket string, key string, path string) error {
	fin, err := os.Open(filepath.Join(a.TempDir, bucket, key))
	if err != nil {
		return err
	}
	defer fin.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, fin)
	return err
}

// Upload just copies the file from path to TempDir/bucket/key
func (a *LocalConn) Upload(bucket string, key string, path string) error {
	d := filepath.Join(a.TempDir, bucket, filepath.Dir(key))
	err := os.MkdirAll(d, 0700)
	if err != nil {
		return fmt.Errorf("Error creating directory %s: %w", d, err)
	}

	fin, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fin.Close()

	f, err := os.Create(filepath.Join(a.TempDir, bucket, key))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, fin)
	return err
}

// Log records an item with the Logger. Arguments are handled as
// with fmt.Println.
func (a *LocalConn) Log(v ...interface{}) {
	a.Logger.Println(v...)
}
